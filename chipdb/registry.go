/*
 * Chip registry and override resolution.
 *
 * Copyright 2026, The Flashcore Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package chipdb

// Registry resolves chip IDs against the built-in tables plus any
// loaded Overrides, an override whose chip ID is a prefix of the read
// ID taking precedence over the built-in tables so a user can correct a misidentified
// chip without waiting on a new release.
type Registry struct {
	overrides Overrides
}

// NewRegistry returns a Registry with no overrides loaded.
func NewRegistry() *Registry {
	return &Registry{}
}

// LoadOverrides replaces the registry's override set.
func (r *Registry) LoadOverrides(o Overrides) {
	r.overrides = o
}

// Resolve dispatches to the interface-specific resolver, consulting
// overrides first.
func (r *Registry) Resolve(iface Interface, chipID []byte) (ChipDescriptor, bool) {
	if d, ok := matchOverride(r.overrideRows(iface), chipID); ok {
		return d, true
	}
	switch iface {
	case InterfaceParallelNAND:
		return ResolveParallelNAND(chipID)
	case InterfaceSPINAND:
		return ResolveSPINAND(chipID)
	case InterfaceSPINOR:
		return ResolveSPINOR(chipID)
	case InterfaceEMMC:
		return ResolveEMMC(chipID)
	case InterfaceUFS:
		return ResolveUFS(chipID)
	default:
		return ChipDescriptor{}, false
	}
}

func (r *Registry) overrideRows(iface Interface) []ChipDescriptor {
	switch iface {
	case InterfaceParallelNAND:
		return r.overrides.ParallelNAND
	case InterfaceSPINAND:
		return r.overrides.SPINAND
	case InterfaceSPINOR:
		return r.overrides.SPINOR
	case InterfaceEMMC:
		return r.overrides.EMMC
	case InterfaceUFS:
		return r.overrides.UFS
	default:
		return nil
	}
}

func matchOverride(rows []ChipDescriptor, chipID []byte) (ChipDescriptor, bool) {
	for _, d := range rows {
		if len(chipID) < len(d.ChipID) || len(d.ChipID) == 0 {
			continue
		}
		match := true
		for i, b := range d.ChipID {
			if chipID[i] != b {
				match = false
				break
			}
		}
		if match {
			out := d
			out.ChipID = append([]byte(nil), chipID...)
			return out, true
		}
	}
	return ChipDescriptor{}, false
}
