/*
 * eMMC chip identification table.
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

// emmcManufacturers maps eMMC CID manufacturer IDs (JEDEC MID field)
// to a display name.
var emmcManufacturers = map[byte]string{
	0x15: "Samsung",
	0x11: "Toshiba/Kioxia",
	0x90: "SK Hynix",
	0xFE: "Micron",
	0x45: "SanDisk/Western Digital",
	0x70: "Kingston",
}

type emmcRow struct {
	ID   []byte // [mid, oid_hi, oid_lo]
	Desc ChipDescriptor
}

func emmcDesc(mfr, model string, sizeMB uint32) ChipDescriptor {
	return ChipDescriptor{
		Manufacturer:  mfr,
		Model:         model,
		SizeMB:        sizeMB,
		PageSize:      512,
		PagesPerBlock: 1024,
		BusWidth:      8,
		Voltage:       "3.3V",
		CellType:      CellMLC,
		Interface:     InterfaceEMMC,
		Timing:        DefaultTiming(),
	}
}

var emmcExact = []emmcRow{
	{ID: []byte{0x15, 0x01, 0x00}, Desc: emmcDesc("Samsung", "KLM8G1WEPD", 8192)},
	{ID: []byte{0x11, 0x01, 0x00}, Desc: emmcDesc("Toshiba/Kioxia", "THGBMNG5D1LBAIL", 16384)},
	{ID: []byte{0x90, 0x01, 0x00}, Desc: emmcDesc("SK Hynix", "H26M42003FPR", 4096)},
}

// ResolveEMMC resolves a CID-prefix byte stream (manufacturer ID
// followed by the two-byte OEM/application ID) to a descriptor; the
// generic fallback only identifies the manufacturer, leaving size
// fields zero for the caller to fill from CSD.
func ResolveEMMC(cid []byte) (ChipDescriptor, bool) {
	if len(cid) < 1 {
		return ChipDescriptor{}, false
	}
	for _, row := range emmcExact {
		if len(cid) < len(row.ID) {
			continue
		}
		match := true
		for i, b := range row.ID {
			if cid[i] != b {
				match = false
				break
			}
		}
		if match {
			return withID(row.Desc, cid), true
		}
	}
	name, ok := emmcManufacturers[cid[0]]
	if !ok {
		return ChipDescriptor{}, false
	}
	d := emmcDesc(name, "Generic eMMC", 0)
	return withID(d, cid), true
}
