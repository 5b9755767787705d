/*
 * Block change tracking via FNV-1a checksums.
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

package writeops

const (
	fnvOffset64 uint64 = 0xcbf29ce484222325
	fnvPrime64  uint64 = 0x100000001b3
)

// FNV1a64 computes the 64-bit FNV-1a checksum of data.
func FNV1a64(data []byte) uint64 {
	h := fnvOffset64
	for _, b := range data {
		h ^= uint64(b)
		h *= fnvPrime64
	}
	return h
}

// ChangeTracker remembers a checksum per logical block so that a
// later pass can tell which blocks have changed since the last
// snapshot, the live counterpart of spec.md's "Change tracker"
// data-model type.
type ChangeTracker struct {
	checksums map[int]uint64
}

// NewChangeTracker creates an empty tracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{checksums: map[int]uint64{}}
}

// Update records block's current checksum, replacing any prior value.
func (c *ChangeTracker) Update(block int, data []byte) {
	c.checksums[block] = FNV1a64(data)
}

// Changed reports whether block's content differs from the last
// recorded checksum. A block with no prior recorded checksum is
// always reported changed, since there is nothing to compare against.
func (c *ChangeTracker) Changed(block int, data []byte) bool {
	prev, ok := c.checksums[block]
	if !ok {
		return true
	}
	return prev != FNV1a64(data)
}

// ChangedBlocks returns, from candidateBlocks, those whose current
// content (read by reader) differs from the last recorded checksum.
func (c *ChangeTracker) ChangedBlocks(candidateBlocks []int, reader func(block int) []byte) []int {
	var changed []int
	for _, b := range candidateBlocks {
		if c.Changed(b, reader(b)) {
			changed = append(changed, b)
		}
	}
	return changed
}
