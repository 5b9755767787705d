/*
 * Bad-block bitmask construction from OOB samples.
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

package analyzer

import "github.com/bits-and-blooms/bitset"

// BadBlockMask marks, one bit per page sampled, which OOB samples
// carried a non-0xFF byte at the inferred bad-block marker offset.
// Callers use this to go from "marker offset N" back to "which pages
// actually tripped it" without re-scanning the raw samples.
func BadBlockMask(samples [][]byte, markerOffset int) *bitset.BitSet {
	mask := bitset.New(uint(len(samples)))
	if markerOffset < 0 {
		return mask
	}
	for i, s := range samples {
		if markerOffset < len(s) && s[markerOffset] != 0xFF {
			mask.Set(uint(i))
		}
	}
	return mask
}
