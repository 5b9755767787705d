/*
 * High-entropy key-material search.
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

import "sort"

// KeyLengths are the candidate symmetric/asymmetric key sizes, in
// bytes, the deep key search tries at every 16-byte-aligned offset.
var KeyLengths = []int{16, 24, 32, 48, 64}

// keyTags are short ASCII markers that, found near a high-entropy
// candidate, raise confidence it is actually a cryptographic key
// rather than incidental high-entropy data.
var keyTags = []string{"AES", "RSA", "KEY", "SEC", "ENC", "DEC"}

// KeyCandidate is a byte range whose entropy and alignment are
// consistent with holding a cryptographic key.
type KeyCandidate struct {
	Offset  int64
	Length  int
	Entropy float64
	Tags    []string
}

const keySearchEntropyThreshold = 7.2
const keySearchNearbyWindow = 32
const keySearchTop = 50

func nearbyTags(buf []byte, offset int64, length int) []string {
	lo := offset - keySearchNearbyWindow
	if lo < 0 {
		lo = 0
	}
	hi := offset + int64(length) + keySearchNearbyWindow
	if hi > int64(len(buf)) {
		hi = int64(len(buf))
	}
	window := buf[lo:hi]
	var found []string
	for _, tag := range keyTags {
		for i := 0; i+len(tag) <= len(window); i++ {
			match := true
			for j := 0; j < len(tag); j++ {
				c := window[i+j]
				if c >= 'a' && c <= 'z' {
					c -= 'a' - 'A'
				}
				if c != tag[j] {
					match = false
					break
				}
			}
			if match {
				found = append(found, tag)
				break
			}
		}
	}
	return found
}

// SearchKeys scans buf at every 16-byte-aligned offset for windows of
// each candidate key length whose entropy exceeds the threshold,
// tags any with nearby ASCII markers, and returns the top 50 by
// entropy. This pass is only run in deep analysis mode: it is
// expensive and produces a high false-positive rate on its own.
func SearchKeys(buf []byte) []KeyCandidate {
	candidates := []KeyCandidate{}
	for _, klen := range KeyLengths {
		for off := 0; off+klen <= len(buf); off += 16 {
			window := buf[off : off+klen]
			e := ShannonEntropy(window)
			if e <= keySearchEntropyThreshold {
				continue
			}
			candidates = append(candidates, KeyCandidate{
				Offset:  int64(off),
				Length:  klen,
				Entropy: e,
				Tags:    nearbyTags(buf, int64(off), klen),
			})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Entropy > candidates[j].Entropy
	})
	if len(candidates) > keySearchTop {
		candidates = candidates[:keySearchTop]
	}
	return candidates
}
