/*
 * Page-by-page dump diffing.
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

import "math/bits"

// DiffKind classifies how one page of a new dump differs from the
// corresponding page of a baseline dump.
type DiffKind string

const (
	DiffUnchanged DiffKind = "unchanged"
	DiffErased    DiffKind = "erased"
	DiffBitFlip   DiffKind = "bit_flip"
	DiffModified  DiffKind = "modified"
	DiffAdded     DiffKind = "added"
	DiffRemoved   DiffKind = "removed"
)

// PageDiff describes the comparison result for a single page.
type PageDiff struct {
	Page       int
	Offset     int64
	Kind       DiffKind
	FlipCount  int
}

// DumpDiff is the full page-by-page comparison of two dumps of
// (possibly different) size, plus an overall similarity score.
type DumpDiff struct {
	PageSize   int
	Pages      []PageDiff
	Similarity float64
}

func countDiffBytes(a, b []byte) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

func countBitFlips(a, b []byte) int {
	n := 0
	for i := range a {
		n += bits.OnesCount8(a[i] ^ b[i])
	}
	return n
}

func allByte(buf []byte, v byte) bool {
	for _, b := range buf {
		if b != v {
			return false
		}
	}
	return true
}

// Diff compares a baseline dump against a new one page by page. When
// the two differ in length, the trailing range of the longer dump is
// reported as a single added/removed PageDiff range rather than
// page-by-page, since there is nothing on the other side to compare
// against.
func Diff(baseline, current []byte, pageSize int) DumpDiff {
	if pageSize <= 0 {
		pageSize = 2048
	}
	result := DumpDiff{PageSize: pageSize}

	common := len(baseline)
	if len(current) < common {
		common = len(current)
	}

	totalDiff := 0
	pages := 0
	for off := 0; off < common; off += pageSize {
		end := off + pageSize
		if end > common {
			end = common
		}
		a, b := baseline[off:end], current[off:end]
		pages++
		pd := PageDiff{Page: off / pageSize, Offset: int64(off)}
		switch {
		case countDiffBytes(a, b) == 0:
			pd.Kind = DiffUnchanged
		case allByte(b, 0xFF) && !allByte(a, 0xFF):
			pd.Kind = DiffErased
			totalDiff += len(a)
		default:
			flips := countBitFlips(a, b)
			pd.FlipCount = flips
			diffBytes := countDiffBytes(a, b)
			if diffBytes <= 10 {
				pd.Kind = DiffBitFlip
			} else {
				pd.Kind = DiffModified
			}
			totalDiff += diffBytes
		}
		result.Pages = append(result.Pages, pd)
	}

	if len(current) > len(baseline) {
		result.Pages = append(result.Pages, PageDiff{
			Page:   len(baseline) / pageSize,
			Offset: int64(len(baseline)),
			Kind:   DiffAdded,
		})
		totalDiff += len(current) - len(baseline)
	} else if len(baseline) > len(current) {
		result.Pages = append(result.Pages, PageDiff{
			Page:   len(current) / pageSize,
			Offset: int64(len(current)),
			Kind:   DiffRemoved,
		})
		totalDiff += len(baseline) - len(current)
	}

	maxLen := len(baseline)
	if len(current) > maxLen {
		maxLen = len(current)
	}
	minLen := len(baseline)
	if len(current) < minLen {
		minLen = len(current)
	}
	if maxLen == 0 {
		result.Similarity = 1.0
	} else {
		sim := float64(minLen-totalDiff) / float64(maxLen)
		if sim < 0 {
			sim = 0
		}
		result.Similarity = sim
	}
	return result
}
