/*
 * Out-of-band area ECC and bad-block-marker analysis.
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

// ECCScheme names the spare-area ECC scheme inferred from the size of
// the candidate ECC region.
type ECCScheme string

const (
	ECCSchemeNone    ECCScheme = "none"
	ECCSchemeHamming ECCScheme = "hamming"
	ECCSchemeBCH4    ECCScheme = "bch4"
	ECCSchemeBCH8    ECCScheme = "bch8"
	ECCSchemeBCH16   ECCScheme = "bch16"
	ECCSchemeBCH24   ECCScheme = "bch24"
	ECCSchemeBCH40   ECCScheme = "bch40"
)

// SchemeForSize maps a candidate ECC region's byte size to the most
// likely ECC scheme that would occupy a region of that size.
func SchemeForSize(size int) ECCScheme {
	switch {
	case size <= 3:
		return ECCSchemeNone
	case size <= 7:
		return ECCSchemeHamming
	case size <= 15:
		return ECCSchemeBCH4
	case size <= 31:
		return ECCSchemeBCH8
	case size <= 63:
		return ECCSchemeBCH16
	case size <= 127:
		return ECCSchemeBCH24
	default:
		return ECCSchemeBCH40
	}
}

// OOBAnalysis summarizes what the spare-area bytes across a set of
// pages suggest about bad-block markers and ECC layout.
type OOBAnalysis struct {
	OOBSize         int
	BadBlockMarkerOffset int
	HasBadBlockMarker    bool
	ECCRegionStart       int
	ECCRegionEnd         int
	HasECCRegion         bool
	Scheme               ECCScheme
}

// AnalyzeOOB inspects a set of spare-area samples (one []byte per
// page, all the same length) and infers the bad-block marker
// position and the ECC region's location and likely scheme.
//
// The bad-block marker is taken to be the byte position that is
// non-0xFF in fewer than 10% of samples: a real marker byte is
// 0xFF on every good block and something else on the rare bad one,
// so a position that disagrees with 0xFF often is not the marker.
func AnalyzeOOB(samples [][]byte) OOBAnalysis {
	result := OOBAnalysis{}
	if len(samples) == 0 || len(samples[0]) == 0 {
		return result
	}
	oobSize := len(samples[0])
	result.OOBSize = oobSize

	nonFF := make([]int, oobSize)
	for _, s := range samples {
		for i := 0; i < oobSize && i < len(s); i++ {
			if s[i] != 0xFF {
				nonFF[i]++
			}
		}
	}
	bestPos, bestRatio := -1, 1.0
	for i, c := range nonFF {
		ratio := float64(c) / float64(len(samples))
		if ratio > 0 && ratio < 0.10 && ratio < bestRatio {
			bestRatio, bestPos = ratio, i
		}
	}
	if bestPos >= 0 {
		result.HasBadBlockMarker = true
		result.BadBlockMarkerOffset = bestPos
	}

	avg := make([]byte, oobSize)
	if len(samples) > 0 {
		avg = samples[0]
	}
	const window = 16
	start, end := -1, -1
	for i := 0; i+window <= len(avg); i++ {
		if ShannonEntropy(avg[i:i+window]) > 4.0 {
			if start < 0 {
				start = i
			}
			end = i + window
		}
	}
	if start >= 0 {
		result.HasECCRegion = true
		result.ECCRegionStart = start
		result.ECCRegionEnd = end
		result.Scheme = SchemeForSize(end - start)
	} else {
		result.Scheme = ECCSchemeNone
	}
	return result
}
