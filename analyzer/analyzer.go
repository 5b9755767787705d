/*
 * Top-level dump-analysis orchestration.
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

// Options configures an analysis pass.
type Options struct {
	PageSize  int
	BlockSize int
	// Deep enables the expensive key-search pass. Off by default
	// because it has a high false-positive rate on its own and is
	// meant to be run deliberately, not as part of a routine scan.
	Deep bool
}

// Summary is the full result of analyzing one dump.
type Summary struct {
	MemoryMap       MemoryMap
	OOB             OOBAnalysis
	BadBlockMask    *bitset.BitSet
	Wear            WearReport
	Anomalies       []Anomaly
	Keys            []KeyCandidate
	DataQualityScore float64
}

// Analyze runs the full analysis pipeline over a raw dump and,
// optionally, its paired out-of-band samples.
func Analyze(buf []byte, oobSamples [][]byte, opts Options) Summary {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 2048
	}
	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = 64 * pageSize
	}

	mm := BuildMemoryMap(buf, pageSize)

	var oob OOBAnalysis
	var mask *bitset.BitSet
	var badBlocks []int
	if len(oobSamples) > 0 {
		oob = AnalyzeOOB(oobSamples)
		mask = BadBlockMask(oobSamples, oob.BadBlockMarkerOffset)
		for i := uint(0); i < mask.Len(); i++ {
			if mask.Test(i) {
				badBlocks = append(badBlocks, int(i))
			}
		}
	}

	wear := InferWear(buf, blockSize)
	anomalies := DetectAnomalies(buf, pageSize, blockSize, mm.Regions, badBlocks, oob.BadBlockMarkerOffset)

	var keys []KeyCandidate
	if opts.Deep {
		keys = SearchKeys(buf)
	}

	return Summary{
		MemoryMap:        mm,
		OOB:              oob,
		BadBlockMask:     mask,
		Wear:             wear,
		Anomalies:        anomalies,
		Keys:             keys,
		DataQualityScore: dataQualityScore(mm, anomalies),
	}
}

// dataQualityScore folds the classification coverage and anomaly
// severity into a single 0-1 figure: a dump that is mostly
// recognized content with no critical anomalies scores near 1, one
// dominated by unknown regions or critical findings scores low.
func dataQualityScore(mm MemoryMap, anomalies []Anomaly) float64 {
	if mm.Size == 0 {
		return 0
	}
	var unknownBytes int64
	for _, r := range mm.Regions {
		if r.Kind == KindUnknown {
			unknownBytes += r.Len()
		}
	}
	coverage := 1.0 - float64(unknownBytes)/float64(mm.Size)

	penalty := 0.0
	for _, a := range anomalies {
		switch a.Severity {
		case SeverityCritical:
			penalty += 0.1
		case SeverityWarning:
			penalty += 0.03
		case SeverityInfo:
			penalty += 0.01
		}
	}
	score := coverage - penalty
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
