/*
 * Wear inference from content heuristics.
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

import (
	"math"
	"sort"
)

// BlockWear is the inferred erase-count estimate for a single block.
type BlockWear struct {
	Block        int
	EstimatedErases int
	Entropy      float64
	FFRatio      float64
}

// WearReport summarizes per-block wear estimates across a dump.
type WearReport struct {
	Blocks        []BlockWear
	Min, Max      int
	Mean          float64
	StdDev        float64
	Hottest       []BlockWear
	Coldest       []BlockWear
	RemainingLife float64 // fraction of rated 10000-cycle life left, based on the hottest block
}

// estimateErases infers an erase-count for a block purely from its
// content statistics: a block that reads back almost entirely 0xFF
// has seen heavy recent erase/program cycling (it is likely sitting
// erased right now), high entropy content suggests a well-used block
// holding compressed or encrypted data, and everything else gets a
// conservative floor scaled by entropy.
func estimateErases(ffRatio, entropy float64) int {
	switch {
	case ffRatio > 0.99:
		return 100
	case entropy > 7.0:
		return 500
	default:
		floor := 50
		scaled := int(entropy * 100)
		if scaled > floor {
			return scaled
		}
		return floor
	}
}

// InferWear estimates per-block wear from buf, split into blocks of
// blockSize bytes, and computes the distribution statistics and
// remaining-life fraction spec.md's wear model calls for.
func InferWear(buf []byte, blockSize int) WearReport {
	var report WearReport
	if blockSize <= 0 {
		return report
	}
	for off, block := 0, 0; off < len(buf); off, block = off+blockSize, block+1 {
		end := off + blockSize
		if end > len(buf) {
			end = len(buf)
		}
		chunk := buf[off:end]
		ff := byteRatio(chunk, 0xFF)
		ent := ShannonEntropy(chunk)
		report.Blocks = append(report.Blocks, BlockWear{
			Block:           block,
			EstimatedErases: estimateErases(ff, ent),
			Entropy:         ent,
			FFRatio:         ff,
		})
	}
	if len(report.Blocks) == 0 {
		return report
	}

	sum := 0
	report.Min = report.Blocks[0].EstimatedErases
	report.Max = report.Blocks[0].EstimatedErases
	for _, b := range report.Blocks {
		sum += b.EstimatedErases
		if b.EstimatedErases < report.Min {
			report.Min = b.EstimatedErases
		}
		if b.EstimatedErases > report.Max {
			report.Max = b.EstimatedErases
		}
	}
	n := float64(len(report.Blocks))
	report.Mean = float64(sum) / n

	var variance float64
	for _, b := range report.Blocks {
		d := float64(b.EstimatedErases) - report.Mean
		variance += d * d
	}
	variance /= n
	report.StdDev = math.Sqrt(variance)

	sorted := append([]BlockWear(nil), report.Blocks...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EstimatedErases > sorted[j].EstimatedErases
	})
	top := 10
	if len(sorted) < top {
		top = len(sorted)
	}
	report.Hottest = append([]BlockWear(nil), sorted[:top]...)

	coldSorted := append([]BlockWear(nil), report.Blocks...)
	sort.Slice(coldSorted, func(i, j int) bool {
		return coldSorted[i].EstimatedErases < coldSorted[j].EstimatedErases
	})
	ctop := 10
	if len(coldSorted) < ctop {
		ctop = len(coldSorted)
	}
	report.Coldest = append([]BlockWear(nil), coldSorted[:ctop]...)

	const ratedCycles = 10000
	report.RemainingLife = float64(ratedCycles-report.Max) / float64(ratedCycles)
	if report.RemainingLife < 0 {
		report.RemainingLife = 0
	}
	return report
}
