/*
 * Wear-leveling accounting.
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

import (
	"sort"

	"github.com/openflash/flashcore/corerr"
)

// WearManager tracks per-block erase counts against a rated cycle
// limit and surfaces wear-leveling candidates, the live counterpart
// of spec.md's "Wear record" data-model type.
type WearManager struct {
	maxCycles int
	counts    map[int]int
}

// NewWearManager creates a manager rating each block for maxCycles
// erase cycles.
func NewWearManager(maxCycles int) *WearManager {
	return &WearManager{maxCycles: maxCycles, counts: map[int]int{}}
}

// RecordErase increments block's erase count and returns
// WearLimitExceeded if the new count is past the rated limit.
func (w *WearManager) RecordErase(block int) error {
	w.counts[block]++
	if w.counts[block] > w.maxCycles {
		return &corerr.WearLimitExceeded{Block: block}
	}
	return nil
}

// EraseCount returns the current erase count for block.
func (w *WearManager) EraseCount(block int) int {
	return w.counts[block]
}

// NeedsLeveling reports whether the spread between the most-erased
// and least-erased block exceeds one tenth of the rated limit, the
// point at which uneven wear starts to matter. Blocks erased equally,
// however heavily, never need leveling.
func (w *WearManager) NeedsLeveling() bool {
	if len(w.counts) == 0 {
		return false
	}
	min, max := -1, 0
	for _, c := range w.counts {
		if min == -1 || c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return max-min > w.maxCycles/10
}

// LevelingPair is a hot block paired with a cold block that wear
// leveling should consider swapping.
type LevelingPair struct {
	Hot, Cold int
}

// LevelingCandidates returns hot/cold block pairs: blocks whose
// erase count exceeds 1.5x the mean, paired in order with blocks
// whose erase count is below 0.5x the mean.
func (w *WearManager) LevelingCandidates() []LevelingPair {
	if len(w.counts) == 0 {
		return nil
	}
	sum := 0
	for _, c := range w.counts {
		sum += c
	}
	mean := float64(sum) / float64(len(w.counts))

	var hot, cold []int
	for block, c := range w.counts {
		switch {
		case float64(c) > 1.5*mean:
			hot = append(hot, block)
		case float64(c) < 0.5*mean:
			cold = append(cold, block)
		}
	}
	sort.Ints(hot)
	sort.Ints(cold)

	n := len(hot)
	if len(cold) < n {
		n = len(cold)
	}
	pairs := make([]LevelingPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = LevelingPair{Hot: hot[i], Cold: cold[i]}
	}
	return pairs
}
