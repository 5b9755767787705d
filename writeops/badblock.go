/*
 * Bad-block table and spare allocation.
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

// Package writeops implements the write-path services layered on top
// of iface.Device: bad-block tracking, wear-leveling accounting, the
// per-operation programmer contract, change tracking, and backup and
// clone orchestration.
package writeops

import (
	"sort"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/openflash/flashcore/corerr"
)

// BadBlockEntry is the per-block record the §3 bad-block map keeps:
// the block itself, why it was marked, when, and which spare it was
// translated to.
type BadBlockEntry struct {
	Block    int
	Reason   string
	MarkedAt time.Time
	Spare    int
}

// BadBlockTable tracks which physical blocks are marked bad and
// manages allocation from a spare pool of known-good replacement
// blocks, same shape as spec.md's "Bad-block table" data-model type.
type BadBlockTable struct {
	totalBlocks int
	bad         *bitset.BitSet
	spares      []int // ascending, unallocated spare block numbers
	usedSpares  map[int]int // bad block -> allocated spare
	entries     map[int]BadBlockEntry
}

// NewBadBlockTable creates a table for a chip with totalBlocks
// blocks, where the blocks in spareBlocks are reserved as the spare
// pool rather than part of the addressable user range.
func NewBadBlockTable(totalBlocks int, spareBlocks []int) *BadBlockTable {
	spares := append([]int(nil), spareBlocks...)
	sort.Ints(spares)
	return &BadBlockTable{
		totalBlocks: totalBlocks,
		bad:         bitset.New(uint(totalBlocks)),
		spares:      spares,
		usedSpares:  map[int]int{},
		entries:     map[int]BadBlockEntry{},
	}
}

// MarkBad marks block as bad and immediately draws a spare to
// translate it to, recording reason and the current time in the
// block's entry. It is idempotent: calling it again on an
// already-bad block is a no-op that returns nil. If the spare pool
// is exhausted it returns corerr.ErrNoSpareBlocks and the block is
// left unmarked, since a bad block with nowhere to translate to
// cannot be handed out.
func (t *BadBlockTable) MarkBad(block int, reason string) error {
	if block < 0 || block >= t.totalBlocks {
		return nil
	}
	if t.bad.Test(uint(block)) {
		return nil
	}
	spare, ok := t.AllocateSpare(block)
	if !ok {
		return corerr.ErrNoSpareBlocks
	}
	t.bad.Set(uint(block))
	t.entries[block] = BadBlockEntry{Block: block, Reason: reason, MarkedAt: time.Now(), Spare: spare}
	return nil
}

// IsBad reports whether block has been marked bad.
func (t *BadBlockTable) IsBad(block int) bool {
	if block < 0 || block >= t.totalBlocks {
		return false
	}
	return t.bad.Test(uint(block))
}

// AllocateSpare assigns the lowest-numbered unallocated spare block
// to replace bad, remembering the mapping for future lookups. It
// returns (spare, true) on success, or (0, false) if the spare pool
// is exhausted.
func (t *BadBlockTable) AllocateSpare(bad int) (int, bool) {
	if spare, ok := t.usedSpares[bad]; ok {
		return spare, true
	}
	taken := t.reverseTaken()
	for _, s := range t.spares {
		if taken[s] {
			continue
		}
		t.usedSpares[bad] = s
		return s, true
	}
	return 0, false
}

func (t *BadBlockTable) reverseTaken() map[int]bool {
	taken := map[int]bool{}
	for _, s := range t.usedSpares {
		taken[s] = true
	}
	return taken
}

// Translate maps a logical block to its physical block: the spare
// replacement if one has been allocated for a bad logical block,
// otherwise the logical block itself.
func (t *BadBlockTable) Translate(logical int) int {
	if spare, ok := t.usedSpares[logical]; ok {
		return spare
	}
	return logical
}

// Entry returns the bad-block record for block and whether one
// exists.
func (t *BadBlockTable) Entry(block int) (BadBlockEntry, bool) {
	e, ok := t.entries[block]
	return e, ok
}

// BadBlocks returns the sorted list of blocks marked bad.
func (t *BadBlockTable) BadBlocks() []int {
	var out []int
	for i := uint(0); i < t.bad.Len(); i++ {
		if t.bad.Test(i) {
			out = append(out, int(i))
		}
	}
	return out
}
