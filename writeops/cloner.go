/*
 * Chip-to-chip cloning orchestration.
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
	"bytes"
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/openflash/flashcore/chipdb"
	"github.com/openflash/flashcore/corerr"
	"github.com/openflash/flashcore/iface"
)

// BlockMapping selects how a cloner maps source blocks to target
// blocks.
type BlockMapping string

const (
	MappingExact          BlockMapping = "exact"
	MappingSkipBadBlocks  BlockMapping = "skip_bad_blocks"
	MappingWearAware      BlockMapping = "wear_aware"
)

// ClonePhase names the current stage of a clone operation, reported
// through ClonerProgressFunc.
type ClonePhase string

const (
	PhaseScanningSource ClonePhase = "scanning_source"
	PhaseScanningTarget ClonePhase = "scanning_target"
	PhaseErasingTarget  ClonePhase = "erasing_target"
	PhaseCopying        ClonePhase = "copying"
	PhaseVerifying      ClonePhase = "verifying"
	PhaseComplete       ClonePhase = "complete"
)

// ClonerProgressFunc receives phase transitions and per-block
// progress during a clone.
type ClonerProgressFunc func(phase ClonePhase, blocksDone, blocksTotal int)

// Cloner copies one chip's contents onto another, checking
// capacity/geometry compatibility up front and mapping blocks
// according to Mapping.
type Cloner struct {
	Source, Target iface.Device
	PageSize       int
	PagesPerBlock  int
	TotalBlocks    int
	Mapping        BlockMapping
	SourceBadBlocks *BadBlockTable
	TargetBadBlocks *BadBlockTable
	Wear           *WearManager
	OnProgress     ClonerProgressFunc
}

// CheckCompatibility verifies the source and target chip descriptors
// have matching capacity and page geometry, returning a
// *corerr.ChipMismatch describing the first incompatibility found.
// Targets smaller than the source are rejected; a target with spare
// capacity beyond the source is fine, since the clone only touches
// the blocks the source actually has.
func CheckCompatibility(source, target chipdb.ChipDescriptor) error {
	srcName, dstName := source.Manufacturer+" "+source.Model, target.Manufacturer+" "+target.Model
	if target.SizeMB < source.SizeMB {
		return &corerr.ChipMismatch{
			Source: srcName, Target: dstName,
			Reason: fmt.Sprintf("capacity mismatch: target %s smaller than source %s",
				humanize.Bytes(uint64(target.SizeMB)<<20), humanize.Bytes(uint64(source.SizeMB)<<20)),
		}
	}
	if source.PageSize != target.PageSize {
		return &corerr.ChipMismatch{
			Source: srcName, Target: dstName,
			Reason: fmt.Sprintf("page size mismatch: %d vs %d", source.PageSize, target.PageSize),
		}
	}
	if source.PagesPerBlock != target.PagesPerBlock {
		return &corerr.ChipMismatch{
			Source: srcName, Target: dstName,
			Reason: fmt.Sprintf("block geometry mismatch: %d vs %d pages/block", source.PagesPerBlock, target.PagesPerBlock),
		}
	}
	return nil
}

func (c *Cloner) notify(phase ClonePhase, done, total int) {
	if c.OnProgress != nil {
		c.OnProgress(phase, done, total)
	}
}

// WearReport is the minimal wear-awareness input the cloner consults
// for MappingWearAware; callers that don't need wear-aware mapping
// can pass a zero value.
type WearReport struct {
	HotBlocks []int
}

// sourceBlocks returns the ordered list of source blocks to copy:
// every block for Exact, or every block the source table doesn't
// mark bad for SkipBadBlocks/WearAware.
func (c *Cloner) sourceBlocks() []int {
	var blocks []int
	for b := 0; b < c.TotalBlocks; b++ {
		if c.Mapping != MappingExact && c.SourceBadBlocks != nil && c.SourceBadBlocks.IsBad(b) {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// targetBlocks returns the ordered list of usable target blocks: for
// Exact every block in range, for SkipBadBlocks/WearAware every block
// the target table doesn't mark bad. WearAware further reorders the
// result so blocks absent from wear.HotBlocks (the least-worn target
// blocks) come first, pushing the hottest target blocks to the end of
// the allocation order.
func (c *Cloner) targetBlocks(wear WearReport) []int {
	var blocks []int
	for b := 0; b < c.TotalBlocks; b++ {
		if c.Mapping != MappingExact && c.TargetBadBlocks != nil && c.TargetBadBlocks.IsBad(b) {
			continue
		}
		blocks = append(blocks, b)
	}
	if c.Mapping != MappingWearAware {
		return blocks
	}
	hot := make(map[int]bool, len(wear.HotBlocks))
	for _, b := range wear.HotBlocks {
		hot[b] = true
	}
	var cold, warm []int
	for _, b := range blocks {
		if hot[b] {
			warm = append(warm, b)
		} else {
			cold = append(cold, b)
		}
	}
	return append(cold, warm...)
}

// blockMapping allocates each source block a distinct, good target
// block, in order, according to Mapping. For Exact the mapping is the
// identity (block b stays block b). For SkipBadBlocks/WearAware,
// source block i is assigned the i-th usable target block, so bad
// target blocks never appear as a mapping value and no two source
// blocks share a target.
func (c *Cloner) blockMapping(sources, targets []int) (map[int]int, error) {
	mapping := make(map[int]int, len(sources))
	if c.Mapping == MappingExact {
		for _, b := range sources {
			mapping[b] = b
		}
		return mapping, nil
	}
	if len(targets) < len(sources) {
		return nil, fmt.Errorf("not enough usable target blocks: need %d, have %d", len(sources), len(targets))
	}
	for i, b := range sources {
		mapping[b] = targets[i]
	}
	return mapping, nil
}

// Clone copies every mapped block from Source to Target, reporting
// phase transitions and per-block progress through OnProgress.
func (c *Cloner) Clone(ctx context.Context, wear WearReport) error {
	c.notify(PhaseScanningSource, 0, c.TotalBlocks)
	sourceDesc, err := c.Source.Detect(ctx)
	if err != nil {
		return fmt.Errorf("scanning source: %w", err)
	}

	c.notify(PhaseScanningTarget, 0, c.TotalBlocks)
	targetDesc, err := c.Target.Detect(ctx)
	if err != nil {
		return fmt.Errorf("scanning target: %w", err)
	}
	if err := CheckCompatibility(sourceDesc, targetDesc); err != nil {
		return err
	}

	sources := c.sourceBlocks()
	targets := c.targetBlocks(wear)
	mapping, err := c.blockMapping(sources, targets)
	if err != nil {
		return err
	}

	blockAddr := func(block int) uint64 {
		return uint64(block) * uint64(c.PagesPerBlock) * uint64(c.PageSize)
	}

	c.notify(PhaseErasingTarget, 0, len(sources))
	for i, sb := range sources {
		tb := mapping[sb]
		if err := c.Target.Erase(ctx, tb); err != nil {
			return fmt.Errorf("erasing target block %d: %w", tb, err)
		}
		if c.Wear != nil {
			if err := c.Wear.RecordErase(tb); err != nil {
				return err
			}
		}
		c.notify(PhaseErasingTarget, i+1, len(sources))
	}

	pageSize := c.PageSize
	pagesPerBlock := c.PagesPerBlock
	c.notify(PhaseCopying, 0, len(sources))
	for i, sb := range sources {
		tb := mapping[sb]
		for page := 0; page < pagesPerBlock; page++ {
			srcAddr := blockAddr(sb) + uint64(page)*uint64(pageSize)
			dstAddr := blockAddr(tb) + uint64(page)*uint64(pageSize)
			data, _, err := c.Source.Read(ctx, srcAddr, pageSize, false)
			if err != nil {
				return fmt.Errorf("reading source block %d page %d: %w", sb, page, err)
			}
			if err := c.Target.Program(ctx, dstAddr, data); err != nil {
				return fmt.Errorf("writing target block %d page %d: %w", tb, page, err)
			}
		}
		c.notify(PhaseCopying, i+1, len(sources))
	}

	c.notify(PhaseVerifying, 0, len(sources))
	for i, sb := range sources {
		tb := mapping[sb]
		for page := 0; page < pagesPerBlock; page++ {
			srcAddr := blockAddr(sb) + uint64(page)*uint64(pageSize)
			dstAddr := blockAddr(tb) + uint64(page)*uint64(pageSize)
			src, _, err := c.Source.Read(ctx, srcAddr, pageSize, false)
			if err != nil {
				return fmt.Errorf("verify-reading source block %d page %d: %w", sb, page, err)
			}
			dst, _, err := c.Target.Read(ctx, dstAddr, pageSize, false)
			if err != nil {
				return fmt.Errorf("verify-reading target block %d page %d: %w", tb, page, err)
			}
			if !bytes.Equal(src, dst) {
				return &corerr.VerifyFailed{Block: tb, Page: page, Offset: 0}
			}
		}
		c.notify(PhaseVerifying, i+1, len(sources))
	}

	c.notify(PhaseComplete, len(sources), len(sources))
	return nil
}
