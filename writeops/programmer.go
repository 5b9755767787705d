/*
 * Verified page-programming orchestration.
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
	"errors"

	"github.com/openflash/flashcore/corerr"
	"github.com/openflash/flashcore/iface"
)

// ProgressFunc receives a progress snapshot. Called once every
// ProgressEvery pages written, plus once at the end when the page
// count is not a multiple of ProgressEvery, per spec.md's progress-
// emission rule.
type ProgressFunc func(Progress)

// Progress is a point-in-time snapshot of a programming operation.
type Progress struct {
	PagesDone, PagesTotal int
	BytesDone, BytesTotal int64
}

// Programmer wraps an iface.Device with the write-path contract:
// bad-block skip-or-fail, erase-before-program, wear-leveling
// accounting, verify-with-retry, and progress emission.
type Programmer struct {
	Device    iface.Device
	BadBlocks *BadBlockTable
	Wear      *WearManager

	PageSize        int
	PagesPerBlock   int
	VerifyRetries   int
	ProgressEvery   int // pages between progress callbacks; 0 disables
	SkipBadBlocks   bool // if false, a bad block aborts the op instead of being skipped
	OnProgress      ProgressFunc
}

func (p *Programmer) blockOf(page int) int {
	if p.PagesPerBlock <= 0 {
		return 0
	}
	return page / p.PagesPerBlock
}

// ProgramPages writes pages of data (each exactly PageSize bytes)
// starting at logical page startPage, erasing each destination block
// before its first page is written, skipping or failing on bad
// blocks per SkipBadBlocks, verifying every page with up to
// VerifyRetries retries, and reporting wear-limit overruns.
func (p *Programmer) ProgramPages(ctx context.Context, startPage int, pages [][]byte) error {
	erasedBlocks := map[int]bool{}
	total := len(pages)
	var totalBytes int64
	for _, pg := range pages {
		totalBytes += int64(len(pg))
	}
	var doneBytes int64

	for i, data := range pages {
		logicalPage := startPage + i
		logicalBlock := p.blockOf(logicalPage)
		physicalBlock := logicalBlock
		if p.BadBlocks != nil {
			if p.BadBlocks.IsBad(logicalBlock) {
				if !p.SkipBadBlocks {
					return corerr.ErrBadBlock
				}
				spare, ok := p.BadBlocks.AllocateSpare(logicalBlock)
				if !ok {
					return corerr.ErrNoSpareBlocks
				}
				physicalBlock = spare
			}
		}

		if !erasedBlocks[physicalBlock] {
			if err := p.Device.Erase(ctx, physicalBlock); err != nil {
				var ef *corerr.EraseFail
				if errors.As(err, &ef) && p.BadBlocks != nil {
					_ = p.BadBlocks.MarkBad(logicalBlock, "erase failure")
				}
				return err
			}
			if p.Wear != nil {
				if err := p.Wear.RecordErase(physicalBlock); err != nil {
					return err
				}
			}
			erasedBlocks[physicalBlock] = true
		}

		addr := uint64(physicalBlock)*uint64(p.PagesPerBlock)*uint64(p.PageSize) +
			uint64(logicalPage%p.PagesPerBlock)*uint64(p.PageSize)

		if err := p.programWithVerify(ctx, addr, data, physicalBlock, logicalPage%p.PagesPerBlock); err != nil {
			return err
		}

		doneBytes += int64(len(data))
		if p.OnProgress != nil && p.ProgressEvery > 0 && (i+1)%p.ProgressEvery == 0 {
			p.OnProgress(Progress{PagesDone: i + 1, PagesTotal: total, BytesDone: doneBytes, BytesTotal: totalBytes})
		}
	}
	if p.OnProgress != nil && p.ProgressEvery > 0 && total%p.ProgressEvery != 0 {
		p.OnProgress(Progress{PagesDone: total, PagesTotal: total, BytesDone: doneBytes, BytesTotal: totalBytes})
	}
	return nil
}

// programWithVerify programs addr and reads it back, retrying on
// mismatch up to VerifyRetries times. NAND can only clear bits by
// erasing the whole block, so a failed verify re-erases block before
// the retry's Program call rather than programming over the same
// cells again, which could not fix a mismatch.
func (p *Programmer) programWithVerify(ctx context.Context, addr uint64, data []byte, block, page int) error {
	var lastErr error
	for attempt := 0; attempt <= p.VerifyRetries; attempt++ {
		if attempt > 0 {
			if err := p.Device.Erase(ctx, block); err != nil {
				lastErr = err
				continue
			}
			if p.Wear != nil {
				if err := p.Wear.RecordErase(block); err != nil {
					return err
				}
			}
		}
		if err := p.Device.Program(ctx, addr, data); err != nil {
			lastErr = err
			continue
		}
		readback, _, err := p.Device.Read(ctx, addr, len(data), false)
		if err != nil {
			lastErr = err
			continue
		}
		if bytes.Equal(readback, data) {
			return nil
		}
		offset := firstMismatch(readback, data)
		lastErr = &corerr.VerifyFailed{Block: block, Page: page, Offset: offset}
	}
	return lastErr
}

func firstMismatch(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
