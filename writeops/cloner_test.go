/*
 * Cloner test cases.
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
	"context"
	"errors"
	"testing"

	"github.com/openflash/flashcore/corerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClonerCopiesAllBlocks(t *testing.T) {
	src := newMemDevice(4*2048, 2048, 2)
	copy(src.mem, bytesOf(2048, 0x42))
	dst := newMemDevice(4*2048, 2048, 2)

	var phases []ClonePhase
	c := &Cloner{
		Source: src, Target: dst,
		PageSize: 2048, PagesPerBlock: 2, TotalBlocks: 2,
		Mapping: MappingExact,
		OnProgress: func(phase ClonePhase, done, total int) {
			if len(phases) == 0 || phases[len(phases)-1] != phase {
				phases = append(phases, phase)
			}
		},
	}
	err := c.Clone(context.Background(), WearReport{})
	require.NoError(t, err)

	data, _, _ := dst.Read(context.Background(), 0, 2048, false)
	assert.Equal(t, bytesOf(2048, 0x42), data)
	assert.Contains(t, phases, PhaseComplete)
	assert.Contains(t, phases, PhaseCopying)
}

func TestClonerRejectsCapacityMismatch(t *testing.T) {
	src := newMemDevice(2<<20, 2048, 2)
	dst := newMemDevice(1<<20, 2048, 2)
	c := &Cloner{Source: src, Target: dst, PageSize: 2048, PagesPerBlock: 2, TotalBlocks: 2, Mapping: MappingExact}
	err := c.Clone(context.Background(), WearReport{})
	var mismatch *corerr.ChipMismatch
	require.True(t, errors.As(err, &mismatch))
}

func TestClonerSkipsSourceBadBlocks(t *testing.T) {
	src := newMemDevice(4*2048, 2048, 2)
	dst := newMemDevice(4*2048, 2048, 2)
	badTable := NewBadBlockTable(2, []int{5})
	require.NoError(t, badTable.MarkBad(0, "test"))
	c := &Cloner{
		Source: src, Target: dst,
		PageSize: 2048, PagesPerBlock: 2, TotalBlocks: 2,
		Mapping:         MappingSkipBadBlocks,
		SourceBadBlocks: badTable,
	}
	require.NoError(t, c.Clone(context.Background(), WearReport{}))
}
