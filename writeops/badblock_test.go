/*
 * Bad-block table test cases.
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
	"errors"
	"testing"

	"github.com/openflash/flashcore/corerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadBlockTableMarkBadIsIdempotent(t *testing.T) {
	table := NewBadBlockTable(100, []int{90, 91, 92})
	require.NoError(t, table.MarkBad(5, "wear-out"))
	require.NoError(t, table.MarkBad(5, "wear-out"))
	assert.True(t, table.IsBad(5))
	assert.Equal(t, []int{5}, table.BadBlocks())
}

func TestBadBlockTableAllocatesSparesAscending(t *testing.T) {
	table := NewBadBlockTable(100, []int{95, 90, 92})
	require.NoError(t, table.MarkBad(3, "program failure"))
	require.NoError(t, table.MarkBad(4, "program failure"))

	spare1, ok := table.AllocateSpare(3)
	require.True(t, ok)
	assert.Equal(t, 90, spare1)

	spare2, ok := table.AllocateSpare(4)
	require.True(t, ok)
	assert.Equal(t, 92, spare2)

	again, ok := table.AllocateSpare(3)
	require.True(t, ok)
	assert.Equal(t, spare1, again)
}

func TestBadBlockTableSpareExhaustion(t *testing.T) {
	table := NewBadBlockTable(10, []int{9})
	require.NoError(t, table.MarkBad(0, "wear-out"))
	err := table.MarkBad(1, "wear-out")
	require.True(t, errors.Is(err, corerr.ErrNoSpareBlocks))
	assert.False(t, table.IsBad(1))
}

func TestBadBlockTableTranslate(t *testing.T) {
	table := NewBadBlockTable(10, []int{9})
	require.NoError(t, table.MarkBad(2, "wear-out"))
	assert.NotEqual(t, 2, table.Translate(2))
	assert.Equal(t, 9, table.Translate(2))
	assert.Equal(t, 3, table.Translate(3))
}

func TestBadBlockTableMarkBadRecordsReasonAndTimestamp(t *testing.T) {
	table := NewBadBlockTable(10, []int{9})
	require.NoError(t, table.MarkBad(2, "erase failure"))
	entry, ok := table.Entry(2)
	require.True(t, ok)
	assert.Equal(t, "erase failure", entry.Reason)
	assert.False(t, entry.MarkedAt.IsZero())
	assert.Equal(t, 9, entry.Spare)
}
