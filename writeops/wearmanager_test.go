/*
 * Wear manager test cases.
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

func TestWearManagerRecordsAndLimits(t *testing.T) {
	w := NewWearManager(3)
	require.NoError(t, w.RecordErase(1))
	require.NoError(t, w.RecordErase(1))
	require.NoError(t, w.RecordErase(1))
	err := w.RecordErase(1)
	var wle *corerr.WearLimitExceeded
	require.True(t, errors.As(err, &wle))
	assert.Equal(t, 1, wle.Block)
}

func TestWearManagerNeedsLeveling(t *testing.T) {
	w := NewWearManager(100)
	assert.False(t, w.NeedsLeveling())
	require.NoError(t, w.RecordErase(1))
	for i := 0; i < 15; i++ {
		require.NoError(t, w.RecordErase(0))
	}
	// spread is 15-1=14 > 100/10=10.
	assert.True(t, w.NeedsLeveling())
}

func TestWearManagerNeedsLevelingFalseWhenEvenlyWorn(t *testing.T) {
	w := NewWearManager(100)
	for block := 0; block < 5; block++ {
		for i := 0; i < 50; i++ {
			require.NoError(t, w.RecordErase(block))
		}
	}
	assert.False(t, w.NeedsLeveling())
}

func TestWearManagerLevelingCandidates(t *testing.T) {
	w := NewWearManager(1000)
	for i := 0; i < 100; i++ {
		_ = w.RecordErase(1) // hot
	}
	for i := 0; i < 2; i++ {
		_ = w.RecordErase(2) // cold
	}
	_ = w.RecordErase(3) // also below half the mean, sorts after block 2
	pairs := w.LevelingCandidates()
	require.NotEmpty(t, pairs)
	assert.Equal(t, 1, pairs[0].Hot)
	assert.Equal(t, 2, pairs[0].Cold)
}
