/*
 * Filesystem scan test cases.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFilesystemsFindsSquashFS(t *testing.T) {
	buf := make([]byte, 8192)
	copy(buf[0x1000:], []byte{'h', 's', 'q', 's'})
	hits := ScanFilesystems(buf, 2048)
	require.NotEmpty(t, hits)
	var found bool
	for _, h := range hits {
		if h.Name == "SquashFS" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScanFilesystemsDedupsWithin4KiB(t *testing.T) {
	buf := make([]byte, 8192)
	copy(buf[0x1000:], []byte{'h', 's', 'q', 's'})
	hits := ScanFilesystems(buf, 512)
	assert.Len(t, hits, 1)
}
