/*
 * Rootfs extraction test cases.
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

package scan

import (
	"bytes"
	"testing"

	"github.com/cavaliercoder/go-cpio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRootfsCPIO(t *testing.T) {
	var buf bytes.Buffer
	w := cpio.NewWriter(&buf)
	require.NoError(t, w.WriteHeader(&cpio.Header{Name: "bin/sh", Size: 4, Mode: 0755}))
	_, err := w.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	listing, err := ExtractRootfs(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "cpio-newc", listing.Format)
	require.Len(t, listing.Entries, 1)
	assert.Equal(t, "bin/sh", listing.Entries[0].Name)
	assert.Equal(t, int64(4), listing.Entries[0].Size)
}

func TestExtractRootfsSquashFS(t *testing.T) {
	buf := make([]byte, 64)
	copy(buf, []byte{'h', 's', 'q', 's'})
	copy(buf[4:], []byte{10, 0, 0, 0})
	var used uint64 = 4096
	for i := 0; i < 8; i++ {
		buf[40+i] = byte(used >> (8 * i))
	}
	listing, err := ExtractRootfs(buf)
	require.NoError(t, err)
	assert.Equal(t, "squashfs", listing.Format)
	require.Len(t, listing.Entries, 1)
}

func TestExtractRootfsUnknownFormat(t *testing.T) {
	_, err := ExtractRootfs([]byte{0x00, 0x01, 0x02})
	assert.Error(t, err)
}
