/*
 * Firmware unpacking test cases.
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

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGzip(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestUnpackFirmwareFindsAndDecompressesGzipSection(t *testing.T) {
	payload := bytes.Repeat([]byte("firmware payload "), 100)
	gz := buildGzip(t, payload)

	image := append(bytes.Repeat([]byte{0xFF}, 16), gz...)
	sections, err := UnpackFirmware(image, 2)
	require.NoError(t, err)
	require.NotEmpty(t, sections)

	var gzipSection *Section
	for i := range sections {
		if sections[i].Format == "gzip" {
			gzipSection = &sections[i]
			break
		}
	}
	require.NotNil(t, gzipSection)
	assert.Equal(t, payload, gzipSection.Decompressed)
}

func TestFindSignaturesDetectsELF(t *testing.T) {
	buf := append([]byte{0x7F, 'E', 'L', 'F'}, bytes.Repeat([]byte{0}, 100)...)
	found := findSignatures(buf)
	require.NotEmpty(t, found)
	assert.Equal(t, "elf", found[0].Format)
}

func TestSquashfsUsedBytesReadsSuperblock(t *testing.T) {
	buf := make([]byte, 64)
	copy(buf, []byte{'h', 's', 'q', 's'})
	// bytes_used = 12345 at offset 40, little-endian.
	var v uint64 = 12345
	for i := 0; i < 8; i++ {
		buf[40+i] = byte(v >> (8 * i))
	}
	n, ok := squashfsUsedBytes(buf)
	require.True(t, ok)
	assert.Equal(t, int64(12345), n)
}
