/*
 * Classification cascade test cases.
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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEmptyAndZeroed(t *testing.T) {
	buf := append(bytes.Repeat([]byte{0xFF}, 8192), bytes.Repeat([]byte{0x00}, 8192)...)
	regions := Classify(buf, 2048)
	require.Len(t, regions, 2)
	assert.Equal(t, KindEmpty, regions[0].Kind)
	assert.Equal(t, int64(0), regions[0].Start)
	assert.Equal(t, int64(8192), regions[0].End)
	assert.Equal(t, KindZeroed, regions[1].Kind)
}

func TestClassifyText(t *testing.T) {
	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 200)
	regions := Classify(text, 2048)
	require.NotEmpty(t, regions)
	assert.Equal(t, KindText, regions[0].Kind)
}

func TestClassifyRepeating(t *testing.T) {
	buf := bytes.Repeat([]byte{0xDE, 0xAD, 0xBE, 0xEF}, 4096)
	regions := Classify(buf, 2048)
	require.NotEmpty(t, regions)
	assert.Equal(t, KindRepeating, regions[0].Kind)
	assert.Equal(t, "4", regions[0].Details["period"])
}

func TestClassifyCompressedSignature(t *testing.T) {
	chunk := make([]byte, 8192)
	copy(chunk, []byte{0x1F, 0x8B, 0x08, 0x00})
	for i := 4; i < len(chunk); i++ {
		chunk[i] = byte(i * 37 % 256)
	}
	regions := Classify(chunk, 2048)
	require.NotEmpty(t, regions)
	assert.Equal(t, KindCompressed, regions[0].Kind)
	assert.Equal(t, "gzip", regions[0].Details["format"])
}

func TestClassifyExecutableELF(t *testing.T) {
	chunk := make([]byte, 8192)
	for i := range chunk {
		chunk[i] = byte(i * 31 % 256)
	}
	copy(chunk, []byte{0x7F, 'E', 'L', 'F'})
	regions := Classify(chunk, 2048)
	require.NotEmpty(t, regions)
	assert.Equal(t, KindExecutable, regions[0].Kind)
}

func TestClassifyEncryptedConfidenceIsEntropyMinusSeven(t *testing.T) {
	data := pseudoRandomBytes(8192)
	kind, confidence, _ := classifyChunk(data)
	require.Equal(t, KindEncrypted, kind)
	entropy := ShannonEntropy(data)
	assert.InDelta(t, entropy-7, confidence, 1e-9)
}

func pseudoRandomBytes(n int) []byte {
	buf := make([]byte, n)
	x := uint32(0x2545F491)
	for i := range buf {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		buf[i] = byte(x)
	}
	return buf
}

func TestConfidenceBand(t *testing.T) {
	assert.Equal(t, ConfidenceVeryHigh, Band(0.95))
	assert.Equal(t, ConfidenceHigh, Band(0.7))
	assert.Equal(t, ConfidenceMedium, Band(0.4))
	assert.Equal(t, ConfidenceLow, Band(0.1))
}

func TestClassifyMergesAdjacentRegionsOfSameKind(t *testing.T) {
	buf := bytes.Repeat([]byte{0xFF}, 4*8192)
	regions := Classify(buf, 2048)
	require.Len(t, regions, 1)
	assert.Equal(t, int64(0), regions[0].Start)
	assert.Equal(t, int64(len(buf)), regions[0].End)
}
