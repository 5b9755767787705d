/*
 * Signature scan test cases.
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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportExportRoundTrip(t *testing.T) {
	src := `
- id: sig1
  name: test hex signature
  hex: deadbeef
- id: sig2
  name: test entropy signature
  entropy_min: 7.0
  entropy_max: 8.0
`
	db, err := Import(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, db.Signatures, 2)
	assert.Equal(t, "sig1", db.Signatures[0].ID)
	assert.Equal(t, MatchHex, db.Signatures[0].Kind)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, db.Signatures[0].HexPattern)
	assert.Equal(t, MatchEntropy, db.Signatures[1].Kind)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, db))
	db2, err := Import(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, db.Signatures, db2.Signatures)
}

func TestImportRejectsFieldBeforeRecord(t *testing.T) {
	_, err := Import(strings.NewReader("  name: orphan\n"))
	assert.Error(t, err)
}

func TestSignatureDBScanHex(t *testing.T) {
	db := &SignatureDB{Signatures: []Signature{
		{ID: "a", Kind: MatchHex, HexPattern: []byte{0xAB, 0xCD}},
	}}
	buf := []byte{0x00, 0xAB, 0xCD, 0x00, 0xAB, 0xCD}
	matches := db.Scan(buf)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(1), matches[0].Offset)
	assert.Equal(t, int64(4), matches[1].Offset)
}
