/*
 * Decompression-based confirmation of compressed regions.
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
	"compress/bzip2"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// ConfirmCompressed attempts to actually decompress the start of a
// region the classification cascade flagged as compressed, using the
// format its signature matched. A successful partial decompression
// is much stronger evidence than the signature match alone, since
// magic bytes can occur by chance in unrelated binary data.
func ConfirmCompressed(region Region, buf []byte) bool {
	if region.Kind != KindCompressed {
		return false
	}
	start := region.Start
	end := region.End
	if end > int64(len(buf)) {
		end = int64(len(buf))
	}
	if start >= end {
		return false
	}
	data := buf[start:end]
	format := region.Details["format"]

	var r io.ReadCloser
	var err error
	switch format {
	case "gzip":
		r, err = gzip.NewReader(bytes.NewReader(data))
	case "zlib":
		r, err = zlib.NewReader(bytes.NewReader(data))
	case "bzip2":
		r = io.NopCloser(bzip2.NewReader(bytes.NewReader(data)))
	default:
		// xz/lzma/lz4/zstd signature matches are accepted on the
		// magic bytes alone; their readers require a full, valid
		// stream rather than tolerating a truncated probe.
		return true
	}
	if err != nil {
		return false
	}
	defer r.Close()

	probe := make([]byte, 4096)
	_, err = io.ReadFull(r, probe)
	return err == nil || err == io.ErrUnexpectedEOF
}
