/*
 * Recursive firmware section unpacking.
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
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Section is one identified, possibly-nested region of a firmware
// image: a compressed payload, a filesystem image, or a bootloader
// stub.
type Section struct {
	Offset int64
	Size   int64
	Format string
	Depth  int
	// Decompressed holds the section's decompressed content when
	// Format names a compression scheme this unpacker knows how to
	// read; empty for formats it only recognizes by signature.
	Decompressed []byte
}

type firmwareSig struct {
	format string
	magic  []byte
}

// firmwareSignatures is the fixed table of container/compression
// formats the unpacker recognizes at any offset in a firmware image.
var firmwareSignatures = []firmwareSig{
	{"squashfs", []byte{'h', 's', 'q', 's'}},
	{"gzip", []byte{0x1F, 0x8B}},
	{"zlib", []byte{0x78, 0x9C}},
	{"xz", []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}},
	{"lz4", []byte{0x04, 0x22, 0x4D, 0x18}},
	{"zstd", []byte{0x28, 0xB5, 0x2F, 0xFD}},
	{"bzip2", []byte{'B', 'Z', 'h'}},
	{"uboot", []byte{0x27, 0x05, 0x19, 0x56}},
	{"elf", []byte{0x7F, 'E', 'L', 'F'}},
	{"jffs2", []byte{0x85, 0x19}},
	{"cpio", []byte{0x71, 0xC7}}, // cpio binary magic, big-endian form
	{"cpio", []byte{'0', '7', '0', '7', '0'}}, // newc/odc ASCII magic prefix
}

func findSignatures(buf []byte) []Section {
	var sections []Section
	for off := 0; off < len(buf); off++ {
		for _, s := range firmwareSignatures {
			if bytes.HasPrefix(buf[off:], s.magic) {
				sections = append(sections, Section{Offset: int64(off), Format: s.format})
			}
		}
	}
	return sections
}

// squashfsUsedBytes reads the SquashFS superblock's bytes_used field
// at offset 40 (8 bytes, little-endian) to estimate the image size
// without a full SquashFS parser.
func squashfsUsedBytes(buf []byte) (int64, bool) {
	if len(buf) < 48 {
		return 0, false
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(buf[40+i]) << (8 * i)
	}
	return int64(v), true
}

func estimateSize(buf []byte, sec Section, remaining int64) int64 {
	switch sec.Format {
	case "squashfs":
		if n, ok := squashfsUsedBytes(buf[sec.Offset:]); ok && n > 0 && n <= remaining {
			return n
		}
		return remaining
	case "gzip", "zlib", "xz", "lz4", "zstd", "bzip2":
		half := remaining / 2
		const cap16MiB = 16 << 20
		if half > cap16MiB {
			return cap16MiB
		}
		return half
	default:
		const cap1MiB = 1 << 20
		if remaining > cap1MiB {
			return cap1MiB
		}
		return remaining
	}
}

func decompress(format string, data []byte) ([]byte, error) {
	switch format {
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case "zlib":
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case "xz":
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(r)
	case "lz4":
		r := lz4.NewReader(bytes.NewReader(data))
		return io.ReadAll(r)
	case "zstd":
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case "bzip2":
		r := bzip2.NewReader(bytes.NewReader(data))
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("scan: no decompressor for format %q", format)
	}
}

// UnpackFirmware finds every recognizable section in buf, estimates
// its size, decompresses what it can, and recurses into decompressed
// payloads up to maxDepth. Failures in one section or one recursion
// branch are collected rather than aborting the whole unpack, so a
// caller sees every section it could and couldn't handle.
func UnpackFirmware(buf []byte, maxDepth int) ([]Section, error) {
	return unpackAt(buf, 0, maxDepth)
}

func unpackAt(buf []byte, depth, maxDepth int) ([]Section, error) {
	found := findSignatures(buf)
	var sections []Section
	var errs *multierror.Error

	// sort by offset so a sequence of sections reads left to right.
	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j-1].Offset > found[j].Offset; j-- {
			found[j-1], found[j] = found[j], found[j-1]
		}
	}

	for _, sec := range found {
		sec.Depth = depth
		remaining := int64(len(buf)) - sec.Offset
		sec.Size = estimateSize(buf, sec, remaining)

		switch sec.Format {
		case "gzip", "zlib", "xz", "lz4", "zstd", "bzip2":
			// The decompressor gets everything from the section start to
			// the end of buf: the size estimate for compressed formats is
			// half the remaining bytes, which would cut the stream short.
			decompressed, err := decompress(sec.Format, buf[sec.Offset:])
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("section at offset %d (%s): %w", sec.Offset, sec.Format, err))
				sections = append(sections, sec)
				continue
			}
			sec.Decompressed = decompressed
			sections = append(sections, sec)
			if depth < maxDepth {
				nested, err := unpackAt(decompressed, depth+1, maxDepth)
				if err != nil {
					errs = multierror.Append(errs, fmt.Errorf("recursing into section at offset %d: %w", sec.Offset, err))
				}
				sections = append(sections, nested...)
			}
		default:
			sections = append(sections, sec)
		}
	}

	return sections, errs.ErrorOrNil()
}
