/*
 * Root filesystem listing extraction.
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
	"fmt"
	"io"

	"github.com/cavaliercoder/go-cpio"
)

// RootfsEntry is one file listed out of an extracted rootfs archive.
type RootfsEntry struct {
	Name string
	Size int64
	Mode uint32
}

// RootfsListing is the result of extracting (or attempting to
// extract) a rootfs image: the files found, plus whether extraction
// ran to completion.
type RootfsListing struct {
	Format     string
	Entries    []RootfsEntry
	Incomplete bool
}

var rootfsMagics = []struct {
	format string
	magic  []byte
}{
	{"squashfs", []byte{'h', 's', 'q', 's'}},
	{"cpio-newc", []byte("070701")},
	{"cpio-odc", []byte("070707")},
	{"cpio-bin", []byte{0x71, 0xC7}},
}

// DetectRootfsFormat identifies the rootfs container format from its
// first bytes.
func DetectRootfsFormat(buf []byte) (string, bool) {
	for _, m := range rootfsMagics {
		if bytes.HasPrefix(buf, m.magic) {
			return m.format, true
		}
	}
	return "", false
}

// squashfsSuperblock holds the handful of SquashFS superblock fields
// the listing needs: inode count at offset 4 and total bytes used at
// offset 40, both little-endian.
func squashfsSuperblock(buf []byte) (inodeCount uint32, bytesUsed uint64, ok bool) {
	if len(buf) < 48 {
		return 0, 0, false
	}
	inodeCount = uint32(buf[4]) | uint32(buf[5])<<8 | uint32(buf[6])<<16 | uint32(buf[7])<<24
	for i := 0; i < 8; i++ {
		bytesUsed |= uint64(buf[40+i]) << (8 * i)
	}
	return inodeCount, bytesUsed, true
}

// ExtractRootfs lists the files in a rootfs image. For SquashFS it
// only reports the superblock-derived inode count and total size,
// since a full SquashFS directory-tree parse is out of scope; for
// CPIO archives it walks every header and reports each entry's name,
// size, and mode.
func ExtractRootfs(buf []byte) (RootfsListing, error) {
	format, ok := DetectRootfsFormat(buf)
	if !ok {
		return RootfsListing{}, fmt.Errorf("scan: unrecognized rootfs format")
	}

	listing := RootfsListing{Format: format}

	if format == "squashfs" {
		inodeCount, bytesUsed, ok := squashfsSuperblock(buf)
		if !ok {
			listing.Incomplete = true
			return listing, nil
		}
		listing.Entries = []RootfsEntry{{
			Name: fmt.Sprintf("<squashfs: %d inodes>", inodeCount),
			Size: int64(bytesUsed),
		}}
		if int64(bytesUsed) > int64(len(buf)) {
			listing.Incomplete = true
		}
		return listing, nil
	}

	reader := cpio.NewReader(bytes.NewReader(buf))
	for {
		hdr, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			listing.Incomplete = true
			break
		}
		if hdr.Name == "TRAILER!!!" {
			break
		}
		listing.Entries = append(listing.Entries, RootfsEntry{
			Name: hdr.Name,
			Size: hdr.Size,
			Mode: uint32(hdr.Mode),
		})
	}
	return listing, nil
}
