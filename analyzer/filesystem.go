/*
 * Filesystem superblock signature scanning.
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

import "fmt"

// FilesystemHit is a filesystem superblock magic found at a
// particular offset.
type FilesystemHit struct {
	Offset   int64
	Name     string
	Magic    []byte
	MagicHex string
}

type fsMagic struct {
	name      string
	offset    int // offset within the superblock candidate, not the dump
	magic     []byte
}

// fsMagicTable lists the filesystem signatures the scanner looks for,
// each relative to the start of a candidate superblock location.
var fsMagicTable = []fsMagic{
	{"YAFFS2", 0, []byte{0x03, 0x00, 0x00, 0x00}},
	{"UBIFS", 0, []byte{0x31, 0x18, 0x10, 0x06}},
	{"JFFS2", 0, []byte{0x85, 0x19}},
	{"SquashFS", 0, []byte{'h', 's', 'q', 's'}},
	{"CramFS", 0, []byte{0x45, 0x3D, 0xCD, 0x28}},
	{"ext", 0x38, []byte{0x53, 0xEF}},
	{"FAT16", 0x36, []byte{'F', 'A', 'T', '1', '6'}},
	{"FAT32", 0x52, []byte{'F', 'A', 'T', '3', '2'}},
	{"NTFS", 0x03, []byte{'N', 'T', 'F', 'S', ' ', ' ', ' ', ' '}},
	{"F2FS", 0, []byte{0x10, 0x20, 0xF5, 0xF2}},
}

// conventionalSuperblockOffsets are fixed offsets real filesystems
// place their superblock at, independent of page geometry.
var conventionalSuperblockOffsets = []int64{0x400, 0x438, 0x1000}

func matchAt(buf []byte, base int64, m fsMagic) (FilesystemHit, bool) {
	start := base + int64(m.offset)
	if start < 0 || start+int64(len(m.magic)) > int64(len(buf)) {
		return FilesystemHit{}, false
	}
	region := buf[start : start+int64(len(m.magic))]
	for i, b := range m.magic {
		if region[i] != b {
			return FilesystemHit{}, false
		}
	}
	return FilesystemHit{
		Offset:   start,
		Name:     m.name,
		Magic:    append([]byte(nil), m.magic...),
		MagicHex: fmt.Sprintf("%x", m.magic),
	}, true
}

// ScanFilesystems scans page boundaries and the conventional
// superblock offsets for any of the known filesystem magics,
// deduplicating hits that land in the same 4KiB window.
func ScanFilesystems(buf []byte, pageSize int) []FilesystemHit {
	if pageSize <= 0 {
		pageSize = 2048
	}
	seen := map[int64]bool{}
	var hits []FilesystemHit
	add := func(base int64) {
		dedupKey := base / 4096
		if seen[dedupKey] {
			return
		}
		for _, m := range fsMagicTable {
			if h, ok := matchAt(buf, base, m); ok {
				hits = append(hits, h)
				seen[dedupKey] = true
				return
			}
		}
	}
	for off := int64(0); off < int64(len(buf)); off += int64(pageSize) {
		add(off)
	}
	for _, off := range conventionalSuperblockOffsets {
		add(off)
	}
	return hits
}
