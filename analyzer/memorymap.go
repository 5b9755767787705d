/*
 * Whole-dump memory map assembly.
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

// MemoryMap is the ordered, non-overlapping set of classified
// regions plus filesystem hits found across a dump.
type MemoryMap struct {
	Size        int64
	Regions     []Region
	Filesystems []FilesystemHit
}

// BuildMemoryMap assembles the memory map from a dump's content
// regions and any filesystem signatures found within it. Regions are
// already ordered and non-overlapping by construction (Classify walks
// the buffer sequentially), so this just packages them together.
func BuildMemoryMap(buf []byte, pageSize int) MemoryMap {
	regions := Classify(buf, pageSize)
	fsHits := ScanFilesystems(buf, pageSize)
	return MemoryMap{
		Size:        int64(len(buf)),
		Regions:     regions,
		Filesystems: fsHits,
	}
}
