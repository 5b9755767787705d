/*
 * The byte-region classification cascade.
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
	"fmt"
)

// RegionKind names the classification a chunk of a dump was given by
// the classification cascade.
type RegionKind string

const (
	KindEmpty      RegionKind = "empty"
	KindZeroed     RegionKind = "zeroed"
	KindRepeating  RegionKind = "repeating"
	KindText       RegionKind = "text"
	KindCompressed RegionKind = "compressed"
	KindExecutable RegionKind = "executable"
	KindEncrypted  RegionKind = "encrypted"
	KindStructured RegionKind = "structured_binary"
	KindUnknown    RegionKind = "unknown"
)

// ConfidenceBand is the categorical confidence rating the §3 data
// model uses for a detected pattern region.
type ConfidenceBand string

const (
	ConfidenceLow      ConfidenceBand = "low"
	ConfidenceMedium   ConfidenceBand = "medium"
	ConfidenceHigh     ConfidenceBand = "high"
	ConfidenceVeryHigh ConfidenceBand = "very_high"
)

// Band maps a raw [0,1] confidence score to its categorical band.
func Band(confidence float64) ConfidenceBand {
	switch {
	case confidence >= 0.9:
		return ConfidenceVeryHigh
	case confidence >= 0.66:
		return ConfidenceHigh
	case confidence >= 0.33:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Region is a classified, contiguous byte range of a dump: the
// "Detected pattern region" data-model type. Confidence is the raw
// cascade score; Band() derives the categorical {low, medium, high,
// very_high} rating spec.md's data model actually names.
type Region struct {
	Kind        RegionKind
	Start, End  int64
	Confidence  float64
	Description string
	Details     map[string]string
}

func (r Region) Len() int64 { return r.End - r.Start }

// Band returns r's categorical confidence rating.
func (r Region) Band() ConfidenceBand { return Band(r.Confidence) }

// compressedSignatures lists the magic bytes recognized at the start
// of a chunk as evidence of compressed content.
var compressedSignatures = []struct {
	name string
	sig  []byte
}{
	{"gzip", []byte{0x1F, 0x8B}},
	{"zlib", []byte{0x78, 0x9C}},
	{"zlib", []byte{0x78, 0x01}},
	{"zlib", []byte{0x78, 0xDA}},
	{"xz", []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}},
	{"lzma", []byte{0x5D, 0x00, 0x00}},
	{"lz4", []byte{0x04, 0x22, 0x4D, 0x18}},
	{"zstd", []byte{0x28, 0xB5, 0x2F, 0xFD}},
	{"bzip2", []byte{'B', 'Z', 'h'}},
}

func detectCompressed(chunk []byte) (string, bool) {
	for _, s := range compressedSignatures {
		if bytes.HasPrefix(chunk, s.sig) {
			return s.name, true
		}
	}
	return "", false
}

func detectExecutable(chunk []byte) (string, bool) {
	if bytes.HasPrefix(chunk, []byte{0x7F, 'E', 'L', 'F'}) {
		return "elf", true
	}
	if len(chunk) >= 4 && chunk[0] == 0x27 && chunk[1] == 0x05 && chunk[2] == 0x19 && chunk[3] == 0x56 {
		return "uboot", true
	}
	return "", false
}

func isPrintable(b byte) bool {
	return (b >= 0x20 && b < 0x7F) || b == '\t' || b == '\n' || b == '\r'
}

func printableRatio(chunk []byte) float64 {
	if len(chunk) == 0 {
		return 0
	}
	n := 0
	for _, b := range chunk {
		if isPrintable(b) {
			n++
		}
	}
	return float64(n) / float64(len(chunk))
}

func byteRatio(chunk []byte, want byte) float64 {
	if len(chunk) == 0 {
		return 0
	}
	n := 0
	for _, b := range chunk {
		if b == want {
			n++
		}
	}
	return float64(n) / float64(len(chunk))
}

// repeatingPeriod tests short periods p in [2,16] and returns the
// period with the highest ratio of chunk[i] == chunk[i+p] matches,
// together with that ratio; on a tie the smaller period wins. It
// applies no threshold itself.
func repeatingPeriod(chunk []byte) (int, float64) {
	bestP, bestRatio := 0, 0.0
	for p := 2; p <= 16 && p < len(chunk); p++ {
		matches := 0
		total := len(chunk) - p
		if total <= 0 {
			continue
		}
		for i := 0; i < total; i++ {
			if chunk[i] == chunk[i+p] {
				matches++
			}
		}
		ratio := float64(matches) / float64(total)
		if ratio > bestRatio {
			bestRatio, bestP = ratio, p
		}
	}
	return bestP, bestRatio
}

// classifyChunk runs the nine-step classification cascade against a
// single chunk and returns the kind, confidence, and any details.
func classifyChunk(chunk []byte) (RegionKind, float64, map[string]string) {
	if r := byteRatio(chunk, 0xFF); r >= 0.99 {
		return KindEmpty, r, nil
	}
	if r := byteRatio(chunk, 0x00); r >= 0.99 {
		return KindZeroed, r, nil
	}
	if p, ratio := repeatingPeriod(chunk); ratio >= 0.90 {
		return KindRepeating, ratio, map[string]string{"period": fmt.Sprintf("%d", p)}
	}
	if r := printableRatio(chunk); r >= 0.85 {
		return KindText, r, nil
	}
	if name, ok := detectCompressed(chunk); ok {
		return KindCompressed, 0.95, map[string]string{"format": name}
	}
	if name, ok := detectExecutable(chunk); ok {
		return KindExecutable, 0.95, map[string]string{"format": name}
	}
	entropy := ShannonEntropy(chunk)
	if entropy > 7.5 {
		return KindEncrypted, entropy - 7, map[string]string{"entropy": fmt.Sprintf("%.3f", entropy)}
	}
	if entropy > 5.0 {
		return KindStructured, (entropy - 5.0) / 2.5, map[string]string{"entropy": fmt.Sprintf("%.3f", entropy)}
	}
	return KindUnknown, 0, map[string]string{"entropy": fmt.Sprintf("%.3f", entropy)}
}

func describe(kind RegionKind, details map[string]string) string {
	switch kind {
	case KindEmpty:
		return "erased (0xFF-filled) region"
	case KindZeroed:
		return "zeroed (0x00-filled) region"
	case KindRepeating:
		return fmt.Sprintf("repeating pattern, period %s bytes", details["period"])
	case KindText:
		return "printable ASCII text"
	case KindCompressed:
		return fmt.Sprintf("%s-compressed data", details["format"])
	case KindExecutable:
		return fmt.Sprintf("%s executable image", details["format"])
	case KindEncrypted:
		return "high-entropy data, likely encrypted or compressed"
	case KindStructured:
		return "structured binary data"
	default:
		return "unclassified data"
	}
}

// Classify walks buf in chunks of 4*pageSize bytes, classifies each
// with the nine-step cascade, and merges adjacent regions of
// identical kind.
func Classify(buf []byte, pageSize int) []Region {
	if pageSize <= 0 {
		pageSize = 2048
	}
	chunkSize := 4 * pageSize
	var regions []Region
	for off := 0; off < len(buf); off += chunkSize {
		end := off + chunkSize
		if end > len(buf) {
			end = len(buf)
		}
		kind, conf, details := classifyChunk(buf[off:end])
		r := Region{
			Kind:        kind,
			Start:       int64(off),
			End:         int64(end),
			Confidence:  conf,
			Description: describe(kind, details),
			Details:     details,
		}
		if n := len(regions); n > 0 && regions[n-1].Kind == kind && regions[n-1].End == r.Start {
			regions[n-1].End = r.End
			if r.Confidence > regions[n-1].Confidence {
				regions[n-1].Confidence = r.Confidence
			}
		} else {
			regions = append(regions, r)
		}
	}
	return regions
}
