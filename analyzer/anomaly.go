/*
 * Anomaly-detection passes over a classified dump.
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
	"fmt"
	"sort"

	"github.com/openflash/flashcore/hexutil"
)

// Severity orders anomalies so the most urgent sort first.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityWarning:  1,
	SeverityInfo:     2,
}

// Anomaly is one finding from the anomaly-detection passes.
type Anomaly struct {
	Kind        string
	Severity    Severity
	Offset      int64
	Length      int64
	Description string
}

// detectBitRot looks for the specific single-bit-flip patterns a
// worn cell produces: a byte that should have been 0xFF with exactly
// one bit cleared, or a byte that should have been 0x00 with exactly
// one bit set, occurring more than 10 times within a page.
func detectBitRot(buf []byte, pageSize int) []Anomaly {
	if pageSize <= 0 {
		pageSize = 2048
	}
	var anomalies []Anomaly
	for off := 0; off < len(buf); off += pageSize {
		end := off + pageSize
		if end > len(buf) {
			end = len(buf)
		}
		page := buf[off:end]
		count := 0
		for _, b := range page {
			for k := 0; k < 8; k++ {
				if b == (0xFF&^(1<<uint(k))) || b == (0x00|(1<<uint(k))) {
					count++
					break
				}
			}
		}
		if count > 10 {
			anomalies = append(anomalies, Anomaly{
				Kind:        "bit_rot",
				Severity:    SeverityWarning,
				Offset:      int64(off),
				Length:      int64(len(page)),
				Description: "page shows single-bit-flip patterns consistent with cell wear",
			})
		}
	}
	return anomalies
}

func detectTruncation(buf []byte, pageSize, blockSize int) []Anomaly {
	var anomalies []Anomaly
	if pageSize > 0 && len(buf) < pageSize {
		anomalies = append(anomalies, Anomaly{
			Kind:        "truncation",
			Severity:    SeverityCritical,
			Offset:      0,
			Length:      int64(len(buf)),
			Description: "dump is smaller than a single page",
		})
		return anomalies
	}
	if blockSize > 0 && len(buf)%blockSize != 0 {
		anomalies = append(anomalies, Anomaly{
			Kind:        "truncation",
			Severity:    SeverityWarning,
			Offset:      int64(len(buf) - len(buf)%blockSize),
			Length:      int64(len(buf) % blockSize),
			Description: "dump size is not a multiple of the block size",
		})
	}
	return anomalies
}

func detectHeaderCorruption(regions []Region, buf []byte) []Anomaly {
	var anomalies []Anomaly
	for _, r := range regions {
		if r.Kind != KindCompressed {
			continue
		}
		end := r.Start + 10
		if end > int64(len(buf)) {
			end = int64(len(buf))
		}
		if end <= r.Start {
			continue
		}
		if ShannonEntropy(buf[r.Start:end]) < 2.0 {
			anomalies = append(anomalies, Anomaly{
				Kind:     "header_corruption",
				Severity: SeverityCritical,
				Offset:   r.Start,
				Length:   end - r.Start,
				Description: fmt.Sprintf(
					"compressed region header has implausibly low entropy, bytes: %s",
					hexutil.Bytes(buf[r.Start:end])),
			})
		}
	}
	return anomalies
}

func detectPatternTransitions(regions []Region) []Anomaly {
	var anomalies []Anomaly
	for i := 1; i < len(regions); i++ {
		prev, cur := regions[i-1], regions[i]
		if prev.Kind == KindEncrypted && cur.Kind == KindText && cur.Start-prev.End <= 16 {
			anomalies = append(anomalies, Anomaly{
				Kind:        "pattern_transition",
				Severity:    SeverityWarning,
				Offset:      prev.End,
				Length:      cur.Start - prev.End,
				Description: "abrupt transition from encrypted-looking data to plaintext",
			})
		}
	}
	return anomalies
}

func detectFragmentation(regions []Region) []Anomaly {
	if len(regions) <= 20 {
		return nil
	}
	empty := 0
	for _, r := range regions {
		if r.Kind == KindEmpty {
			empty++
		}
	}
	if empty <= 10 {
		return nil
	}
	return []Anomaly{{
		Kind:        "fragmentation",
		Severity:    SeverityInfo,
		Description: "dump contains many small erased regions, suggesting heavy fragmentation",
	}}
}

func detectBadBlocksFromOOB(markerOffset int, badBlocks []int, blockSize int) []Anomaly {
	var anomalies []Anomaly
	for _, b := range badBlocks {
		anomalies = append(anomalies, Anomaly{
			Kind:        "bad_block",
			Severity:    SeverityCritical,
			Offset:      int64(b * blockSize),
			Length:      int64(blockSize),
			Description: "OOB bad-block marker set",
		})
	}
	return anomalies
}

// DetectAnomalies runs all anomaly-detection passes and returns the
// findings sorted critical-first.
func DetectAnomalies(buf []byte, pageSize, blockSize int, regions []Region, badBlocks []int, oobMarkerOffset int) []Anomaly {
	var all []Anomaly
	all = append(all, detectBadBlocksFromOOB(oobMarkerOffset, badBlocks, blockSize)...)
	all = append(all, detectBitRot(buf, pageSize)...)
	all = append(all, detectTruncation(buf, pageSize, blockSize)...)
	all = append(all, detectHeaderCorruption(regions, buf)...)
	all = append(all, detectPatternTransitions(regions)...)
	all = append(all, detectFragmentation(regions)...)

	sort.SliceStable(all, func(i, j int) bool {
		return severityRank[all[i].Severity] < severityRank[all[j].Severity]
	})
	return all
}
