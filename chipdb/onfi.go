/*
 * ONFI parameter page parsing.
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

package chipdb

import (
	"encoding/binary"
	"strings"

	"github.com/openflash/flashcore/corerr"
)

// ParameterPageSize is the fixed ONFI parameter page length.
const ParameterPageSize = 256

// ParseONFIParameterPage parses a 256-byte ONFI parameter page into a
// ChipDescriptor. Byte offsets are grounded on onfi.rs's
// parse_onfi_parameter_page: signature at 0-3, manufacturer at
// 32-43, model at 44-63, page size (LE u32) at 80-83, OOB size (LE
// u16) at 84-85, pages per block (LE u32) at 92-95, blocks per LUN
// (LE u32) at 96-99, LUN count at byte 100.
func ParseONFIParameterPage(data []byte) (ChipDescriptor, error) {
	if len(data) < ParameterPageSize {
		return ChipDescriptor{}, &corerr.InvalidData{Reason: "onfi: parameter page must be 256 bytes"}
	}
	if string(data[0:4]) != "ONFI" {
		return ChipDescriptor{}, &corerr.InvalidData{Reason: "onfi: missing ONFI signature"}
	}

	manufacturer := strings.TrimSpace(string(data[32:44]))
	model := strings.TrimSpace(string(data[44:64]))

	pageSize := binary.LittleEndian.Uint32(data[80:84])
	oobSize := uint32(binary.LittleEndian.Uint16(data[84:86]))
	pagesPerBlock := binary.LittleEndian.Uint32(data[92:96])
	blocksPerLUN := binary.LittleEndian.Uint32(data[96:100])
	luns := uint32(data[100])

	// The spec requires returning nothing rather than a partial
	// descriptor when any geometry field is zero; original_source's
	// onfi.rs has no such guard, but a zero geometry field here means
	// the parameter page is garbage, not a legitimately tiny chip.
	if pageSize == 0 || pagesPerBlock == 0 || blocksPerLUN == 0 {
		return ChipDescriptor{}, &corerr.InvalidData{Reason: "onfi: zero geometry field in parameter page"}
	}

	totalBlocks := blocksPerLUN * luns
	sizeMB := uint32(uint64(totalBlocks) * uint64(pagesPerBlock) * uint64(pageSize) / (1024 * 1024))

	timing := DefaultTiming()
	if len(data) >= 141 {
		tR := binary.LittleEndian.Uint16(data[139:141])
		tRns := tR / 1000
		if tRns > 255 {
			tRns = 255
		}
		timing.TR = uint8(tRns)
	}

	return ChipDescriptor{
		Manufacturer:  manufacturer,
		Model:         model,
		SizeMB:        sizeMB,
		PageSize:      pageSize,
		PagesPerBlock: pagesPerBlock,
		OOBSize:       oobSize,
		BusWidth:      8,
		Voltage:       "3.3V",
		CellType:      CellSLC,
		Interface:     InterfaceParallelNAND,
		Timing:        timing,
	}, nil
}
