/*
 * Parallel NAND chip identification table.
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

import "fmt"

// parallelManufacturers maps the first chip-id byte to a display
// name, grounded on onfi.rs's manufacturers module.
var parallelManufacturers = map[byte]string{
	0xEC: "Samsung",
	0x98: "Toshiba/Kioxia",
	0xAD: "SK Hynix",
	0x2C: "Micron",
	0x89: "Intel",
	0x01: "Spansion/Cypress",
	0xC2: "Macronix",
	0xEF: "Winbond",
	0xC8: "GigaDevice",
	0x92: "ESMT",
}

// nandRow is one curated table row: either an exact full chip-id
// match (len(ID) == 5) or a manufacturer+device wildcard match
// (len(ID) == 2, remaining bytes ignored).
type nandRow struct {
	ID   []byte
	Desc ChipDescriptor
}

func parallelDesc(mfr, model string, sizeMB, pageSize, pagesPerBlock, oobSize uint32, cell CellClass, timing Timing) ChipDescriptor {
	return ChipDescriptor{
		Manufacturer:  mfr,
		Model:         model,
		SizeMB:        sizeMB,
		PageSize:      pageSize,
		PagesPerBlock: pagesPerBlock,
		OOBSize:       oobSize,
		BusWidth:      8,
		Voltage:       "3.3V",
		CellType:      cell,
		Interface:     InterfaceParallelNAND,
		Timing:        timing,
	}
}

// parallelNANDExact are full (or manufacturer+device-prefix) rows
// grounded on onfi.rs's get_chip_info_exact match arms.
var parallelNANDExact = []nandRow{
	{ID: []byte{0xEC, 0xF1, 0x00, 0x95, 0x40}, Desc: parallelDesc("Samsung", "K9F1G08U0B", 128, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0xEC, 0xDA, 0x10, 0x95, 0x44}, Desc: parallelDesc("Samsung", "K9F2G08U0C", 256, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0xEC, 0xDC, 0x10, 0x95, 0x54}, Desc: parallelDesc("Samsung", "K9F4G08U0D", 512, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0xEC, 0xDC, 0x10, 0x95, 0x50}, Desc: parallelDesc("Samsung", "K9F4G08U0D", 512, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0xEC, 0xD3, 0x51, 0x95, 0x58}, Desc: parallelDesc("Samsung", "K9F8G08U0M", 1024, 4096, 64, 128, CellSLC, FastTiming())},
	{ID: []byte{0xEC, 0xD7, 0x10, 0x95, 0x44}, Desc: parallelDesc("Samsung", "K9K8G08U0M", 1024, 4096, 64, 128, CellSLC, FastTiming())},
	{ID: []byte{0xEC, 0xD5, 0x84, 0x72, 0x50}, Desc: parallelDesc("Samsung", "K9GAG08U0E", 2048, 8192, 128, 436, CellMLC, FastTiming())},
	{ID: []byte{0xEC, 0xD7, 0xD5, 0x29, 0x38}, Desc: parallelDesc("Samsung", "K9LBG08U0M", 4096, 4096, 128, 128, CellMLC, FastTiming())},

	{ID: []byte{0xAD, 0xF1}, Desc: parallelDesc("SK Hynix", "HY27UF081G2A", 128, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0xAD, 0xDA, 0x10, 0x95, 0x44}, Desc: parallelDesc("SK Hynix", "HY27UF082G2A", 256, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0xAD, 0xDC, 0x10, 0x95, 0x50}, Desc: parallelDesc("SK Hynix", "HY27UF082G2A", 256, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0xAD, 0xDC, 0x90, 0x95, 0x54}, Desc: parallelDesc("SK Hynix", "H27U4G8F2DTR", 512, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0xAD, 0xD5, 0x94, 0x25, 0x44}, Desc: parallelDesc("SK Hynix", "H27UAG8T2BTR", 2048, 4096, 128, 224, CellMLC, FastTiming())},

	{ID: []byte{0x2C, 0xF1, 0x80, 0x95, 0x04}, Desc: parallelDesc("Micron", "MT29F1G08ABADAWP", 128, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0x2C, 0xDA, 0x90, 0x95, 0x06}, Desc: parallelDesc("Micron", "MT29F2G08ABAEAWP", 256, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0x2C, 0xDC, 0x90, 0x95, 0x56}, Desc: parallelDesc("Micron", "MT29F4G08ABADAWP", 512, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0x2C, 0xD3, 0xD1, 0x95, 0xA6}, Desc: parallelDesc("Micron", "MT29F8G08ADBDAWP", 1024, 4096, 64, 224, CellSLC, FastTiming())},
	{ID: []byte{0x2C, 0x48, 0x04, 0x46, 0x85}, Desc: parallelDesc("Micron", "MT29F16G08CBACAWP", 2048, 4096, 256, 224, CellMLC, FastTiming())},

	{ID: []byte{0x98, 0xF1}, Desc: parallelDesc("Toshiba/Kioxia", "TC58NVG0S3ETA00", 128, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0x98, 0xDA}, Desc: parallelDesc("Toshiba/Kioxia", "TC58NVG1S3ETA00", 256, 2048, 64, 64, CellSLC, FastTiming())},
	{ID: []byte{0x98, 0xDC}, Desc: parallelDesc("Toshiba/Kioxia", "TC58NVG2S3ETA00", 512, 2048, 64, 64, CellSLC, FastTiming())},

	{ID: []byte{0xC2, 0xF1}, Desc: parallelDesc("Macronix", "MX30LF1G08AA", 128, 2048, 64, 64, CellSLC, DefaultTiming())},
	{ID: []byte{0xC2, 0xDA}, Desc: parallelDesc("Macronix", "MX30LF2G18AC", 256, 2048, 64, 64, CellSLC, DefaultTiming())},

	{ID: []byte{0xEF, 0xF1}, Desc: parallelDesc("Winbond", "W29N01GVSIAA", 128, 2048, 64, 64, CellSLC, DefaultTiming())},

	{ID: []byte{0xC8, 0xF1}, Desc: parallelDesc("GigaDevice", "GD9FU1G8F2A", 128, 2048, 64, 64, CellSLC, DefaultTiming())},
}

// parallelNANDGeneric maps the second chip-id byte to a device-class
// geometry when no exact or wildcard row applies, grounded on
// onfi.rs's get_chip_info_generic match arms.
var parallelNANDGeneric = map[byte]struct {
	SizeMB, PageSize, PagesPerBlock uint32
	Cell                            CellClass
}{
	0xF1: {128, 2048, 64, CellSLC},
	0xDA: {256, 2048, 64, CellSLC},
	0xDC: {512, 2048, 64, CellSLC},
	0xD3: {1024, 4096, 64, CellSLC},
	0xD5: {2048, 4096, 128, CellMLC},
	0xD7: {4096, 4096, 128, CellMLC},
	0xDE: {8192, 8192, 256, CellMLC},
	0x48: {2048, 4096, 256, CellMLC},
	0x68: {4096, 8192, 256, CellMLC},
	0x88: {8192, 8192, 256, CellTLC},
}

// ResolveParallelNAND resolves a raw chip-id byte stream to a
// descriptor using exact match, then manufacturer+device wildcard,
// then the generic ONFI-nibble fallback, in that order.
func ResolveParallelNAND(chipID []byte) (ChipDescriptor, bool) {
	return resolveParallelNAND(chipID, parallelNANDExact)
}

func resolveParallelNAND(chipID []byte, table []nandRow) (ChipDescriptor, bool) {
	if len(chipID) < 2 {
		return ChipDescriptor{}, false
	}
	if d, ok := matchNandRows(chipID, table, true); ok {
		return withID(d, chipID), true
	}
	if d, ok := matchNandRows(chipID, table, false); ok {
		return withID(d, chipID), true
	}

	mfr, device := chipID[0], chipID[1]
	if row, ok := parallelNANDGeneric[device]; ok {
		d := parallelDesc(manufacturerName(mfr), fmt.Sprintf("Generic 0x%02X", device), row.SizeMB, row.PageSize, row.PagesPerBlock, row.PageSize/32, row.Cell, DefaultTiming())
		return withID(d, chipID), true
	}
	return ChipDescriptor{}, false
}

func matchNandRows(chipID []byte, table []nandRow, exact bool) (ChipDescriptor, bool) {
	for _, row := range table {
		if exact && len(row.ID) != 5 {
			continue
		}
		if !exact && len(row.ID) != 2 {
			continue
		}
		if len(chipID) < len(row.ID) {
			continue
		}
		match := true
		for i, b := range row.ID {
			if chipID[i] != b {
				match = false
				break
			}
		}
		if match {
			return row.Desc, true
		}
	}
	return ChipDescriptor{}, false
}

func withID(d ChipDescriptor, chipID []byte) ChipDescriptor {
	d.ChipID = append([]byte(nil), chipID...)
	return d
}

func manufacturerName(mfr byte) string {
	if name, ok := parallelManufacturers[mfr]; ok {
		return name
	}
	return "Unknown"
}
