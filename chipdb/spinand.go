/*
 * SPI NAND chip identification table.
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

// spiManufacturers maps the first chip-id byte to a display name,
// grounded on spi_nand.rs's get_spi_nand_manufacturer_name.
var spiManufacturers = map[byte]string{
	0xC8: "GigaDevice",
	0xEF: "Winbond",
	0xC2: "Macronix",
	0x2C: "Micron",
	0x98: "Toshiba/Kioxia",
	0x01: "Spansion/Cypress",
	0xA1: "Fudan Micro",
	0x0B: "XTX",
	0xCD: "Zetta",
	0xE5: "Dosilicon",
}

type spiNandRow struct {
	ID   []byte
	Desc ChipDescriptor
}

func spiDesc(mfr, model string, sizeMB, pageSize, pagesPerBlock, oobSize uint32, voltage string, clockMHz uint8, qspi, ecc bool, cell CellClass, planes uint8) ChipDescriptor {
	return ChipDescriptor{
		Manufacturer:   mfr,
		Model:          model,
		SizeMB:         sizeMB,
		PageSize:       pageSize,
		PagesPerBlock:  pagesPerBlock,
		OOBSize:        oobSize,
		BusWidth:       1,
		Voltage:        voltage,
		CellType:       cell,
		Planes:         planes,
		Interface:      InterfaceSPINAND,
		Timing:         DefaultTiming(),
		MaxClockMHz:    clockMHz,
		HasQSPI:        qspi,
		HasInternalECC: ecc,
	}
}

// spiNANDExact rows are grounded on spi_nand.rs's
// get_spi_nand_chip_info_exact match arms. A two-byte ID matches any
// chip-id sharing that manufacturer+device prefix (the wildcard
// patterns in the original, e.g. (0xC8, [0xD1, ..])).
var spiNANDExact = []spiNandRow{
	{ID: []byte{0xC8, 0xD1}, Desc: spiDesc("GigaDevice", "GD5F1GQ4UBxIG", 128, 2048, 64, 64, "3.3V", 120, true, true, CellSLC, 1)},
	{ID: []byte{0xC8, 0xB1}, Desc: spiDesc("GigaDevice", "GD5F1GQ4UBxIG", 128, 2048, 64, 64, "3.3V", 120, true, true, CellSLC, 1)},
	{ID: []byte{0xC8, 0xD2}, Desc: spiDesc("GigaDevice", "GD5F2GQ4UBxIG", 256, 2048, 64, 64, "3.3V", 120, true, true, CellSLC, 1)},
	{ID: []byte{0xC8, 0xB2}, Desc: spiDesc("GigaDevice", "GD5F2GQ4UBxIG", 256, 2048, 64, 64, "3.3V", 120, true, true, CellSLC, 1)},
	{ID: []byte{0xC8, 0xD4}, Desc: spiDesc("GigaDevice", "GD5F4GQ4UBxIG", 512, 4096, 64, 128, "3.3V", 120, true, true, CellSLC, 1)},
	{ID: []byte{0xC8, 0xB4}, Desc: spiDesc("GigaDevice", "GD5F4GQ4UBxIG", 512, 4096, 64, 128, "3.3V", 120, true, true, CellSLC, 1)},
	{ID: []byte{0xC8, 0x51}, Desc: spiDesc("GigaDevice", "GD5F1GQ5UExxG", 128, 2048, 64, 128, "1.8V", 133, true, true, CellSLC, 1)},

	{ID: []byte{0xEF, 0xAA, 0x21}, Desc: spiDesc("Winbond", "W25N01GV", 128, 2048, 64, 64, "3.3V", 104, true, true, CellSLC, 1)},
	{ID: []byte{0xEF, 0xAA, 0x22}, Desc: spiDesc("Winbond", "W25N02KV", 256, 2048, 64, 64, "3.3V", 104, true, true, CellSLC, 2)},
	{ID: []byte{0xEF, 0xAA, 0x23}, Desc: spiDesc("Winbond", "W25N04KV", 512, 2048, 64, 64, "3.3V", 104, true, true, CellSLC, 4)},
	{ID: []byte{0xEF, 0xBC, 0x21}, Desc: spiDesc("Winbond", "W25N01JW", 128, 2048, 64, 64, "1.8V", 104, true, true, CellSLC, 1)},

	{ID: []byte{0xC2, 0x12}, Desc: spiDesc("Macronix", "MX35LF1GE4AB", 128, 2048, 64, 64, "3.3V", 104, true, true, CellSLC, 1)},
}

// spiNANDGeneric maps the second chip-id byte to a device-class
// geometry, mirroring the parallel-NAND generic fallback table but
// for the SPI NAND size classes actually shipped in-pack.
var spiNANDGeneric = map[byte]struct {
	SizeMB, PageSize, PagesPerBlock uint32
}{
	0xD1: {128, 2048, 64},
	0xD2: {256, 2048, 64},
	0xD4: {512, 4096, 64},
	0xD8: {1024, 4096, 64},
}

// ResolveSPINAND resolves a raw chip-id byte stream to a descriptor
// using the same three-tier order as ResolveParallelNAND.
func ResolveSPINAND(chipID []byte) (ChipDescriptor, bool) {
	if len(chipID) < 2 {
		return ChipDescriptor{}, false
	}
	for _, row := range spiNANDExact {
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
			return withID(row.Desc, chipID), true
		}
	}

	mfr, device := chipID[0], chipID[1]
	if row, ok := spiNANDGeneric[device]; ok {
		d := spiDesc(spiManufacturerName(mfr), "Generic SPI-NAND", row.SizeMB, row.PageSize, row.PagesPerBlock, row.PageSize/32, "3.3V", 80, true, true, CellSLC, 1)
		return withID(d, chipID), true
	}
	return ChipDescriptor{}, false
}

func spiManufacturerName(mfr byte) string {
	if name, ok := spiManufacturers[mfr]; ok {
		return name
	}
	return "Unknown"
}
