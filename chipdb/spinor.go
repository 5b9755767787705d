/*
 * SPI NOR chip identification table.
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

// spiNORManufacturers maps JEDEC manufacturer IDs for SPI-NOR chips.
var spiNORManufacturers = map[byte]string{
	0xEF: "Winbond",
	0xC2: "Macronix",
	0x9D: "ISSI",
	0x20: "Micron/ST",
	0x1F: "Adesto",
	0xC8: "GigaDevice",
}

type spiNORRow struct {
	ID   []byte
	Desc ChipDescriptor
}

func spiNORDesc(mfr, model string, sizeMB uint32, clockMHz uint8, qspi bool) ChipDescriptor {
	return ChipDescriptor{
		Manufacturer: mfr,
		Model:        model,
		SizeMB:       sizeMB,
		PageSize:     256,
		BusWidth:     1,
		Voltage:      "3.3V",
		CellType:     CellSLC,
		Interface:    InterfaceSPINOR,
		Timing:       DefaultTiming(),
		MaxClockMHz:  clockMHz,
		HasQSPI:      qspi,
	}
}

// spiNORExact rows follow the JEDEC READ_JEDEC_ID convention
// (manufacturer, memory type, capacity) used across the SPI-NOR
// market; these are representative entries, not an exhaustive
// reproduction of any single vendor's full catalogue.
var spiNORExact = []spiNORRow{
	{ID: []byte{0xEF, 0x40, 0x18}, Desc: spiNORDesc("Winbond", "W25Q128FV", 16, 104, true)},
	{ID: []byte{0xEF, 0x40, 0x17}, Desc: spiNORDesc("Winbond", "W25Q64FV", 8, 104, true)},
	{ID: []byte{0xC2, 0x20, 0x18}, Desc: spiNORDesc("Macronix", "MX25L12835F", 16, 86, true)},
	{ID: []byte{0x9D, 0x60, 0x18}, Desc: spiNORDesc("ISSI", "IS25LP128", 16, 104, true)},
	{ID: []byte{0xC8, 0x40, 0x18}, Desc: spiNORDesc("GigaDevice", "GD25Q128", 16, 104, true)},
}

// ResolveSPINOR resolves a JEDEC ID triplet to a descriptor; the
// generic fallback decodes the third byte as a power-of-two capacity
// exponent per the JEDEC convention (size = 2^n bytes).
func ResolveSPINOR(chipID []byte) (ChipDescriptor, bool) {
	if len(chipID) < 3 {
		return ChipDescriptor{}, false
	}
	for _, row := range spiNORExact {
		if chipID[0] == row.ID[0] && chipID[1] == row.ID[1] && chipID[2] == row.ID[2] {
			return withID(row.Desc, chipID), true
		}
	}
	mfr := chipID[0]
	capExp := int(chipID[2])
	if capExp < 16 || capExp > 30 {
		return ChipDescriptor{}, false
	}
	sizeMB := uint32(1) << uint(capExp-20)
	if sizeMB == 0 {
		sizeMB = 1
	}
	name, ok := spiNORManufacturers[mfr]
	if !ok {
		return ChipDescriptor{}, false
	}
	d := spiNORDesc(name, "Generic SPI-NOR", sizeMB, 50, false)
	return withID(d, chipID), true
}
