/*
 * UFS chip identification table.
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

// ufsManufacturers maps UFS device descriptor manufacturer IDs
// (bManufacturerID) to a display name.
var ufsManufacturers = map[byte]string{
	0x01: "Toshiba/Kioxia",
	0x02: "Samsung",
	0x03: "SK Hynix",
	0xCE: "Micron",
}

type ufsRow struct {
	ID   []byte // [manufacturer, productType]
	Desc ChipDescriptor
}

func ufsDesc(mfr, model string, sizeMB uint32) ChipDescriptor {
	return ChipDescriptor{
		Manufacturer:  mfr,
		Model:         model,
		SizeMB:        sizeMB,
		PageSize:      4096,
		PagesPerBlock: 256,
		BusWidth:      1,
		Voltage:       "2.9V",
		CellType:      CellTLC,
		Interface:     InterfaceUFS,
		Timing:        DefaultTiming(),
	}
}

var ufsExact = []ufsRow{
	{ID: []byte{0x02, 0x01}, Desc: ufsDesc("Samsung", "KLUDG4UHDB", 65536)},
	{ID: []byte{0x01, 0x01}, Desc: ufsDesc("Toshiba/Kioxia", "THGLF2G9D8KBAIR", 32768)},
}

// ResolveUFS resolves a [manufacturer, productType] descriptor pair
// (read via SCSI INQUIRY / UFS device descriptor over UPIU) to a
// descriptor.
func ResolveUFS(id []byte) (ChipDescriptor, bool) {
	if len(id) < 1 {
		return ChipDescriptor{}, false
	}
	for _, row := range ufsExact {
		if len(id) < len(row.ID) {
			continue
		}
		match := true
		for i, b := range row.ID {
			if id[i] != b {
				match = false
				break
			}
		}
		if match {
			return withID(row.Desc, id), true
		}
	}
	name, ok := ufsManufacturers[id[0]]
	if !ok {
		return ChipDescriptor{}, false
	}
	d := ufsDesc(name, "Generic UFS", 0)
	return withID(d, id), true
}
