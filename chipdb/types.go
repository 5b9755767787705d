/*
 * Chip descriptor and timing data model.
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

// Package chipdb holds the curated per-interface chip identity
// tables (parallel NAND, SPI NAND, SPI NOR, eMMC, UFS) and the ONFI
// parameter-page parser, resolving a raw chip-id byte stream to a
// ChipDescriptor through exact match, manufacturer-prefix wildcard,
// and generic ONFI-nibble fallback, in that order.
package chipdb

// CellClass names the memory cell technology.
type CellClass string

const (
	CellSLC CellClass = "SLC"
	CellMLC CellClass = "MLC"
	CellTLC CellClass = "TLC"
	CellQLC CellClass = "QLC"
)

// Timing holds NAND AC timing parameters in nanoseconds, except TR
// which is in microseconds, mirroring onfi.rs's NandTiming.
type Timing struct {
	TRP  uint8 `json:"t_rp" yaml:"t_rp"`
	TWP  uint8 `json:"t_wp" yaml:"t_wp"`
	TCLS uint8 `json:"t_cls" yaml:"t_cls"`
	TALS uint8 `json:"t_als" yaml:"t_als"`
	TRR  uint8 `json:"t_rr" yaml:"t_rr"`
	TAR  uint8 `json:"t_ar" yaml:"t_ar"`
	TCLR uint8 `json:"t_clr" yaml:"t_clr"`
	TRHW uint8 `json:"t_rhw" yaml:"t_rhw"`
	TWHR uint8 `json:"t_whr" yaml:"t_whr"`
	TR   uint8 `json:"t_r" yaml:"t_r"`
}

// DefaultTiming is the conservative ONFI Mode 0 seed timing used when
// a table row doesn't specify one explicitly.
func DefaultTiming() Timing {
	return Timing{TRP: 50, TWP: 50, TCLS: 50, TALS: 50, TRR: 40, TAR: 25, TCLR: 20, TRHW: 200, TWHR: 120, TR: 200}
}

// FastTiming is the ONFI Mode 4/5 timing profile.
func FastTiming() Timing {
	return Timing{TRP: 12, TWP: 12, TCLS: 12, TALS: 12, TRR: 20, TAR: 10, TCLR: 10, TRHW: 100, TWHR: 60, TR: 25}
}

// Interface names which command family a descriptor belongs to.
type Interface string

const (
	InterfaceParallelNAND Interface = "parallel-nand"
	InterfaceSPINAND      Interface = "spi-nand"
	InterfaceSPINOR       Interface = "spi-nor"
	InterfaceEMMC         Interface = "emmc"
	InterfaceUFS          Interface = "ufs"
)

// ChipDescriptor is the identity and geometry of one known chip,
// matching the field list in spec.md §6 plus interface-specific
// extras (QSPI/ECC capability, plane count) as optional fields.
type ChipDescriptor struct {
	Manufacturer  string    `json:"manufacturer" yaml:"manufacturer"`
	Model         string    `json:"model" yaml:"model"`
	ChipID        []byte    `json:"chip_id" yaml:"chip_id"`
	SizeMB        uint32    `json:"size_mb" yaml:"size_mb"`
	PageSize      uint32    `json:"page_size" yaml:"page_size"`
	PagesPerBlock uint32    `json:"pages_per_block" yaml:"pages_per_block"`
	OOBSize       uint32    `json:"oob_size" yaml:"oob_size"`
	BusWidth      uint8     `json:"bus_width" yaml:"bus_width"`
	Voltage       string    `json:"voltage" yaml:"voltage"`
	CellType      CellClass `json:"cell_type" yaml:"cell_type"`
	Planes        uint8     `json:"planes" yaml:"planes"`
	Interface     Interface `json:"interface" yaml:"interface"`
	Timing        Timing    `json:"timing" yaml:"timing"`
	MaxClockMHz   uint8     `json:"max_clock_mhz,omitempty" yaml:"max_clock_mhz,omitempty"`
	HasQSPI       bool      `json:"has_qspi,omitempty" yaml:"has_qspi,omitempty"`
	HasInternalECC bool     `json:"has_internal_ecc,omitempty" yaml:"has_internal_ecc,omitempty"`
}

// Overrides is the YAML chip-override catalogue: additional rows a
// user supplies at session-load time without recompiling, keyed the
// same way as the built-in exact-match tables.
type Overrides struct {
	ParallelNAND []ChipDescriptor `yaml:"parallel_nand"`
	SPINAND      []ChipDescriptor `yaml:"spi_nand"`
	SPINOR       []ChipDescriptor `yaml:"spi_nor"`
	EMMC         []ChipDescriptor `yaml:"emmc"`
	UFS          []ChipDescriptor `yaml:"ufs"`
}
