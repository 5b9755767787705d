/*
 * The per-chip Device interface.
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

// Package iface implements the per-interface state machines that
// turn the generic read/program/erase/status operations L5/L6 expect
// into the wire exchanges each physical interface actually requires:
// bit-banged parallel NAND command cycles, SPI NAND feature-register
// polling, and the byte/block/LBA-addressed SPI NOR, eMMC and UFS
// equivalents.
package iface

import (
	"context"

	"github.com/openflash/flashcore/chipdb"
)

// ECCStatus classifies the hardware ECC outcome of a read so the
// caller (skip, retry, mark bad) can decide what to do with it. Only
// SPINAND decodes it from its status register; the other interfaces
// here always report ECCNoError.
type ECCStatus int

const (
	ECCNoError ECCStatus = iota
	ECCCorrectedLow          // corrected, bit count below the chip's high-water mark
	ECCCorrectedHigh         // corrected, at or above the high-water mark
	ECCUncorrectable
)

// Status is the chip status-register snapshot returned by
// ReadStatus: busy/ready, the last operation's pass/fail flags, and
// the hardware ECC verdict of the last read, if any.
type Status struct {
	Busy        bool
	ProgramFail bool
	EraseFail   bool
	ECC         ECCStatus
}

// Device is the uniform surface every interface state machine
// exposes to the analyzer and write-ops layers; callers never see
// the interface-specific wire sequence behind it.
type Device interface {
	Reset(ctx context.Context) error
	ReadID(ctx context.Context) ([]byte, error)
	Detect(ctx context.Context) (chipdb.ChipDescriptor, error)
	Read(ctx context.Context, addr uint64, length int, includeOOB bool) (data, oob []byte, err error)
	Program(ctx context.Context, addr uint64, data []byte) error
	Erase(ctx context.Context, block int) error
	ReadStatus(ctx context.Context) (Status, error)
}

var (
	_ Device = (*ParallelNAND)(nil)
	_ Device = (*SPINAND)(nil)
	_ Device = (*SPINOR)(nil)
	_ Device = (*EMMC)(nil)
	_ Device = (*UFS)(nil)
)
