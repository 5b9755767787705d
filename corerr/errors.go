/*
 * Shared error types and sentinels.
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

// Package corerr defines the error taxonomy shared by every layer of
// flashcore. Pure analytic routines (ECC, entropy, signatures, the
// Galois field) return these directly; chip operations wrap them with
// block/page/offset context as they bubble up. The core never logs an
// error itself -- it returns it.
package corerr

import (
	"errors"
	"fmt"
)

// Protocol errors.
var (
	ErrUnknownCommand  = errors.New("flashcore: unknown command")
	ErrMalformedPacket = errors.New("flashcore: malformed packet")
	ErrOperationTimeout = errors.New("flashcore: operation timed out")
)

// Chip errors.
var (
	ErrReadFailed      = errors.New("flashcore: read failed")
	ErrBadBlock        = errors.New("flashcore: block is marked bad")
	ErrNoSpareBlocks   = errors.New("flashcore: spare pool exhausted")
	ErrInvalidAddress  = errors.New("flashcore: invalid address")
	ErrUnknownChip     = errors.New("flashcore: chip id not found in database")
)

// ECC errors.
var (
	ErrUncorrectable  = errors.New("flashcore: uncorrectable error")
	ErrInvalidEccInput = errors.New("flashcore: invalid ecc input")
)

// Control errors.
var (
	ErrCancelled = errors.New("flashcore: operation cancelled")
)

// Analyzer/scan errors.
var (
	ErrIO = errors.New("flashcore: io error")
)

// InvalidData reports that analyzer or scan input was too small or
// malformed to process.
type InvalidData struct {
	Reason string
}

func (e *InvalidData) Error() string {
	return fmt.Sprintf("flashcore: invalid data: %s", e.Reason)
}

// ProgramFail reports a program-status failure at a specific block
// and page.
type ProgramFail struct {
	Block int
	Page  int
}

func (e *ProgramFail) Error() string {
	return fmt.Sprintf("flashcore: program failed at block %d page %d", e.Block, e.Page)
}

// EraseFail reports an erase-status failure at a specific block.
type EraseFail struct {
	Block int
}

func (e *EraseFail) Error() string {
	return fmt.Sprintf("flashcore: erase failed at block %d", e.Block)
}

// VerifyFailed reports the first byte offset where a post-program
// readback mismatched the intended data.
type VerifyFailed struct {
	Block  int
	Page   int
	Offset int
}

func (e *VerifyFailed) Error() string {
	return fmt.Sprintf("flashcore: verify failed at block %d page %d offset %d", e.Block, e.Page, e.Offset)
}

// WearLimitExceeded reports that a block's erase count would exceed
// its rated endurance. Fatal for the block, not for the chip.
type WearLimitExceeded struct {
	Block int
}

func (e *WearLimitExceeded) Error() string {
	return fmt.Sprintf("flashcore: wear limit exceeded on block %d", e.Block)
}

// DataSizeMismatch reports an unexpected payload length.
type DataSizeMismatch struct {
	Expected int
	Actual   int
}

func (e *DataSizeMismatch) Error() string {
	return fmt.Sprintf("flashcore: data size mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ChipMismatch reports that a clone's source and target chips are
// not compatible.
type ChipMismatch struct {
	Source string
	Target string
	Reason string
}

func (e *ChipMismatch) Error() string {
	return fmt.Sprintf("flashcore: chip mismatch (source=%s target=%s): %s", e.Source, e.Target, e.Reason)
}
