/*
 * Parallel NAND device state machine.
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

package iface

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/openflash/flashcore/chipdb"
	"github.com/openflash/flashcore/corelog"
	"github.com/openflash/flashcore/corerr"
	"github.com/openflash/flashcore/protocol"
	"github.com/openflash/flashcore/tracer"
)

// Standard NAND 0x70 status-register bits.
const (
	statusFail  = 1 << 0
	statusReady = 1 << 6
)

// parallel NAND command-set bytes latched through CmdNandCmd. These
// are the bus-level commands the bridge firmware forwards on CLE,
// not protocol package opcodes.
const (
	nandCmdReadSetup    = 0x00
	nandCmdReadConfirm   = 0x30
	nandCmdProgramSetup = 0x80
	nandCmdProgramConfirm = 0x10
	nandCmdEraseSetup   = 0x60
	nandCmdEraseConfirm = 0xD0
	nandCmdStatus       = 0x70
)

// ParallelNAND drives a bit-banged parallel NAND chip through the
// host bridge's CLE/ALE/WE#/RE# cycle commands (0x10-0x1F): a command
// latch, an address latch, and a data-cycle pair for every page
// operation, each issued as its own packet.Exchange and polled to
// completion with ReadStatus rather than a fixed delay.
type ParallelNAND struct {
	T             protocol.Transport
	PageSize      int
	OOBSize       int
	PagesPerBlock int
	Timing        chipdb.Timing
	Trace         *tracer.Tracer
	Log           *slog.Logger
}

func (n *ParallelNAND) logger() *slog.Logger {
	if n.Log != nil {
		return n.Log
	}
	return corelog.Discard()
}

func (n *ParallelNAND) exchange(ctx context.Context, cmd byte, args []byte) (protocol.Packet, error) {
	n.Trace.Tracef("nand", tracer.CMD, "cmd=0x%02x args=% x", cmd, args)
	resp, err := n.T.Exchange(ctx, protocol.New(cmd, args))
	if err != nil {
		n.logger().Debug("exchange failed", "cmd", cmd, "err", err)
		return protocol.Packet{}, err
	}
	if resp.Args[0] == protocol.StatusError {
		return resp, fmt.Errorf("iface: parallelnand: %w", corerr.ErrIO)
	}
	return resp, nil
}

func (n *ParallelNAND) addrBytes(addr uint64) (col [2]byte, row [3]byte) {
	page := addr / uint64(n.PageSize)
	offset := addr % uint64(n.PageSize)
	col[0] = byte(offset)
	col[1] = byte(offset >> 8)
	row[0] = byte(page)
	row[1] = byte(page >> 8)
	row[2] = byte(page >> 16)
	return col, row
}

func (n *ParallelNAND) Reset(ctx context.Context) error {
	_, err := n.exchange(ctx, protocol.CmdReset, nil)
	return err
}

func (n *ParallelNAND) ReadID(ctx context.Context) ([]byte, error) {
	resp, err := n.exchange(ctx, protocol.CmdNandReadID, nil)
	if err != nil {
		return nil, err
	}
	idLen := int(resp.Args[1])
	if idLen > protocol.ArgLen-2 {
		idLen = protocol.ArgLen - 2
	}
	id := make([]byte, idLen)
	copy(id, resp.Args[2:2+idLen])
	return id, nil
}

func (n *ParallelNAND) Detect(ctx context.Context) (chipdb.ChipDescriptor, error) {
	id, err := n.ReadID(ctx)
	if err != nil {
		return chipdb.ChipDescriptor{}, err
	}
	desc, ok := chipdb.ResolveParallelNAND(id)
	if !ok {
		return chipdb.ChipDescriptor{}, fmt.Errorf("iface: parallelnand: id % x: %w", id, corerr.ErrUnknownChip)
	}
	return desc, nil
}

// waitReady polls the status register until the chip reports ready
// or ctx expires. A timeout here is never retried internally -- it
// is surfaced to the caller as ErrOperationTimeout.
func (n *ParallelNAND) waitReady(ctx context.Context) (Status, error) {
	for {
		st, err := n.ReadStatus(ctx)
		if err != nil {
			return Status{}, err
		}
		if !st.Busy {
			return st, nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return Status{}, corerr.ErrOperationTimeout
			}
			return Status{}, corerr.ErrCancelled
		case <-time.After(time.Microsecond * 50):
		}
	}
}

func (n *ParallelNAND) ReadStatus(ctx context.Context) (Status, error) {
	resp, err := n.exchange(ctx, protocol.CmdNandCmd, []byte{nandCmdStatus})
	if err != nil {
		return Status{}, err
	}
	raw := resp.Args[1]
	return Status{
		Busy:        raw&statusReady == 0,
		ProgramFail: raw&statusFail != 0,
		EraseFail:   raw&statusFail != 0,
	}, nil
}

func (n *ParallelNAND) Read(ctx context.Context, addr uint64, length int, includeOOB bool) ([]byte, []byte, error) {
	col, row := n.addrBytes(addr)
	if _, err := n.exchange(ctx, protocol.CmdNandCmd, []byte{nandCmdReadSetup}); err != nil {
		return nil, nil, err
	}
	if _, err := n.exchange(ctx, protocol.CmdNandAddr, append(col[:], row[:]...)); err != nil {
		return nil, nil, err
	}
	if _, err := n.exchange(ctx, protocol.CmdNandCmd, []byte{nandCmdReadConfirm}); err != nil {
		return nil, nil, err
	}
	if _, err := n.waitReady(ctx); err != nil {
		return nil, nil, err
	}

	oobFlag := byte(0)
	if includeOOB {
		oobFlag = 1
	}
	resp, err := n.exchange(ctx, protocol.CmdNandReadPage, []byte{byte(length), byte(length >> 8), oobFlag})
	if err != nil {
		return nil, nil, err
	}
	total := int(resp.Args[1]) | int(resp.Args[2])<<8
	buf := make([]byte, total)
	if _, err := io.ReadFull(n.T.BulkReader(ctx), buf); err != nil {
		return nil, nil, fmt.Errorf("iface: parallelnand: read bulk: %w", err)
	}
	data := buf[:length]
	var oob []byte
	if includeOOB {
		oob = buf[length:]
	}
	return data, oob, nil
}

func (n *ParallelNAND) Program(ctx context.Context, addr uint64, data []byte) error {
	col, row := n.addrBytes(addr)
	if _, err := n.exchange(ctx, protocol.CmdNandCmd, []byte{nandCmdProgramSetup}); err != nil {
		return err
	}
	if _, err := n.exchange(ctx, protocol.CmdNandAddr, append(col[:], row[:]...)); err != nil {
		return err
	}
	for off := 0; off < len(data); off += protocol.ArgLen {
		end := off + protocol.ArgLen
		if end > len(data) {
			end = len(data)
		}
		if _, err := n.exchange(ctx, protocol.CmdNandWritePage, data[off:end]); err != nil {
			return err
		}
	}
	if _, err := n.exchange(ctx, protocol.CmdNandCmd, []byte{nandCmdProgramConfirm}); err != nil {
		return err
	}
	st, err := n.waitReady(ctx)
	if err != nil {
		return err
	}
	if st.ProgramFail {
		page := int(addr / uint64(n.PageSize))
		block := 0
		if n.PagesPerBlock > 0 {
			block = page / n.PagesPerBlock
			page = page % n.PagesPerBlock
		}
		return &corerr.ProgramFail{Block: block, Page: page}
	}
	return nil
}

func (n *ParallelNAND) Erase(ctx context.Context, block int) error {
	startPage := uint64(block)
	if n.PagesPerBlock > 0 {
		startPage = uint64(block) * uint64(n.PagesPerBlock)
	}
	_, row := n.addrBytes(startPage * uint64(n.PageSize))
	if _, err := n.exchange(ctx, protocol.CmdNandCmd, []byte{nandCmdEraseSetup}); err != nil {
		return err
	}
	if _, err := n.exchange(ctx, protocol.CmdNandAddr, row[:]); err != nil {
		return err
	}
	if _, err := n.exchange(ctx, protocol.CmdNandCmd, []byte{nandCmdEraseConfirm}); err != nil {
		return err
	}
	st, err := n.waitReady(ctx)
	if err != nil {
		return err
	}
	if st.EraseFail {
		return &corerr.EraseFail{Block: block}
	}
	return nil
}

// IsBadBlock probes the first page's spare-area byte 0, the
// factory bad-block marker convention for parallel NAND.
func (n *ParallelNAND) IsBadBlock(ctx context.Context, block int) (bool, error) {
	startPage := uint64(block)
	if n.PagesPerBlock > 0 {
		startPage = uint64(block) * uint64(n.PagesPerBlock)
	}
	_, oob, err := n.Read(ctx, startPage*uint64(n.PageSize), n.PageSize, true)
	if err != nil {
		return false, err
	}
	if len(oob) == 0 {
		return false, nil
	}
	return oob[0] != 0xFF, nil
}
