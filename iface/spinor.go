/*
 * SPI NOR device state machine.
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

	"github.com/openflash/flashcore/chipdb"
	"github.com/openflash/flashcore/corelog"
	"github.com/openflash/flashcore/corerr"
	"github.com/openflash/flashcore/protocol"
	"github.com/openflash/flashcore/tracer"
)

// SPINOR drives a byte-addressable SPI NOR flash. It shares the
// read/program/erase/status shape of the other SPI interfaces but
// addresses the array directly by byte offset instead of page/column
// pairs, and erases in fixed sectors rather than NAND blocks.
type SPINOR struct {
	T          protocol.Transport
	SectorSize int
	Trace      *tracer.Tracer
	Log        *slog.Logger
}

func (n *SPINOR) logger() *slog.Logger {
	if n.Log != nil {
		return n.Log
	}
	return corelog.Discard()
}

func (n *SPINOR) exchange(ctx context.Context, cmd byte, args []byte) (protocol.Packet, error) {
	n.Trace.Tracef("spinor", tracer.CMD, "cmd=0x%02x args=% x", cmd, args)
	resp, err := n.T.Exchange(ctx, protocol.New(cmd, args))
	if err != nil {
		n.logger().Debug("exchange failed", "cmd", cmd, "err", err)
		return protocol.Packet{}, err
	}
	if resp.Args[0] == protocol.StatusError {
		return resp, fmt.Errorf("iface: spinor: %w", corerr.ErrIO)
	}
	return resp, nil
}

func addr3(a uint64) [3]byte {
	return [3]byte{byte(a >> 16), byte(a >> 8), byte(a)}
}

func (n *SPINOR) Reset(ctx context.Context) error {
	_, err := n.exchange(ctx, protocol.CmdReset, nil)
	return err
}

func (n *SPINOR) ReadID(ctx context.Context) ([]byte, error) {
	resp, err := n.exchange(ctx, protocol.CmdSPINORReadJEDECID, nil)
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

func (n *SPINOR) Detect(ctx context.Context) (chipdb.ChipDescriptor, error) {
	id, err := n.ReadID(ctx)
	if err != nil {
		return chipdb.ChipDescriptor{}, err
	}
	desc, ok := chipdb.ResolveSPINOR(id)
	if !ok {
		return chipdb.ChipDescriptor{}, fmt.Errorf("iface: spinor: id % x: %w", id, corerr.ErrUnknownChip)
	}
	return desc, nil
}

func (n *SPINOR) ReadStatus(ctx context.Context) (Status, error) {
	resp, err := n.exchange(ctx, protocol.CmdSPINORReadStatus, nil)
	if err != nil {
		return Status{}, err
	}
	raw := resp.Args[1]
	return Status{Busy: raw&protocol.SPINORStatusWIP != 0}, nil
}

func (n *SPINOR) Read(ctx context.Context, addr uint64, length int, includeOOB bool) ([]byte, []byte, error) {
	a := addr3(addr)
	resp, err := n.exchange(ctx, protocol.CmdSPINORReadData, append(a[:], byte(length), byte(length>>8)))
	if err != nil {
		return nil, nil, err
	}
	total := int(resp.Args[1]) | int(resp.Args[2])<<8
	buf := make([]byte, total)
	if _, err := io.ReadFull(n.T.BulkReader(ctx), buf); err != nil {
		return nil, nil, fmt.Errorf("iface: spinor: read bulk: %w", err)
	}
	return buf, nil, nil
}

func (n *SPINOR) Program(ctx context.Context, addr uint64, data []byte) error {
	if _, err := n.exchange(ctx, protocol.CmdSPINORWriteEnable, nil); err != nil {
		return err
	}
	for off := 0; off < len(data); off += protocol.ArgLen - 3 {
		end := off + (protocol.ArgLen - 3)
		if end > len(data) {
			end = len(data)
		}
		a := addr3(addr + uint64(off))
		args := append(a[:], data[off:end]...)
		if _, err := n.exchange(ctx, protocol.CmdSPINORPageProgram, args); err != nil {
			return err
		}
		if _, err := pollUntilReady(ctx, n.ReadStatus); err != nil {
			return err
		}
	}
	return nil
}

func (n *SPINOR) Erase(ctx context.Context, block int) error {
	if n.SectorSize <= 0 {
		return fmt.Errorf("iface: spinor: %w: sector size not configured", corerr.ErrInvalidAddress)
	}
	a := addr3(uint64(block) * uint64(n.SectorSize))
	if _, err := n.exchange(ctx, protocol.CmdSPINORWriteEnable, nil); err != nil {
		return err
	}
	if _, err := n.exchange(ctx, protocol.CmdSPINORSectorErase, a[:]); err != nil {
		return err
	}
	if _, err := pollUntilReady(ctx, n.ReadStatus); err != nil {
		return err
	}
	return nil
}
