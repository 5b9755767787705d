/*
 * eMMC device state machine.
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

const emmcBlockSize = 512

// EMMC drives an eMMC device by its 512-byte block addressing, the
// granularity its command set is built around.
type EMMC struct {
	T     protocol.Transport
	Trace *tracer.Tracer
	Log   *slog.Logger
}

func (e *EMMC) logger() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return corelog.Discard()
}

func (e *EMMC) exchange(ctx context.Context, cmd byte, args []byte) (protocol.Packet, error) {
	e.Trace.Tracef("emmc", tracer.CMD, "cmd=0x%02x args=% x", cmd, args)
	resp, err := e.T.Exchange(ctx, protocol.New(cmd, args))
	if err != nil {
		e.logger().Debug("exchange failed", "cmd", cmd, "err", err)
		return protocol.Packet{}, err
	}
	if resp.Args[0] == protocol.StatusError {
		return resp, fmt.Errorf("iface: emmc: %w", corerr.ErrIO)
	}
	return resp, nil
}

func (e *EMMC) Reset(ctx context.Context) error {
	_, err := e.exchange(ctx, protocol.CmdEMMCReset, nil)
	return err
}

func (e *EMMC) ReadID(ctx context.Context) ([]byte, error) {
	resp, err := e.exchange(ctx, protocol.CmdEMMCSendCID, nil)
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

func (e *EMMC) Detect(ctx context.Context) (chipdb.ChipDescriptor, error) {
	id, err := e.ReadID(ctx)
	if err != nil {
		return chipdb.ChipDescriptor{}, err
	}
	desc, ok := chipdb.ResolveEMMC(id)
	if !ok {
		return chipdb.ChipDescriptor{}, fmt.Errorf("iface: emmc: cid % x: %w", id, corerr.ErrUnknownChip)
	}
	return desc, nil
}

func (e *EMMC) ReadStatus(ctx context.Context) (Status, error) {
	resp, err := e.exchange(ctx, protocol.CmdEMMCSendStatus, nil)
	if err != nil {
		return Status{}, err
	}
	raw := resp.Args[1]
	return Status{
		Busy:        raw&protocol.EMMCStatusReady == 0,
		ProgramFail: raw&protocol.EMMCStatusError != 0,
		EraseFail:   raw&protocol.EMMCStatusError != 0,
	}, nil
}

func (e *EMMC) Read(ctx context.Context, addr uint64, length int, includeOOB bool) ([]byte, []byte, error) {
	block := addr / emmcBlockSize
	args := []byte{byte(block), byte(block >> 8), byte(block >> 16), byte(block >> 24), byte(length), byte(length >> 8)}
	resp, err := e.exchange(ctx, protocol.CmdEMMCReadBlock, args)
	if err != nil {
		return nil, nil, err
	}
	total := int(resp.Args[1]) | int(resp.Args[2])<<8
	buf := make([]byte, total)
	if _, err := io.ReadFull(e.T.BulkReader(ctx), buf); err != nil {
		return nil, nil, fmt.Errorf("iface: emmc: read bulk: %w", err)
	}
	return buf, nil, nil
}

func (e *EMMC) Program(ctx context.Context, addr uint64, data []byte) error {
	block := addr / emmcBlockSize
	for off := 0; off < len(data); off += protocol.ArgLen - 4 {
		end := off + (protocol.ArgLen - 4)
		if end > len(data) {
			end = len(data)
		}
		b := block + uint64(off)/emmcBlockSize
		args := append([]byte{byte(b), byte(b >> 8), byte(b >> 16), byte(b >> 24)}, data[off:end]...)
		if _, err := e.exchange(ctx, protocol.CmdEMMCWriteBlock, args); err != nil {
			return err
		}
	}
	st, err := pollUntilReady(ctx, e.ReadStatus)
	if err != nil {
		return err
	}
	if st.ProgramFail {
		return &corerr.ProgramFail{Block: int(block)}
	}
	return nil
}

func (e *EMMC) Erase(ctx context.Context, block int) error {
	b := uint64(block)
	args := []byte{byte(b), byte(b >> 8), byte(b >> 16), byte(b >> 24)}
	if _, err := e.exchange(ctx, protocol.CmdEMMCErase, args); err != nil {
		return err
	}
	st, err := pollUntilReady(ctx, e.ReadStatus)
	if err != nil {
		return err
	}
	if st.EraseFail {
		return &corerr.EraseFail{Block: block}
	}
	return nil
}
