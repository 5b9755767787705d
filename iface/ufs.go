/*
 * UFS device state machine.
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

const ufsLBASize = 4096

// UFS drives a UFS device through the SCSI command set it tunnels
// over UniPro: INQUIRY for identification, READ10/WRITE10 for
// transfers, UNMAP for erase, and TEST UNIT READY for status.
type UFS struct {
	T     protocol.Transport
	Trace *tracer.Tracer
	Log   *slog.Logger
}

func (u *UFS) logger() *slog.Logger {
	if u.Log != nil {
		return u.Log
	}
	return corelog.Discard()
}

func (u *UFS) exchange(ctx context.Context, cmd byte, args []byte) (protocol.Packet, error) {
	u.Trace.Tracef("ufs", tracer.CMD, "cmd=0x%02x args=% x", cmd, args)
	resp, err := u.T.Exchange(ctx, protocol.New(cmd, args))
	if err != nil {
		u.logger().Debug("exchange failed", "cmd", cmd, "err", err)
		return protocol.Packet{}, err
	}
	if resp.Args[0] == protocol.StatusError {
		return resp, fmt.Errorf("iface: ufs: %w", corerr.ErrIO)
	}
	return resp, nil
}

func (u *UFS) Reset(ctx context.Context) error {
	_, err := u.exchange(ctx, protocol.CmdUFSInit, nil)
	return err
}

func (u *UFS) ReadID(ctx context.Context) ([]byte, error) {
	resp, err := u.exchange(ctx, protocol.CmdUFSInquiry, nil)
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

func (u *UFS) Detect(ctx context.Context) (chipdb.ChipDescriptor, error) {
	id, err := u.ReadID(ctx)
	if err != nil {
		return chipdb.ChipDescriptor{}, err
	}
	desc, ok := chipdb.ResolveUFS(id)
	if !ok {
		return chipdb.ChipDescriptor{}, fmt.Errorf("iface: ufs: inquiry % x: %w", id, corerr.ErrUnknownChip)
	}
	return desc, nil
}

func (u *UFS) ReadStatus(ctx context.Context) (Status, error) {
	resp, err := u.exchange(ctx, protocol.CmdUFSTestUnitReady, nil)
	if err != nil {
		return Status{}, err
	}
	raw := resp.Args[1]
	return Status{
		Busy:        raw&protocol.UFSStatusReady == 0,
		ProgramFail: raw&protocol.UFSStatusError != 0,
		EraseFail:   raw&protocol.UFSStatusError != 0,
	}, nil
}

func (u *UFS) Read(ctx context.Context, addr uint64, length int, includeOOB bool) ([]byte, []byte, error) {
	lba := addr / ufsLBASize
	args := []byte{byte(lba >> 24), byte(lba >> 16), byte(lba >> 8), byte(lba), byte(length), byte(length >> 8)}
	resp, err := u.exchange(ctx, protocol.CmdUFSRead10, args)
	if err != nil {
		return nil, nil, err
	}
	total := int(resp.Args[1]) | int(resp.Args[2])<<8
	buf := make([]byte, total)
	if _, err := io.ReadFull(u.T.BulkReader(ctx), buf); err != nil {
		return nil, nil, fmt.Errorf("iface: ufs: read bulk: %w", err)
	}
	return buf, nil, nil
}

func (u *UFS) Program(ctx context.Context, addr uint64, data []byte) error {
	lba := addr / ufsLBASize
	for off := 0; off < len(data); off += protocol.ArgLen - 4 {
		end := off + (protocol.ArgLen - 4)
		if end > len(data) {
			end = len(data)
		}
		l := lba + uint64(off)/ufsLBASize
		args := append([]byte{byte(l >> 24), byte(l >> 16), byte(l >> 8), byte(l)}, data[off:end]...)
		if _, err := u.exchange(ctx, protocol.CmdUFSWrite10, args); err != nil {
			return err
		}
	}
	st, err := pollUntilReady(ctx, u.ReadStatus)
	if err != nil {
		return err
	}
	if st.ProgramFail {
		return &corerr.ProgramFail{Block: int(lba)}
	}
	return nil
}

func (u *UFS) Erase(ctx context.Context, block int) error {
	lba := uint64(block)
	args := []byte{byte(lba >> 24), byte(lba >> 16), byte(lba >> 8), byte(lba)}
	if _, err := u.exchange(ctx, protocol.CmdUFSUnmap, args); err != nil {
		return err
	}
	st, err := pollUntilReady(ctx, u.ReadStatus)
	if err != nil {
		return err
	}
	if st.EraseFail {
		return &corerr.EraseFail{Block: block}
	}
	return nil
}
