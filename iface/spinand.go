/*
 * SPI NAND device state machine.
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

// SPINAND drives a SPI NAND chip through the GET_FEATURE/SET_FEATURE
// status-polling protocol: every operation that touches the array
// (page read, program, erase) is kicked off with one exchange and
// then polled via the status feature register's OIP bit rather than
// a wired busy line.
type SPINAND struct {
	T             protocol.Transport
	PageSize      int
	OOBSize       int
	PagesPerBlock int
	Timing        chipdb.Timing
	QuadMode      bool
	InternalECC   bool
	Trace         *tracer.Tracer
	Log           *slog.Logger
}

func (s *SPINAND) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return corelog.Discard()
}

func (s *SPINAND) exchange(ctx context.Context, cmd byte, args []byte) (protocol.Packet, error) {
	s.Trace.Tracef("spinand", tracer.CMD, "cmd=0x%02x args=% x", cmd, args)
	resp, err := s.T.Exchange(ctx, protocol.New(cmd, args))
	if err != nil {
		s.logger().Debug("exchange failed", "cmd", cmd, "err", err)
		return protocol.Packet{}, err
	}
	if resp.Args[0] == protocol.StatusError {
		return resp, fmt.Errorf("iface: spinand: %w", corerr.ErrIO)
	}
	return resp, nil
}

func (s *SPINAND) getFeature(ctx context.Context, addr byte) (byte, error) {
	resp, err := s.exchange(ctx, protocol.CmdSPINANDGetFeature, []byte{addr})
	if err != nil {
		return 0, err
	}
	return resp.Args[1], nil
}

func (s *SPINAND) setFeature(ctx context.Context, addr, value byte) error {
	_, err := s.exchange(ctx, protocol.CmdSPINANDSetFeature, []byte{addr, value})
	return err
}

func decodeECCStatus(raw byte) ECCStatus {
	switch (raw >> 4) & 0x3 {
	case 0:
		return ECCNoError
	case 1:
		return ECCCorrectedLow
	case 2:
		return ECCCorrectedHigh
	default:
		return ECCUncorrectable
	}
}

func (s *SPINAND) ReadStatus(ctx context.Context) (Status, error) {
	raw, err := s.getFeature(ctx, protocol.FeatureAddrStatus)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Busy:        raw&protocol.SPINANDStatusOIP != 0,
		ProgramFail: raw&protocol.SPINANDStatusPFail != 0,
		EraseFail:   raw&protocol.SPINANDStatusEFail != 0,
		ECC:         decodeECCStatus(raw),
	}, nil
}

// waitOIP polls the status feature register's OIP bit. A timeout is
// surfaced directly, never retried here.
func (s *SPINAND) waitOIP(ctx context.Context) (Status, error) {
	for {
		st, err := s.ReadStatus(ctx)
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

func (s *SPINAND) Reset(ctx context.Context) error {
	_, err := s.exchange(ctx, protocol.CmdReset, nil)
	return err
}

func (s *SPINAND) ReadID(ctx context.Context) ([]byte, error) {
	resp, err := s.exchange(ctx, protocol.CmdSPINANDReadID, nil)
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

func (s *SPINAND) Detect(ctx context.Context) (chipdb.ChipDescriptor, error) {
	id, err := s.ReadID(ctx)
	if err != nil {
		return chipdb.ChipDescriptor{}, err
	}
	desc, ok := chipdb.ResolveSPINAND(id)
	if !ok {
		return chipdb.ChipDescriptor{}, fmt.Errorf("iface: spinand: id % x: %w", id, corerr.ErrUnknownChip)
	}
	return desc, nil
}

// EnableQuadMode sets the feature register's QE bit, used when the
// bridge negotiates 4-wire transfers.
func (s *SPINAND) EnableQuadMode(ctx context.Context) error {
	return s.setFeature(ctx, protocol.FeatureAddrFeature, protocol.SPINANDFeatureQE)
}

func rowBytes3(page uint64) [3]byte {
	return [3]byte{byte(page), byte(page >> 8), byte(page >> 16)}
}

func (s *SPINAND) Read(ctx context.Context, addr uint64, length int, includeOOB bool) ([]byte, []byte, error) {
	page := addr / uint64(s.PageSize)
	offset := addr % uint64(s.PageSize)
	row := rowBytes3(page)

	if _, err := s.exchange(ctx, protocol.CmdSPINANDPageRead, row[:]); err != nil {
		return nil, nil, err
	}
	if _, err := s.waitOIP(ctx); err != nil {
		return nil, nil, err
	}

	oobFlag := byte(0)
	if includeOOB {
		oobFlag = 1
	}
	args := []byte{byte(offset), byte(offset >> 8), byte(length), byte(length >> 8), oobFlag}
	resp, err := s.exchange(ctx, protocol.CmdSPINANDPageReadCache, args)
	if err != nil {
		return nil, nil, err
	}
	total := int(resp.Args[1]) | int(resp.Args[2])<<8
	buf := make([]byte, total)
	if _, err := io.ReadFull(s.T.BulkReader(ctx), buf); err != nil {
		return nil, nil, fmt.Errorf("iface: spinand: read bulk: %w", err)
	}
	data := buf[:length]
	var oob []byte
	if includeOOB {
		oob = buf[length:]
	}
	return data, oob, nil
}

func (s *SPINAND) Program(ctx context.Context, addr uint64, data []byte) error {
	page := addr / uint64(s.PageSize)
	offset := addr % uint64(s.PageSize)
	row := rowBytes3(page)

	if err := s.setFeature(ctx, protocol.FeatureAddrProtection, 0); err != nil {
		return err
	}
	if _, err := s.exchange(ctx, protocol.CmdSPINANDWriteEnable, nil); err != nil {
		return err
	}
	for off := 0; off < len(data); off += protocol.ArgLen - 2 {
		end := off + (protocol.ArgLen - 2)
		if end > len(data) {
			end = len(data)
		}
		chunkOffset := offset + uint64(off)
		args := append([]byte{byte(chunkOffset), byte(chunkOffset >> 8)}, data[off:end]...)
		if _, err := s.exchange(ctx, protocol.CmdSPINANDProgramLoad, args); err != nil {
			return err
		}
	}
	if _, err := s.exchange(ctx, protocol.CmdSPINANDProgramExecute, row[:]); err != nil {
		return err
	}
	st, err := s.waitOIP(ctx)
	if err != nil {
		return err
	}
	if st.ProgramFail {
		blk, pg := 0, int(page)
		if s.PagesPerBlock > 0 {
			blk, pg = int(page)/s.PagesPerBlock, int(page)%s.PagesPerBlock
		}
		return &corerr.ProgramFail{Block: blk, Page: pg}
	}
	return nil
}

func (s *SPINAND) Erase(ctx context.Context, block int) error {
	startPage := uint64(block)
	if s.PagesPerBlock > 0 {
		startPage = uint64(block) * uint64(s.PagesPerBlock)
	}
	row := rowBytes3(startPage)
	if _, err := s.exchange(ctx, protocol.CmdSPINANDWriteEnable, nil); err != nil {
		return err
	}
	if _, err := s.exchange(ctx, protocol.CmdSPINANDBlockErase, row[:]); err != nil {
		return err
	}
	st, err := s.waitOIP(ctx)
	if err != nil {
		return err
	}
	if st.EraseFail {
		return &corerr.EraseFail{Block: block}
	}
	return nil
}
