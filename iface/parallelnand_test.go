/*
 * Parallel NAND device test cases.
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
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openflash/flashcore/corerr"
	"github.com/openflash/flashcore/protocol"
)

// nandMock is a tiny in-memory parallel NAND simulator driven through
// the same exchange sequence ParallelNAND issues: command latch,
// address latch, read/write cycles, confirm.
type nandMock struct {
	pageSize, oobSize int
	mem               map[int][]byte
	writeBuf          []byte
	lastSub           byte
	col, row          int
	programFail       bool
	eraseFail         bool
}

func newNANDMock(pageSize, oobSize int) *nandMock {
	return &nandMock{pageSize: pageSize, oobSize: oobSize, mem: map[int][]byte{}}
}

func (m *nandMock) page(row int) []byte {
	p, ok := m.mem[row]
	if !ok {
		p = bytes.Repeat([]byte{0xFF}, m.pageSize+m.oobSize)
		m.mem[row] = p
	}
	return p
}

func (m *nandMock) handle(p protocol.Packet) (protocol.Packet, []byte) {
	ok := protocol.Response(p.Cmd, protocol.StatusOK, nil)
	switch p.Cmd {
	case protocol.CmdReset:
		return ok, nil
	case protocol.CmdNandReadID:
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{5, 0xEC, 0xD7, 0x10, 0x95, 0x44}), nil
	case protocol.CmdNandCmd:
		m.lastSub = p.Args[0]
		if m.lastSub == nandCmdStatus {
			raw := byte(statusReady)
			if m.programFail || m.eraseFail {
				raw |= statusFail
			}
			return protocol.Response(p.Cmd, protocol.StatusOK, []byte{raw}), nil
		}
		if m.lastSub == nandCmdProgramConfirm {
			full := make([]byte, m.pageSize+m.oobSize)
			copy(full, m.writeBuf)
			m.mem[m.row] = full
			m.writeBuf = nil
		}
		if m.lastSub == nandCmdEraseConfirm {
			m.mem[m.row] = bytes.Repeat([]byte{0xFF}, m.pageSize+m.oobSize)
		}
		return ok, nil
	case protocol.CmdNandAddr:
		m.col = int(p.Args[0]) | int(p.Args[1])<<8
		m.row = int(p.Args[2]) | int(p.Args[3])<<8 | int(p.Args[4])<<16
		return ok, nil
	case protocol.CmdNandReadPage:
		length := int(p.Args[0]) | int(p.Args[1])<<8
		total := length
		if p.Args[2] == 1 {
			total += m.oobSize
		}
		page := m.page(m.row)
		buf := make([]byte, total)
		copy(buf, page[m.col:m.col+total])
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{byte(total), byte(total >> 8)}), buf
	case protocol.CmdNandWritePage:
		m.writeBuf = append(m.writeBuf, p.Args[:]...)
		return ok, nil
	}
	return protocol.Response(p.Cmd, protocol.StatusError, nil), nil
}

func newTestNAND(mock *nandMock) *ParallelNAND {
	return &ParallelNAND{
		T:             protocol.NewLoopback(mock.handle),
		PageSize:      mock.pageSize,
		OOBSize:       mock.oobSize,
		PagesPerBlock: 64,
	}
}

func TestParallelNANDReadIDAndDetect(t *testing.T) {
	n := newTestNAND(newNANDMock(2048, 64))
	ctx := context.Background()
	id, err := n.ReadID(ctx)
	if err != nil {
		t.Fatalf("ReadID: %v", err)
	}
	if !bytes.Equal(id, []byte{0xEC, 0xD7, 0x10, 0x95, 0x44}) {
		t.Fatalf("id = % x", id)
	}
	desc, err := n.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if desc.Manufacturer != "Samsung" {
		t.Errorf("Manufacturer = %q", desc.Manufacturer)
	}
}

func TestParallelNANDProgramAndReadRoundTrip(t *testing.T) {
	mock := newNANDMock(2048, 64)
	n := newTestNAND(mock)
	ctx := context.Background()

	payload := bytes.Repeat([]byte{0xAB}, 2048)
	if err := n.Program(ctx, 0, payload); err != nil {
		t.Fatalf("Program: %v", err)
	}
	data, oob, err := n.Read(ctx, 0, 2048, true)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("readback mismatch")
	}
	if len(oob) != 64 {
		t.Errorf("oob len = %d, want 64", len(oob))
	}
}

func TestParallelNANDProgramFailSurfacesError(t *testing.T) {
	mock := newNANDMock(2048, 64)
	mock.programFail = true
	n := newTestNAND(mock)
	err := n.Program(context.Background(), 0, bytes.Repeat([]byte{1}, 2048))
	var pf *corerr.ProgramFail
	if !errors.As(err, &pf) {
		t.Fatalf("expected ProgramFail, got %v", err)
	}
}

func TestParallelNANDEraseFailSurfacesError(t *testing.T) {
	mock := newNANDMock(2048, 64)
	mock.eraseFail = true
	n := newTestNAND(mock)
	err := n.Erase(context.Background(), 0)
	var ef *corerr.EraseFail
	if !errors.As(err, &ef) {
		t.Fatalf("expected EraseFail, got %v", err)
	}
}

func TestParallelNANDReadTimesOutWhenChipNeverReady(t *testing.T) {
	mock := newNANDMock(2048, 64)
	n := newTestNAND(mock)
	// Force perpetual busy by intercepting the status response.
	busyHandler := func(p protocol.Packet) (protocol.Packet, []byte) {
		if p.Cmd == protocol.CmdNandCmd && p.Args[0] == nandCmdStatus {
			return protocol.Response(p.Cmd, protocol.StatusOK, []byte{0x00}), nil
		}
		return mock.handle(p)
	}
	n.T = protocol.NewLoopback(busyHandler)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Millisecond)
	defer cancel()
	_, _, err := n.Read(ctx, 0, 2048, false)
	if err != corerr.ErrOperationTimeout {
		t.Fatalf("err = %v, want ErrOperationTimeout", err)
	}
}

func TestParallelNANDBadBlockProbe(t *testing.T) {
	mock := newNANDMock(2048, 64)
	bad := bytes.Repeat([]byte{0xFF}, 2048+64)
	bad[2048] = 0x00
	mock.mem[0] = bad
	n := newTestNAND(mock)
	isBad, err := n.IsBadBlock(context.Background(), 0)
	if err != nil {
		t.Fatalf("IsBadBlock: %v", err)
	}
	if !isBad {
		t.Error("expected block 0 to be reported bad")
	}
}
