/*
 * UFS device test cases.
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
	"testing"

	"github.com/openflash/flashcore/protocol"
)

type ufsMock struct {
	mem map[uint32][]byte
}

func newUFSMock() *ufsMock { return &ufsMock{mem: map[uint32][]byte{}} }

func (m *ufsMock) handle(p protocol.Packet) (protocol.Packet, []byte) {
	ok := protocol.Response(p.Cmd, protocol.StatusOK, nil)
	switch p.Cmd {
	case protocol.CmdUFSInit:
		return ok, nil
	case protocol.CmdUFSInquiry:
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{2, 0x01, 0x01}), nil
	case protocol.CmdUFSTestUnitReady:
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{protocol.UFSStatusReady}), nil
	case protocol.CmdUFSRead10:
		lba := uint32(p.Args[0])<<24 | uint32(p.Args[1])<<16 | uint32(p.Args[2])<<8 | uint32(p.Args[3])
		length := int(p.Args[4]) | int(p.Args[5])<<8
		buf := make([]byte, length)
		if v, ok := m.mem[lba]; ok {
			copy(buf, v)
		} else {
			for i := range buf {
				buf[i] = 0xFF
			}
		}
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{byte(length), byte(length >> 8)}), buf
	case protocol.CmdUFSWrite10:
		lba := uint32(p.Args[0])<<24 | uint32(p.Args[1])<<16 | uint32(p.Args[2])<<8 | uint32(p.Args[3])
		cp := make([]byte, len(p.Args[4:]))
		copy(cp, p.Args[4:])
		m.mem[lba] = cp
		return ok, nil
	case protocol.CmdUFSUnmap:
		lba := uint32(p.Args[0])<<24 | uint32(p.Args[1])<<16 | uint32(p.Args[2])<<8 | uint32(p.Args[3])
		delete(m.mem, lba)
		return ok, nil
	}
	return protocol.Response(p.Cmd, protocol.StatusError, nil), nil
}

func TestUFSDetectAndReadWrite(t *testing.T) {
	mock := newUFSMock()
	u := &UFS{T: protocol.NewLoopback(mock.handle)}
	ctx := context.Background()

	desc, err := u.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if desc.Manufacturer != "Toshiba/Kioxia" {
		t.Errorf("Manufacturer = %q", desc.Manufacturer)
	}

	payload := bytes.Repeat([]byte{0x11}, 59)
	if err := u.Program(ctx, 0, payload); err != nil {
		t.Fatalf("Program: %v", err)
	}
	data, _, err := u.Read(ctx, 0, 59, false)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("readback mismatch")
	}

	if err := u.Erase(ctx, 0); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	data, _, _ = u.Read(ctx, 0, 59, false)
	if !bytes.Equal(data, bytes.Repeat([]byte{0xFF}, 59)) {
		t.Error("expected unmapped LBA to read back 0xFF")
	}
}
