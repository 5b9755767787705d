/*
 * eMMC device test cases.
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

type emmcMock struct {
	mem map[uint32][]byte
}

func newEMMCMock() *emmcMock { return &emmcMock{mem: map[uint32][]byte{}} }

func (m *emmcMock) handle(p protocol.Packet) (protocol.Packet, []byte) {
	ok := protocol.Response(p.Cmd, protocol.StatusOK, nil)
	switch p.Cmd {
	case protocol.CmdEMMCReset:
		return ok, nil
	case protocol.CmdEMMCSendCID:
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{2, 0x15, 0x01}), nil
	case protocol.CmdEMMCSendStatus:
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{protocol.EMMCStatusReady}), nil
	case protocol.CmdEMMCReadBlock:
		block := uint32(p.Args[0]) | uint32(p.Args[1])<<8 | uint32(p.Args[2])<<16 | uint32(p.Args[3])<<24
		length := int(p.Args[4]) | int(p.Args[5])<<8
		buf := make([]byte, length)
		if v, ok := m.mem[block]; ok {
			copy(buf, v)
		} else {
			for i := range buf {
				buf[i] = 0xFF
			}
		}
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{byte(length), byte(length >> 8)}), buf
	case protocol.CmdEMMCWriteBlock:
		block := uint32(p.Args[0]) | uint32(p.Args[1])<<8 | uint32(p.Args[2])<<16 | uint32(p.Args[3])<<24
		cp := make([]byte, len(p.Args[4:]))
		copy(cp, p.Args[4:])
		m.mem[block] = cp
		return ok, nil
	case protocol.CmdEMMCErase:
		block := uint32(p.Args[0]) | uint32(p.Args[1])<<8 | uint32(p.Args[2])<<16 | uint32(p.Args[3])<<24
		delete(m.mem, block)
		return ok, nil
	}
	return protocol.Response(p.Cmd, protocol.StatusError, nil), nil
}

func TestEMMCDetectAndReadWrite(t *testing.T) {
	mock := newEMMCMock()
	e := &EMMC{T: protocol.NewLoopback(mock.handle)}
	ctx := context.Background()

	desc, err := e.Detect(ctx)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if desc.Manufacturer != "Samsung" {
		t.Errorf("Manufacturer = %q", desc.Manufacturer)
	}

	payload := bytes.Repeat([]byte{0x7E}, 59)
	if err := e.Program(ctx, 0, payload); err != nil {
		t.Fatalf("Program: %v", err)
	}
	data, _, err := e.Read(ctx, 0, 59, false)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("readback mismatch")
	}
}
