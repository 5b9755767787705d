/*
 * SPI NAND device test cases.
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

	"github.com/openflash/flashcore/corerr"
	"github.com/openflash/flashcore/protocol"
)

type spinandMock struct {
	pageSize, oobSize int
	mem               map[uint64][]byte
	features          map[byte]byte
	eccStatus         byte
	programFail       bool
	eraseFail         bool
}

func newSPINANDMock(pageSize, oobSize int) *spinandMock {
	return &spinandMock{
		pageSize: pageSize, oobSize: oobSize,
		mem:      map[uint64][]byte{},
		features: map[byte]byte{},
	}
}

func (m *spinandMock) handle(p protocol.Packet) (protocol.Packet, []byte) {
	ok := protocol.Response(p.Cmd, protocol.StatusOK, nil)
	switch p.Cmd {
	case protocol.CmdReset, protocol.CmdSPINANDWriteEnable:
		return ok, nil
	case protocol.CmdSPINANDReadID:
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{2, 0xC8, 0xD1}), nil
	case protocol.CmdSPINANDGetFeature:
		addr := p.Args[0]
		if addr == protocol.FeatureAddrStatus {
			raw := byte(0) // ready
			if m.programFail {
				raw |= protocol.SPINANDStatusPFail
			}
			if m.eraseFail {
				raw |= protocol.SPINANDStatusEFail
			}
			raw |= m.eccStatus << 4
			return protocol.Response(p.Cmd, protocol.StatusOK, []byte{raw}), nil
		}
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{m.features[addr]}), nil
	case protocol.CmdSPINANDSetFeature:
		m.features[p.Args[0]] = p.Args[1]
		return ok, nil
	case protocol.CmdSPINANDPageRead:
		return ok, nil
	case protocol.CmdSPINANDPageReadCache:
		offset := int(p.Args[0]) | int(p.Args[1])<<8
		length := int(p.Args[2]) | int(p.Args[3])<<8
		includeOOB := p.Args[4] == 1
		total := length
		if includeOOB {
			total += m.oobSize
		}
		page := m.mem[0]
		if page == nil {
			page = bytes.Repeat([]byte{0xFF}, m.pageSize+m.oobSize)
		}
		buf := make([]byte, total)
		copy(buf, page[offset:offset+total])
		return protocol.Response(p.Cmd, protocol.StatusOK, []byte{byte(total), byte(total >> 8)}), buf
	case protocol.CmdSPINANDProgramLoad:
		page := m.mem[0]
		if page == nil {
			page = bytes.Repeat([]byte{0xFF}, m.pageSize+m.oobSize)
		}
		offset := int(p.Args[0]) | int(p.Args[1])<<8
		copy(page[offset:], p.Args[2:])
		m.mem[0] = page
		return ok, nil
	case protocol.CmdSPINANDProgramExecute, protocol.CmdSPINANDBlockErase:
		return ok, nil
	}
	return protocol.Response(p.Cmd, protocol.StatusError, nil), nil
}

func newTestSPINAND(mock *spinandMock) *SPINAND {
	return &SPINAND{
		T:        protocol.NewLoopback(mock.handle),
		PageSize: mock.pageSize,
		OOBSize:  mock.oobSize,
	}
}

func TestSPINANDDetect(t *testing.T) {
	s := newTestSPINAND(newSPINANDMock(2048, 64))
	desc, err := s.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if desc.Manufacturer != "GigaDevice" {
		t.Errorf("Manufacturer = %q", desc.Manufacturer)
	}
}

func TestSPINANDProgramReadRoundTrip(t *testing.T) {
	mock := newSPINANDMock(2048, 64)
	s := newTestSPINAND(mock)
	ctx := context.Background()

	payload := bytes.Repeat([]byte{0x5A}, 2048)
	if err := s.Program(ctx, 0, payload); err != nil {
		t.Fatalf("Program: %v", err)
	}
	data, _, err := s.Read(ctx, 0, 2048, false)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("readback mismatch")
	}
}

func TestSPINANDECCStatusDecoding(t *testing.T) {
	cases := []struct {
		raw  byte
		want ECCStatus
	}{
		{0, ECCNoError},
		{1, ECCCorrectedLow},
		{2, ECCCorrectedHigh},
		{3, ECCUncorrectable},
	}
	for _, c := range cases {
		if got := decodeECCStatus(c.raw << 4); got != c.want {
			t.Errorf("decodeECCStatus(%#x) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestSPINANDProgramFailSurfacesError(t *testing.T) {
	mock := newSPINANDMock(2048, 64)
	mock.programFail = true
	s := newTestSPINAND(mock)
	err := s.Program(context.Background(), 0, bytes.Repeat([]byte{1}, 2048))
	var pf *corerr.ProgramFail
	if !errors.As(err, &pf) {
		t.Fatalf("expected ProgramFail, got %v", err)
	}
}

func TestSPINANDEraseFailSurfacesError(t *testing.T) {
	mock := newSPINANDMock(2048, 64)
	mock.eraseFail = true
	s := newTestSPINAND(mock)
	err := s.Erase(context.Background(), 0)
	var ef *corerr.EraseFail
	if !errors.As(err, &ef) {
		t.Fatalf("expected EraseFail, got %v", err)
	}
}
