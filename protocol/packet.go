/*
 * Wire packet framing.
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

// Package protocol implements the fixed 64-byte host/device wire
// frame and its command taxonomy: one command byte followed by 63
// argument bytes, echoed back with a status byte on response.
package protocol

import (
	"fmt"

	"github.com/openflash/flashcore/corerr"
)

// Size is the fixed length of every packet on the wire.
const Size = 64

// ArgLen is the number of argument bytes following the command byte.
const ArgLen = Size - 1

// Command byte ranges, disjoint per family.
const (
	RangeGeneralLo     = 0x01
	RangeGeneralHi     = 0x0F
	RangeParallelLo    = 0x10
	RangeParallelHi    = 0x1F
	RangeSPINANDLo     = 0x20
	RangeSPINANDHi     = 0x3F
	RangeEMMCLo        = 0x40
	RangeEMMCHi        = 0x5F
	RangeSPINORLo      = 0x60
	RangeSPINORHi      = 0x7F
	RangeUFSLo         = 0x80
	RangeUFSHi         = 0x9F
	RangeWriteOpsLo    = 0xA0
	RangeWriteOpsHi    = 0xBF
	RangeHWExpansionLo = 0xE0
	RangeHWExpansionHi = 0xEF
)

// General family opcodes.
const (
	CmdPing         byte = 0x01
	CmdBusConfig    byte = 0x02
	CmdReset        byte = 0x08
	CmdSetInterface byte = 0x09
)

// Parallel NAND family opcodes.
const (
	CmdNandCmd       byte = 0x10
	CmdNandAddr      byte = 0x11
	CmdNandReadPage  byte = 0x12
	CmdNandWritePage byte = 0x13
	CmdNandReadID    byte = 0x14
	CmdNandBlockErase byte = 0x15
)

// SPI NAND family opcodes.
const (
	CmdSPINANDReadID         byte = 0x20
	CmdSPINANDWriteEnable    byte = 0x21
	CmdSPINANDGetFeature     byte = 0x22
	CmdSPINANDSetFeature     byte = 0x23
	CmdSPINANDPageReadCache  byte = 0x24
	CmdSPINANDPageRead       byte = 0x25
	CmdSPINANDProgramLoad    byte = 0x28
	CmdSPINANDProgramExecute byte = 0x29
	CmdSPINANDBlockErase     byte = 0x2A
)

// SPI NAND feature-register addresses, passed as the first argument
// byte of CmdSPINANDGetFeature/CmdSPINANDSetFeature.
const (
	FeatureAddrProtection byte = 0xA0
	FeatureAddrFeature    byte = 0xB0
	FeatureAddrStatus     byte = 0xC0
	FeatureAddrDieSelect  byte = 0xD0
)

// Status-register (FeatureAddrStatus) bits.
const (
	SPINANDStatusOIP    byte = 1 << 0
	SPINANDStatusWEL    byte = 1 << 1
	SPINANDStatusEFail  byte = 1 << 2
	SPINANDStatusPFail  byte = 1 << 3
	SPINANDStatusECCLo  byte = 1 << 4
	SPINANDStatusECCHi  byte = 1 << 5
)

// Feature-register (FeatureAddrFeature) bits.
const (
	SPINANDFeatureQE    byte = 1 << 0
	SPINANDFeatureECCEn byte = 1 << 4
)

// SPI NOR family opcodes.
const (
	CmdSPINORReadJEDECID byte = 0x60
	CmdSPINORWriteEnable byte = 0x61
	CmdSPINORReadStatus  byte = 0x62
	CmdSPINORReadData    byte = 0x63
	CmdSPINORSectorErase byte = 0x64
	CmdSPINORPageProgram byte = 0x66
	CmdSPINORChipErase   byte = 0x6A
)

// SPI NOR status-register bit 0 (WIP).
const SPINORStatusWIP byte = 1 << 0

// eMMC family opcodes.
const (
	CmdEMMCReset     byte = 0x40
	CmdEMMCSendCID   byte = 0x41
	CmdEMMCReadBlock byte = 0x42
	CmdEMMCWriteBlock byte = 0x43
	CmdEMMCErase     byte = 0x44
	CmdEMMCSendStatus byte = 0x45
)

// eMMC R1 status-register bits used here.
const (
	EMMCStatusReady byte = 1 << 0
	EMMCStatusError byte = 1 << 1
)

// UFS family opcodes, modeled on the SCSI command set UFS tunnels.
const (
	CmdUFSInit     byte = 0x80
	CmdUFSInquiry  byte = 0x81
	CmdUFSRead10   byte = 0x82
	CmdUFSWrite10  byte = 0x83
	CmdUFSUnmap    byte = 0x84
	CmdUFSTestUnitReady byte = 0x85
)

// UFS test-unit-ready response bits.
const (
	UFSStatusReady byte = 1 << 0
	UFSStatusError byte = 1 << 1
)

// Write-ops/scripting family opcodes.
const (
	CmdCloneStart byte = 0xA9
)

// legacyAliases maps the 8-opcode prototype taxonomy
// (protocol.rs: Ping=0x01..Reset=0x08) onto its modern equivalent.
// Ping, BusConfig and Reset are identity aliases; NandCmd..ReadId
// fold into the 0x10-0x1F parallel-NAND range.
var legacyAliases = map[byte]byte{
	0x03: CmdNandCmd,
	0x04: CmdNandAddr,
	0x05: CmdNandReadPage,
	0x06: CmdNandWritePage,
	0x07: CmdNandReadID,
}

// Status byte values used in response packets.
const (
	StatusOK      byte = 0x00
	StatusError   byte = 0x01
	StatusUnknown byte = 0xFF
)

// Packet is the in-memory representation of one 64-byte frame.
type Packet struct {
	Cmd  byte
	Args [ArgLen]byte
}

// New builds a packet from a command byte and argument bytes,
// truncating or zero-padding args to ArgLen.
func New(cmd byte, args []byte) Packet {
	p := Packet{Cmd: cmd}
	n := len(args)
	if n > ArgLen {
		n = ArgLen
	}
	copy(p.Args[:n], args[:n])
	return p
}

// InRange reports whether cmd falls within one of the taxonomy's
// disjoint command families. The 0xC0-0xDF span between write-ops
// and hardware-expansion is reserved and decodes as unknown.
func InRange(cmd byte) bool {
	switch {
	case cmd >= RangeGeneralLo && cmd <= RangeGeneralHi:
	case cmd >= RangeParallelLo && cmd <= RangeParallelHi:
	case cmd >= RangeSPINANDLo && cmd <= RangeSPINANDHi:
	case cmd >= RangeEMMCLo && cmd <= RangeEMMCHi:
	case cmd >= RangeSPINORLo && cmd <= RangeSPINORHi:
	case cmd >= RangeUFSLo && cmd <= RangeUFSHi:
	case cmd >= RangeWriteOpsLo && cmd <= RangeWriteOpsHi:
	case cmd >= RangeHWExpansionLo && cmd <= RangeHWExpansionHi:
	default:
		return false
	}
	return true
}

// Canonicalize resolves a legacy 0x03-0x07 alias to its modern
// 0x10-0x1F equivalent, leaving every other command byte unchanged.
func Canonicalize(cmd byte) byte {
	if c, ok := legacyAliases[cmd]; ok {
		return c
	}
	return cmd
}

// Encode renders the packet as exactly Size bytes.
func (p Packet) Encode() [Size]byte {
	var out [Size]byte
	out[0] = p.Cmd
	copy(out[1:], p.Args[:])
	return out
}

// Decode parses exactly Size bytes into a Packet, resolving legacy
// command aliases to their canonical form. A command byte outside
// the taxonomy fails with ErrUnknownCommand.
func Decode(buf []byte) (Packet, error) {
	if len(buf) != Size {
		return Packet{}, fmt.Errorf("protocol: decode: %w: got %d bytes, want %d", corerr.ErrMalformedPacket, len(buf), Size)
	}
	cmd := Canonicalize(buf[0])
	if !InRange(cmd) {
		return Packet{}, fmt.Errorf("protocol: decode: %w: 0x%02x", corerr.ErrUnknownCommand, buf[0])
	}
	p := Packet{Cmd: cmd}
	copy(p.Args[:], buf[1:])
	return p, nil
}

// Response builds a response packet echoing cmd with the given
// status and payload.
func Response(cmd, status byte, payload []byte) Packet {
	args := make([]byte, 0, ArgLen)
	args = append(args, status)
	args = append(args, payload...)
	return New(cmd, args)
}
