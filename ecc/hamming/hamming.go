/*
 * Hamming error-correcting code.
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

// Package hamming implements the single-bit-correcting, double-bit-
// detecting ECC scheme used over 256- and 512-byte NAND sectors: a
// column-parity byte plus a line-parity group, in the spirit of the
// classic NAND ECC layouts without claiming bit-exact compatibility
// with any particular vendor's silicon.
package hamming

import (
	"math/bits"

	"github.com/openflash/flashcore/corerr"
)

// Sector sizes this codec accepts.
const (
	Size256 = 256
	Size512 = 512
)

// addrBits returns the number of row-address bits needed to index
// every byte of a sector of the given size, and eccLen returns the
// total ECC length in bytes: 1 column-parity byte plus the line
// parity bytes (2 for 256, 3 for 512).
func addrBits(size int) int {
	switch size {
	case Size256:
		return 8
	case Size512:
		return 9
	default:
		return 0
	}
}

func eccLen(size int) int {
	switch size {
	case Size256:
		return 3
	case Size512:
		return 4
	default:
		return 0
	}
}

// Encode computes the ECC bytes for a 256- or 512-byte sector.
func Encode(data []byte) ([]byte, error) {
	ab := addrBits(len(data))
	if ab == 0 {
		return nil, &corerr.InvalidData{Reason: "hamming: sector must be 256 or 512 bytes"}
	}
	return encode(data, ab), nil
}

func encode(data []byte, ab int) []byte {
	var colXor [8]byte // parity of each bit position across all bytes
	bitParity := make([]byte, len(data))
	for i, b := range data {
		colXor[0] ^= (b >> 0) & 1
		colXor[1] ^= (b >> 1) & 1
		colXor[2] ^= (b >> 2) & 1
		colXor[3] ^= (b >> 3) & 1
		colXor[4] ^= (b >> 4) & 1
		colXor[5] ^= (b >> 5) & 1
		colXor[6] ^= (b >> 6) & 1
		colXor[7] ^= (b >> 7) & 1
		bitParity[i] = byte(bits.OnesCount8(b) & 1)
	}

	cp0 := colXor[1] ^ colXor[3] ^ colXor[5] ^ colXor[7]
	cp0c := colXor[0] ^ colXor[2] ^ colXor[4] ^ colXor[6]
	cp1 := colXor[2] ^ colXor[3] ^ colXor[6] ^ colXor[7]
	cp1c := colXor[0] ^ colXor[1] ^ colXor[4] ^ colXor[5]
	cp2 := colXor[4] ^ colXor[5] ^ colXor[6] ^ colXor[7]
	cp2c := colXor[0] ^ colXor[1] ^ colXor[2] ^ colXor[3]

	colByte := cp0 | cp0c<<1 | cp1<<2 | cp1c<<3 | cp2<<4 | cp2c<<5

	// Row (line) parity: one complementary pair per address bit.
	rowBits := make([]byte, 2*ab)
	for k := 0; k < ab; k++ {
		var rp, rpc byte
		for j, bp := range bitParity {
			if bp == 0 {
				continue
			}
			if (j>>uint(k))&1 != 0 {
				rp ^= 1
			} else {
				rpc ^= 1
			}
		}
		rowBits[2*k] = rp
		rowBits[2*k+1] = rpc
	}

	out := make([]byte, eccLen(len(data)))
	out[0] = colByte
	for i, bit := range rowBits {
		if bit != 0 {
			out[1+i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// Correct validates data against its stored ECC, correcting a single
// bit flip if one is found. It returns the (possibly corrected) data
// and the number of bits corrected (0 or 1).
func Correct(data, ecc []byte) ([]byte, int, error) {
	ab := addrBits(len(data))
	if ab == 0 {
		return nil, 0, &corerr.InvalidData{Reason: "hamming: sector must be 256 or 512 bytes"}
	}
	if len(ecc) != eccLen(len(data)) {
		return nil, 0, &corerr.InvalidData{Reason: "hamming: ecc length mismatch"}
	}

	recomputed := encode(data, ab)
	syndrome := make([]byte, len(ecc))
	total := 0
	for i := range ecc {
		syndrome[i] = ecc[i] ^ recomputed[i]
		total += bits.OnesCount8(syndrome[i])
	}

	pairs := ab + 3 // 3 column-parity pairs plus one per address bit
	if total == 0 {
		return data, 0, nil
	}
	if total == 1 {
		// The mismatch lives entirely in the stored ECC bytes; data is intact.
		return data, 0, nil
	}
	if total != pairs {
		return nil, 0, corerr.ErrUncorrectable
	}

	// Extract the column bit index and verify each pair is a proper
	// complementary disagreement (exactly one of the two set).
	colBits := syndrome[0]
	cp0, cp0c := colBits&1, (colBits>>1)&1
	cp1, cp1c := (colBits>>2)&1, (colBits>>3)&1
	cp2, cp2c := (colBits>>4)&1, (colBits>>5)&1
	if cp0 == cp0c || cp1 == cp1c || cp2 == cp2c {
		return nil, 0, corerr.ErrUncorrectable
	}
	bitIdx := int(cp0 | cp1<<1 | cp2<<2)

	byteIdx := 0
	for k := 0; k < ab; k++ {
		i := 1 + k*2/8
		shift := uint((k * 2) % 8)
		rp := (syndrome[i] >> shift) & 1
		rpc := (syndrome[i] >> (shift + 1)) & 1
		if rp == rpc {
			return nil, 0, corerr.ErrUncorrectable
		}
		if rp != 0 {
			byteIdx |= 1 << uint(k)
		}
	}
	if byteIdx >= len(data) {
		return nil, 0, corerr.ErrUncorrectable
	}

	corrected := make([]byte, len(data))
	copy(corrected, data)
	corrected[byteIdx] ^= 1 << uint(bitIdx)
	return corrected, 1, nil
}
