/*
 * Hamming code test cases.
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

package hamming

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/openflash/flashcore/corerr"
)

func sampleSector(size int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	data := make([]byte, size)
	r.Read(data)
	return data
}

func TestNoErrorRoundTrip(t *testing.T) {
	for _, size := range []int{Size256, Size512} {
		data := sampleSector(size, 1)
		ecc, err := Encode(data)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		corrected, n, err := Correct(data, ecc)
		if err != nil {
			t.Fatalf("Correct: %v", err)
		}
		if n != 0 {
			t.Errorf("size %d: corrected = %d, want 0", size, n)
		}
		if !bytes.Equal(corrected, data) {
			t.Errorf("size %d: data mutated on clean correct", size)
		}
	}
}

func TestSingleBitCorrection(t *testing.T) {
	for _, size := range []int{Size256, Size512} {
		data := sampleSector(size, 2)
		ecc, err := Encode(data)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		for _, flip := range []struct{ byteIdx, bitIdx int }{
			{0, 0}, {1, 3}, {size / 2, 7}, {size - 1, 5},
		} {
			corrupt := make([]byte, len(data))
			copy(corrupt, data)
			corrupt[flip.byteIdx] ^= 1 << uint(flip.bitIdx)

			corrected, n, err := Correct(corrupt, ecc)
			if err != nil {
				t.Fatalf("size %d flip %+v: Correct: %v", size, flip, err)
			}
			if n != 1 {
				t.Errorf("size %d flip %+v: corrected = %d, want 1", size, flip, n)
			}
			if !bytes.Equal(corrected, data) {
				t.Errorf("size %d flip %+v: correction did not restore original data", size, flip)
			}
		}
	}
}

func TestEccAreaErrorLeavesDataIntact(t *testing.T) {
	data := sampleSector(Size512, 3)
	ecc, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	ecc[0] ^= 0x01 // corrupt a single ECC bit

	corrected, n, err := Correct(data, ecc)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if n != 0 {
		t.Errorf("corrected = %d, want 0 for an ECC-area error", n)
	}
	if !bytes.Equal(corrected, data) {
		t.Errorf("data should be returned unmodified for an ECC-area error")
	}
}

func TestUncorrectableOnMultiBitError(t *testing.T) {
	data := sampleSector(Size512, 4)
	ecc, err := Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	corrupt := make([]byte, len(data))
	copy(corrupt, data)
	// One bit in each of two bytes: a double-bit error.
	corrupt[0] ^= 0x01
	corrupt[100] ^= 0x02

	_, _, err = Correct(corrupt, ecc)
	if err != corerr.ErrUncorrectable {
		t.Errorf("err = %v, want ErrUncorrectable", err)
	}
}

func TestRejectsWrongSectorSize(t *testing.T) {
	_, err := Encode(make([]byte, 300))
	if err == nil {
		t.Fatal("expected error for unsupported sector size")
	}
}
