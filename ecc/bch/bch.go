/*
 * BCH error-correcting code.
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

// Package bch implements a binary BCH(sector, t) codec over the
// GF(2^13) field defined in package gf: generator construction via
// minimal polynomials and cyclotomic cosets, systematic encoding by
// polynomial division, and decoding via syndrome computation,
// Berlekamp-Massey, and Chien search.
package bch

import (
	"github.com/openflash/flashcore/corerr"
	"github.com/openflash/flashcore/gf"
)

// Codec encodes and corrects a fixed sector size with a fixed
// error-correction capacity t. Construction is O(t^2) and is meant
// to happen once per (sector, t) pair and be reused.
type Codec struct {
	field     *gf.Field
	sector    int // sector size in bytes
	t         int
	generator []int // MSB-first bits of g(x), leading 1, length deg+1
	degree    int   // deg(g), also the ECC length in bits
	eccBytes  int
}

// New builds a codec for the given sector size (bytes) and
// error-correction capacity t (bits correctable per sector).
func New(sectorSize, t int) (*Codec, error) {
	if sectorSize <= 0 || t <= 0 {
		return nil, &corerr.InvalidData{Reason: "bch: sector size and t must be positive"}
	}
	f := gf.New()
	if 2*t >= gf.N {
		return nil, &corerr.InvalidData{Reason: "bch: t too large for this field"}
	}
	g := buildGenerator(f, t)
	degree := len(g) - 1

	genHL := make([]int, len(g))
	for i, c := range g {
		genHL[len(g)-1-i] = c
	}

	return &Codec{
		field:     f,
		sector:    sectorSize,
		t:         t,
		generator: genHL,
		degree:    degree,
		eccBytes:  (degree + 7) / 8,
	}, nil
}

// EccLen returns the ECC length in bytes for this codec's parameters.
func (c *Codec) EccLen() int {
	return c.eccBytes
}

// cyclotomicCoset returns the distinct conjugates {j, 2j, 4j, ...} mod n.
func cyclotomicCoset(j, n int) []int {
	seen := map[int]bool{}
	var coset []int
	cur := j % n
	for !seen[cur] {
		seen[cur] = true
		coset = append(coset, cur)
		cur = (cur * 2) % n
	}
	return coset
}

// polyMul multiplies two field-coefficient polynomials (low-to-high)
// using field multiplication and XOR accumulation (field addition is
// XOR in characteristic 2 regardless of subfield membership).
func polyMul(f *gf.Field, a, b []int) []int {
	out := make([]int, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			if bv == 0 {
				continue
			}
			out[i+j] ^= f.Mul(av, bv)
		}
	}
	return out
}

// minimalPoly builds the minimal polynomial of alpha^j over GF(2) as
// a product of (x - alpha^c) for c in the cyclotomic coset of j; its
// coefficients, once the full coset is included, are fixed points of
// the Frobenius automorphism and therefore lie in {0, 1}.
func minimalPoly(f *gf.Field, j, n int) (poly []int, coset []int) {
	coset = cyclotomicCoset(j, n)
	poly = []int{1}
	for _, c := range coset {
		factor := []int{f.Exp(c), 1} // x + alpha^c, char 2 so -alpha^c == alpha^c
		poly = polyMul(f, poly, factor)
	}
	return poly, coset
}

// buildGenerator returns g(x) = lcm of minimal polynomials of
// alpha^1..alpha^2t, as low-to-high field coefficients that are
// guaranteed (by construction) to be 0 or 1.
func buildGenerator(f *gf.Field, t int) []int {
	n := gf.N
	visited := make(map[int]bool)
	g := []int{1}
	for i := 1; i <= 2*t; i++ {
		if visited[i] {
			continue
		}
		mp, coset := minimalPoly(f, i, n)
		for _, c := range coset {
			visited[c] = true
		}
		g = polyMul(f, g, mp)
	}
	return g
}

func bytesToBitsMSB(data []byte) []int {
	bits := make([]int, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, int((b>>uint(i))&1))
		}
	}
	return bits
}

func bitsToBytesMSB(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// divRemainder performs GF(2) polynomial long division of dividend
// by gen (MSB-first, leading 1) and returns the remainder, of length
// len(gen)-1 bits.
func divRemainder(dividend, gen []int) []int {
	work := append([]int(nil), dividend...)
	degG := len(gen) - 1
	for i := 0; i <= len(work)-len(gen); i++ {
		if work[i] == 0 {
			continue
		}
		for j, gbit := range gen {
			work[i+j] ^= gbit
		}
	}
	return work[len(work)-degG:]
}

// Encode returns the systematic ECC bytes for a sector of this
// codec's configured size.
func (c *Codec) Encode(data []byte) ([]byte, error) {
	if len(data) != c.sector {
		return nil, &corerr.DataSizeMismatch{Expected: c.sector, Actual: len(data)}
	}
	dataBits := bytesToBitsMSB(data)
	dividend := append(dataBits, make([]int, c.degree)...)
	remainder := divRemainder(dividend, c.generator)
	return bitsToBytesMSB(remainder), nil
}

// horner evaluates a bit polynomial (MSB-first, highest degree first)
// at a field point using Horner's method.
func horner(f *gf.Field, bits []int, point int) int {
	acc := 0
	for _, b := range bits {
		acc = f.Mul(acc, point)
		if b != 0 {
			acc ^= 1
		}
	}
	return acc
}

// berlekampMassey finds the error-locator polynomial for syndromes
// S[0..2t-1] (representing S_1..S_2t), returning its low-to-high
// field coefficients.
func berlekampMassey(f *gf.Field, s []int) []int {
	n2t := len(s)
	c := make([]int, n2t+1)
	b := make([]int, n2t+1)
	c[0], b[0] = 1, 1
	l, m, bCoeff := 0, 1, 1

	for n := 0; n < n2t; n++ {
		delta := s[n]
		for i := 1; i <= l; i++ {
			delta ^= f.Mul(c[i], s[n-i])
		}
		if delta == 0 {
			m++
			continue
		}
		t := append([]int(nil), c...)
		coef := f.Div(delta, bCoeff)
		for i := range b {
			if i+m < len(c) {
				c[i+m] ^= f.Mul(coef, b[i])
			}
		}
		if 2*l <= n {
			l = n + 1 - l
			b = t
			bCoeff = delta
			m = 1
		} else {
			m++
		}
	}
	return c[:l+1]
}

// Correct validates a codeword (data ++ ecc) and returns the
// corrected data bytes along with the number of bits corrected.
func (c *Codec) Correct(data, ecc []byte) ([]byte, int, error) {
	if len(data) != c.sector {
		return nil, 0, &corerr.DataSizeMismatch{Expected: c.sector, Actual: len(data)}
	}
	if len(ecc) != c.eccBytes {
		return nil, 0, &corerr.InvalidData{Reason: "bch: ecc length mismatch"}
	}

	dataBits := bytesToBitsMSB(data)
	eccBits := bytesToBitsMSB(ecc)[:c.degree]
	codeword := append(append([]int(nil), dataBits...), eccBits...)
	n := len(codeword)

	syndromes := make([]int, 2*c.t)
	allZero := true
	for i := 1; i <= 2*c.t; i++ {
		syndromes[i-1] = horner(c.field, codeword, c.field.Exp(i))
		if syndromes[i-1] != 0 {
			allZero = false
		}
	}
	if allZero {
		return data, 0, nil
	}

	sigma := berlekampMassey(c.field, syndromes)
	l := len(sigma) - 1
	if l > c.t || l == 0 {
		return nil, 0, corerr.ErrUncorrectable
	}

	var locations []int
	for e := 0; e < n; e++ {
		val := 0
		for i, coeff := range sigma {
			if coeff == 0 {
				continue
			}
			val ^= c.field.Mul(coeff, c.field.Exp(-e*i))
		}
		if val == 0 {
			locations = append(locations, e)
		}
	}
	if len(locations) != l {
		return nil, 0, corerr.ErrUncorrectable
	}

	corrected := append([]int(nil), codeword...)
	for _, e := range locations {
		j := n - 1 - e
		corrected[j] ^= 1
	}
	correctedData := bitsToBytesMSB(corrected[:len(dataBits)])
	return correctedData, len(locations), nil
}
