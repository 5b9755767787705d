/*
 * Galois field arithmetic.
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

// Package gf implements GF(2^13) arithmetic over the primitive
// polynomial x^13 + x^4 + x^3 + x + 1 (0x201B), the field the BCH
// codec in ecc/bch builds its generator polynomial over.
package gf

// M is the field's extension degree; the field has 2^M elements.
const M = 13

// N is the multiplicative order of the field, 2^M - 1. Exp and log
// tables are indexed modulo N.
const N = (1 << M) - 1

// Primitive is the primitive polynomial x^13+x^4+x^3+x+1 used to
// build the field, with the leading x^13 term implicit (as is
// conventional for a degree-M polynomial represented in M+1 bits
// truncated to the low M bits during reduction).
const Primitive = 0x201B

// Field holds the exp/log tables for GF(2^M) under Primitive.
type Field struct {
	exp []int // exp[i] = alpha^i, for i in [0, 2N)
	log []int // log[exp[i] mod N] = i mod N, log[0] is unused (-1)
}

// New builds the field's exp and log tables. Construction is O(N)
// and is meant to happen once; share the result by reference.
func New() *Field {
	f := &Field{
		exp: make([]int, 2*N+1),
		log: make([]int, N+1),
	}
	f.log[0] = -1

	reg := 1
	for i := 0; i < N; i++ {
		f.exp[i] = reg
		f.log[reg] = i
		reg <<= 1
		if reg&(1<<M) != 0 {
			reg ^= Primitive
		}
	}
	// Double the exp table so Exp(i) is branch-free for i in [0, 2N).
	for i := N; i < 2*N; i++ {
		f.exp[i] = f.exp[i-N]
	}
	f.exp[2*N] = f.exp[0]
	return f
}

// Exp returns alpha^i, where i may be any integer, negative included;
// the result wraps modulo N since alpha^N = alpha^0 = 1.
func (f *Field) Exp(i int) int {
	if i < 0 {
		i += N * ((-i)/N + 1)
	}
	return f.exp[i%N]
}

// Log returns the discrete log of a nonzero field element. Calling
// Log(0) is a programmer error; it returns -1 for diagnostics rather
// than panicking, matching the "zero is absorbing" contract: callers
// that divide by zero get garbage, not a crash, per spec.
func (f *Field) Log(a int) int {
	if a == 0 {
		return -1
	}
	return f.log[a]
}

// Mul multiplies two field elements. Zero is absorbing.
func (f *Field) Mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.exp[(f.log[a]+f.log[b])%N]
}

// Div divides a by b using the identity a/b = alpha^(log a - log b
// mod N). Division by zero is a programmer error per spec; it is not
// guarded here.
func (f *Field) Div(a, b int) int {
	if a == 0 {
		return 0
	}
	la, lb := f.log[a], f.log[b]
	d := la - lb
	if d < 0 {
		d += N
	}
	return f.exp[d]
}

// Inv returns the multiplicative inverse of a nonzero element.
func (f *Field) Inv(a int) int {
	return f.exp[(N-f.log[a])%N]
}

// Add is XOR in a binary field; provided for readability at call
// sites that mix field and bit operations.
func Add(a, b int) int {
	return a ^ b
}
