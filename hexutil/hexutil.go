/*
 * Hex dump rendering.
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

// Package hexutil renders byte slices as hex text for log lines and
// anomaly/region descriptions. It follows the teacher's hand-rolled
// formatting style (a fixed hexMap table and strings.Builder) rather
// than fmt's %x, since the output here is fixed-width dump text, not
// general-purpose formatting.
package hexutil

import "strings"

var hexMap = "0123456789abcdef"

// FormatByte writes the two-digit hex form of b to str.
func FormatByte(str *strings.Builder, b byte) {
	str.WriteByte(hexMap[(b>>4)&0xf])
	str.WriteByte(hexMap[b&0xf])
}

// FormatBytes writes the hex form of data to str, separating bytes
// with a space when space is true.
func FormatBytes(str *strings.Builder, space bool, data []byte) {
	for i, b := range data {
		if space && i > 0 {
			str.WriteByte(' ')
		}
		FormatByte(str, b)
	}
}

// Bytes returns the hex form of data, space-separated.
func Bytes(data []byte) string {
	var str strings.Builder
	FormatBytes(&str, true, data)
	return str.String()
}

// Addr formats addr as a fixed-width 8-digit hex address, as used in
// dump offsets and region descriptions.
func Addr(addr int64) string {
	var str strings.Builder
	shift := 28
	for range 8 {
		str.WriteByte(hexMap[(addr>>shift)&0xf])
		shift -= 4
	}
	return str.String()
}

// Line renders one hexdump -C style line: an 8-digit offset, up to
// width hex bytes, and the printable ASCII rendering of the same
// bytes (non-printable bytes shown as '.').
func Line(offset int64, data []byte, width int) string {
	var str strings.Builder
	str.WriteString(Addr(offset))
	str.WriteString("  ")
	for i := 0; i < width; i++ {
		if i > 0 && i%8 == 0 {
			str.WriteByte(' ')
		}
		if i < len(data) {
			FormatByte(&str, data[i])
		} else {
			str.WriteString("  ")
		}
		str.WriteByte(' ')
	}
	str.WriteByte('|')
	for i := 0; i < len(data) && i < width; i++ {
		b := data[i]
		if b >= 0x20 && b < 0x7f {
			str.WriteByte(b)
		} else {
			str.WriteByte('.')
		}
	}
	str.WriteByte('|')
	return str.String()
}

// Dump renders data as a multi-line hexdump -C style block, 16 bytes
// per line.
func Dump(base int64, data []byte) string {
	var str strings.Builder
	const width = 16
	for off := 0; off < len(data); off += width {
		end := off + width
		if end > len(data) {
			end = len(data)
		}
		if off > 0 {
			str.WriteByte('\n')
		}
		str.WriteString(Line(base+int64(off), data[off:end], width))
	}
	return str.String()
}
