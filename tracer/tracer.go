/*
 * Diagnostic tracing.
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

// Package tracer provides bitmask-gated wire-level trace lines for
// the per-interface state machines, independent of the structured
// operational log in corelog. This mirrors the split the teacher
// keeps between slog (operational) and its own util/debug (protocol
// trace): the two serve different audiences and are configured
// separately.
package tracer

import (
	"fmt"
	"io"
	"os"
)

// Mask bits shared by every interface's state machine. Interfaces may
// define additional private bits above these.
const (
	CMD = 1 << iota
	DATA
	DETAIL
)

// Tracer writes gated lines to an underlying writer; the zero value
// writes nowhere and every call is a cheap mask test.
type Tracer struct {
	out  io.Writer
	mask int
}

// New returns a Tracer gated by mask, writing to out. A nil out
// defaults to os.Stderr.
func New(out io.Writer, mask int) *Tracer {
	if out == nil {
		out = os.Stderr
	}
	return &Tracer{out: out, mask: mask}
}

// SetMask replaces the active trace mask.
func (t *Tracer) SetMask(mask int) {
	t.mask = mask
}

// Tracef emits a line tagged with the interface name when level is
// set in the tracer's mask.
func (t *Tracer) Tracef(iface string, level int, format string, a ...interface{}) {
	if t == nil || t.out == nil || (t.mask&level) == 0 {
		return
	}
	fmt.Fprintf(t.out, iface+": "+format+"\n", a...)
}

// DeviceTracef tags the line with a device address instead of an
// interface name, for use inside a running chip session.
func (t *Tracer) DeviceTracef(addr uint16, level int, format string, a ...interface{}) {
	if t == nil || t.out == nil || (t.mask&level) == 0 {
		return
	}
	fmt.Fprintf(t.out, "%04x: "+format+"\n", append([]interface{}{addr}, a...)...)
}
