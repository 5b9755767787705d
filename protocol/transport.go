/*
 * Transport interface and dispatch.
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

package protocol

import (
	"context"
	"io"

	"github.com/openflash/flashcore/corerr"
)

// Transport is the opaque channel a chip session exchanges packets
// over. Implementations must honor context cancellation: an Exchange
// call that has not received a complete response when ctx is done
// returns corerr.ErrCancelled or corerr.ErrOperationTimeout.
type Transport interface {
	// Exchange sends req and returns the device's response packet.
	Exchange(ctx context.Context, req Packet) (Packet, error)

	// BulkReader returns a stream of raw bytes following a response
	// packet that announced a bulk payload (page read). Callers read
	// exactly the announced length; the bytes follow the response
	// packet as a plain stream, not split into Size-byte packets.
	BulkReader(ctx context.Context) io.Reader
}

// Loopback is an in-memory Transport that hands each request to a
// Handler and returns its response synchronously. It is the
// transport every interface state machine's tests run against.
type Loopback struct {
	Handler func(Packet) (Packet, []byte)
	bulk    []byte
}

// NewLoopback returns a Loopback transport dispatching to handler.
func NewLoopback(handler func(Packet) (Packet, []byte)) *Loopback {
	return &Loopback{Handler: handler}
}

func (l *Loopback) Exchange(ctx context.Context, req Packet) (Packet, error) {
	select {
	case <-ctx.Done():
		return Packet{}, mapCtxErr(ctx)
	default:
	}
	if l.Handler == nil {
		return Packet{}, corerr.ErrUnknownCommand
	}
	resp, bulk := l.Handler(req)
	l.bulk = bulk
	return resp, nil
}

func (l *Loopback) BulkReader(ctx context.Context) io.Reader {
	b := l.bulk
	l.bulk = nil
	return newCtxReader(ctx, b)
}

func mapCtxErr(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return corerr.ErrOperationTimeout
	}
	return corerr.ErrCancelled
}

type ctxReader struct {
	ctx context.Context
	buf []byte
	pos int
}

func newCtxReader(ctx context.Context, buf []byte) *ctxReader {
	return &ctxReader{ctx: ctx, buf: buf}
}

func (r *ctxReader) Read(p []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		return 0, mapCtxErr(r.ctx)
	default:
	}
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.pos:])
	r.pos += n
	return n, nil
}
