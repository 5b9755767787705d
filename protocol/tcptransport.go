/*
 * TCP transport implementation.
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
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/openflash/flashcore/corerr"
)

// TCPTransport frames Size-byte packets over a net.Conn: one request
// packet out, one response packet in, with an optional raw bulk
// stream following for page-sized reads. Adapted from the accept/
// dispatch split the teacher's telnet server uses for its own
// fixed-size line protocol, simplified to a single persistent
// connection rather than an accept loop of many.
type TCPTransport struct {
	conn net.Conn
	mu   sync.Mutex
	log  *slog.Logger
}

// DialTCP connects to a device bridge listening at address.
func DialTCP(ctx context.Context, address string, log *slog.Logger) (*TCPTransport, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("protocol: dial %s: %w", address, err)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TCPTransport{conn: conn, log: log}, nil
}

// Close closes the underlying connection.
func (t *TCPTransport) Close() error {
	return t.conn.Close()
}

func (t *TCPTransport) Exchange(ctx context.Context, req Packet) (Packet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetDeadline(deadline)
	} else {
		_ = t.conn.SetDeadline(time.Time{})
	}
	stop := context.AfterFunc(ctx, func() { _ = t.conn.SetDeadline(time.Now()) })
	defer stop()

	frame := req.Encode()
	if _, err := t.conn.Write(frame[:]); err != nil {
		return Packet{}, t.mapErr(ctx, err)
	}

	resp := make([]byte, Size)
	if _, err := io.ReadFull(t.conn, resp); err != nil {
		return Packet{}, t.mapErr(ctx, err)
	}
	t.log.Debug("exchange", "cmd", fmt.Sprintf("0x%02x", req.Cmd))
	return Decode(resp)
}

func (t *TCPTransport) BulkReader(ctx context.Context) io.Reader {
	return &deadlineReader{ctx: ctx, conn: t.conn}
}

func (t *TCPTransport) mapErr(ctx context.Context, err error) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return corerr.ErrOperationTimeout
	}
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return corerr.ErrOperationTimeout
		}
		return corerr.ErrCancelled
	default:
	}
	return fmt.Errorf("protocol: %w: %v", corerr.ErrIO, err)
}

type deadlineReader struct {
	ctx  context.Context
	conn net.Conn
}

func (r *deadlineReader) Read(p []byte) (int, error) {
	if deadline, ok := r.ctx.Deadline(); ok {
		_ = r.conn.SetReadDeadline(deadline)
	}
	return r.conn.Read(p)
}

// ListenAndServe accepts connections at address, dispatching every
// decoded request packet to handler and writing back its response.
// It blocks until ctx is cancelled. Adapted from the teacher's
// Server.acceptConnections/handleConnections split: a dedicated
// accept goroutine hands connections to per-connection workers over
// a channel, rather than spawning directly from Accept, so shutdown
// can drain outstanding connections before returning.
func ListenAndServe(ctx context.Context, address string, handler func(Packet) (Packet, []byte), log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("protocol: listen %s: %w", address, err)
	}
	defer ln.Close()

	conns := make(chan net.Conn)
	var wg sync.WaitGroup

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			select {
			case conns <- conn:
			case <-ctx.Done():
				conn.Close()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case conn := <-conns:
			wg.Add(1)
			go func() {
				defer wg.Done()
				serveConn(ctx, conn, handler, log)
			}()
		}
	}
}

func serveConn(ctx context.Context, conn net.Conn, handler func(Packet) (Packet, []byte), log *slog.Logger) {
	defer conn.Close()
	buf := make([]byte, Size)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, err := io.ReadFull(conn, buf); err != nil {
			if err != io.EOF {
				log.Warn("connection read failed", "error", err)
			}
			return
		}
		req, err := Decode(buf)
		if err != nil {
			resp := Response(buf[0], StatusUnknown, nil)
			frame := resp.Encode()
			_, _ = conn.Write(frame[:])
			continue
		}
		resp, bulk := handler(req)
		frame := resp.Encode()
		if _, err := conn.Write(frame[:]); err != nil {
			return
		}
		if len(bulk) > 0 {
			if _, err := conn.Write(bulk); err != nil {
				return
			}
		}
	}
}
