/*
 * Transport test cases.
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
	"testing"
	"time"
)

func TestLoopbackExchange(t *testing.T) {
	lb := NewLoopback(func(req Packet) (Packet, []byte) {
		return Response(req.Cmd, StatusOK, []byte("ok")), []byte{1, 2, 3}
	})
	resp, err := lb.Exchange(context.Background(), New(CmdPing, nil))
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if resp.Cmd != CmdPing || resp.Args[0] != StatusOK {
		t.Errorf("unexpected response: %+v", resp)
	}

	bulk, err := io.ReadAll(lb.BulkReader(context.Background()))
	if err != nil {
		t.Fatalf("BulkReader: %v", err)
	}
	if string(bulk) != "\x01\x02\x03" {
		t.Errorf("bulk = %v, want [1 2 3]", bulk)
	}
}

func TestLoopbackHonorsCancellation(t *testing.T) {
	lb := NewLoopback(func(req Packet) (Packet, []byte) { return req, nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := lb.Exchange(ctx, New(CmdPing, nil))
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
}

func TestLoopbackHonorsDeadline(t *testing.T) {
	lb := NewLoopback(func(req Packet) (Packet, []byte) { return req, nil })
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	_, err := lb.Exchange(ctx, New(CmdPing, nil))
	if err == nil {
		t.Fatal("expected error on expired deadline")
	}
}
