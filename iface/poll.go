/*
 * Status-register polling helpers.
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

package iface

import (
	"context"
	"time"

	"github.com/openflash/flashcore/corerr"
)

// pollUntilReady repeats check until it reports not-busy or ctx
// expires. SPI NOR, eMMC and UFS share this shape with the parallel
// NAND and SPI NAND state machines: a status read gates every
// operation that touches the array, and a timeout here is surfaced
// to the caller rather than retried.
func pollUntilReady(ctx context.Context, check func(context.Context) (Status, error)) (Status, error) {
	for {
		st, err := check(ctx)
		if err != nil {
			return Status{}, err
		}
		if !st.Busy {
			return st, nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return Status{}, corerr.ErrOperationTimeout
			}
			return Status{}, corerr.ErrCancelled
		case <-time.After(time.Microsecond * 50):
		}
	}
}
