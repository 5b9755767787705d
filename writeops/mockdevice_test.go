/*
 * In-memory iface.Device mock for tests.
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

package writeops

import (
	"context"

	"github.com/openflash/flashcore/chipdb"
	"github.com/openflash/flashcore/corerr"
	"github.com/openflash/flashcore/iface"
)

// memDevice is a minimal in-memory iface.Device used to exercise
// Programmer and Cloner without a real transport.
type memDevice struct {
	mem           []byte
	pageSize      int
	pagesPerBlock int
	failProgram   map[int]bool // block -> force ProgramFail
	failErase     map[int]bool // block -> force EraseFail
}

func newMemDevice(size, pageSize, pagesPerBlock int) *memDevice {
	mem := make([]byte, size)
	for i := range mem {
		mem[i] = 0xFF
	}
	return &memDevice{mem: mem, pageSize: pageSize, pagesPerBlock: pagesPerBlock,
		failProgram: map[int]bool{}, failErase: map[int]bool{}}
}

func (d *memDevice) Reset(ctx context.Context) error { return nil }
func (d *memDevice) ReadID(ctx context.Context) ([]byte, error) {
	return []byte{0xEC, 0xD7}, nil
}
func (d *memDevice) Detect(ctx context.Context) (chipdb.ChipDescriptor, error) {
	return chipdb.ChipDescriptor{
		Manufacturer:  "mock",
		Model:         "mock",
		PageSize:      uint32(d.pageSize),
		PagesPerBlock: uint32(d.pagesPerBlock),
		SizeMB:        uint32(len(d.mem) >> 20),
	}, nil
}
func (d *memDevice) Read(ctx context.Context, addr uint64, length int, includeOOB bool) ([]byte, []byte, error) {
	data := make([]byte, length)
	copy(data, d.mem[addr:int(addr)+length])
	return data, nil, nil
}
func (d *memDevice) Program(ctx context.Context, addr uint64, data []byte) error {
	block := int(addr) / (d.pageSize * d.pagesPerBlock)
	if d.failProgram[block] {
		return &corerr.ProgramFail{Block: block}
	}
	copy(d.mem[addr:], data)
	return nil
}
func (d *memDevice) Erase(ctx context.Context, block int) error {
	if d.failErase[block] {
		return &corerr.EraseFail{Block: block}
	}
	start := block * d.pagesPerBlock * d.pageSize
	end := start + d.pagesPerBlock*d.pageSize
	for i := start; i < end && i < len(d.mem); i++ {
		d.mem[i] = 0xFF
	}
	return nil
}
func (d *memDevice) ReadStatus(ctx context.Context) (iface.Status, error) {
	return iface.Status{}, nil
}

var _ iface.Device = (*memDevice)(nil)
