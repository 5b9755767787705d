/*
 * Chip-override catalogue test cases.
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

package coreconfig

import (
	"strings"
	"testing"
)

func TestLoadOverrides(t *testing.T) {
	doc := `
parallel_nand:
  - manufacturer: Acme
    model: ACME-NAND-1
    chip_id: [1, 2, 3, 4, 5]
    size_mb: 512
    page_size: 2048
spi_nand:
  - manufacturer: Acme
    model: ACME-SPINAND-1
    chip_id: [9, 9]
    size_mb: 64
`
	o, err := LoadOverrides(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if len(o.ParallelNAND) != 1 || o.ParallelNAND[0].Model != "ACME-NAND-1" {
		t.Errorf("ParallelNAND = %+v", o.ParallelNAND)
	}
	if len(o.SPINAND) != 1 || o.SPINAND[0].SizeMB != 64 {
		t.Errorf("SPINAND = %+v", o.SPINAND)
	}
}

func TestLoadOverridesEmptyDocument(t *testing.T) {
	o, err := LoadOverrides(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if len(o.ParallelNAND) != 0 {
		t.Errorf("expected empty overrides, got %+v", o)
	}
}
