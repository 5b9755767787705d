/*
 * Session configuration test cases.
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

func TestParseSessionConfig(t *testing.T) {
	input := `# session config
SPINAND 0x20 clock=80,qspi clock_voltage="3.3V"
  # full comment line
PARALLELNAND 0x10 model=K9F1G08U0B
`
	lines, err := ParseSessionConfig(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSessionConfig: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	first := lines[0]
	if first.Model != "SPINAND" || first.Addr != "0x20" {
		t.Errorf("first line = %+v", first)
	}
	if len(first.Options) != 2 {
		t.Fatalf("got %d options, want 2: %+v", len(first.Options), first.Options)
	}
	if first.Options[0].Name != "clock" || len(first.Options[0].List) != 2 {
		t.Errorf("options[0] = %+v, want name=clock with a 2-element list", first.Options[0])
	}
	if first.Options[1].Value != "3.3V" {
		t.Errorf("options[1].Value = %q, want 3.3V", first.Options[1].Value)
	}

	second := lines[1]
	if second.Model != "PARALLELNAND" || second.Options[0].Value != "K9F1G08U0B" {
		t.Errorf("second line = %+v", second)
	}
}

func TestParseSessionConfigRejectsMissingAddress(t *testing.T) {
	_, err := ParseSessionConfig(strings.NewReader("SPINAND\n"))
	if err == nil {
		t.Fatal("expected error for missing address")
	}
}

func TestParseSessionConfigSkipsBlankAndCommentLines(t *testing.T) {
	lines, err := ParseSessionConfig(strings.NewReader("\n# only a comment\n   \n"))
	if err != nil {
		t.Fatalf("ParseSessionConfig: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("got %d lines, want 0", len(lines))
	}
}
