/*
 * Write-operation script parsing.
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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ScriptCommand is one parsed batch write-ops instruction: an
// opcode name from the 0xA0-0xBF write-ops command family plus its
// positional arguments.
type ScriptCommand struct {
	Op   string
	Args []string
	Line int
}

// scriptLineScanner tokenizes one batch-script line, the same
// position-cursor, quote-aware token reader coreconfig's lineScanner
// uses for session configuration lines, reused here for write-ops
// batch scripts.
type scriptLineScanner struct {
	line string
	pos  int
}

func (s *scriptLineScanner) skipSpace() {
	for s.pos < len(s.line) && unicode.IsSpace(rune(s.line[s.pos])) {
		s.pos++
	}
}

func (s *scriptLineScanner) isEOL() bool {
	return s.pos >= len(s.line) || s.line[s.pos] == '#'
}

func (s *scriptLineScanner) token() string {
	s.skipSpace()
	if s.isEOL() {
		return ""
	}
	if s.line[s.pos] == '"' {
		start := s.pos + 1
		end := strings.IndexByte(s.line[start:], '"')
		if end < 0 {
			tok := s.line[start:]
			s.pos = len(s.line)
			return tok
		}
		tok := s.line[start : start+end]
		s.pos = start + end + 1
		return tok
	}
	start := s.pos
	for s.pos < len(s.line) && !unicode.IsSpace(rune(s.line[s.pos])) && s.line[s.pos] != '#' {
		s.pos++
	}
	return s.line[start:s.pos]
}

// ParseScript reads a batch write-ops script: one command per line,
// blank lines and `#` comments ignored, fields whitespace-separated
// with optional double-quoted spans.
func ParseScript(r io.Reader) ([]ScriptCommand, error) {
	var commands []ScriptCommand
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		s := &scriptLineScanner{line: scanner.Text()}
		op := s.token()
		if op == "" {
			continue
		}
		var args []string
		for {
			tok := s.token()
			if tok == "" {
				break
			}
			args = append(args, tok)
		}
		commands = append(commands, ScriptCommand{Op: strings.ToLower(op), Args: args, Line: lineNum})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("writeops: reading script: %w", err)
	}
	return commands, nil
}

// ParseBlockArg parses a command's argument as a block number.
func ParseBlockArg(arg string) (int, error) {
	v, err := strconv.ParseInt(arg, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("writeops: invalid block number %q: %w", arg, err)
	}
	return int(v), nil
}

// ParseAddrArg parses a command's argument as a byte address.
func ParseAddrArg(arg string) (uint64, error) {
	v, err := strconv.ParseUint(arg, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("writeops: invalid address %q: %w", arg, err)
	}
	return v, nil
}
