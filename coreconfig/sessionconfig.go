/*
 * Session configuration file parsing.
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

// Package coreconfig parses the session configuration file that
// describes the interface under test before a session begins: one
// device or switch per line, `#` comments, quote-aware option
// values, comma-separated option lists. The grammar is a direct
// generalization of the teacher's mainframe peripheral device-config
// line grammar (config/configparser) to flash interface/chip setup.
package coreconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Option is one "name=value" or "name=value1,value2" token following
// a device line's model and address.
type Option struct {
	Name  string
	Value string
	List  []string
}

// DeviceLine is one parsed non-comment, non-blank configuration line:
// `<model> <addr> <options...>`.
type DeviceLine struct {
	Model   string
	Addr    string
	Options []Option
}

// lineScanner tokenizes a single configuration line, matching the
// teacher's optionLine: a position cursor over the raw line text,
// comment-aware end-of-line detection, and quote-aware token reads.
type lineScanner struct {
	line string
	pos  int
	num  int
}

func (s *lineScanner) skipSpace() {
	for s.pos < len(s.line) && unicode.IsSpace(rune(s.line[s.pos])) {
		s.pos++
	}
}

func (s *lineScanner) isEOL() bool {
	return s.pos >= len(s.line) || s.line[s.pos] == '#'
}

// token reads the next whitespace-delimited token, honoring a
// double-quoted span as a single token even if it contains spaces.
func (s *lineScanner) token() string {
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

// parseOption splits a "name=value" or "name=v1,v2,v3" token. A value
// wrapped in double quotes (name="value") is returned without them.
func parseOption(tok string) Option {
	name, value, found := strings.Cut(tok, "=")
	if !found {
		return Option{Name: name}
	}
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	opt := Option{Name: name, Value: value}
	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		opt.List = parts
	}
	return opt
}

func (s *lineScanner) parse() (*DeviceLine, error) {
	model := s.token()
	if model == "" {
		return nil, nil
	}
	addr := s.token()
	if addr == "" {
		return nil, fmt.Errorf("coreconfig: line %d: %q requires an address", s.num, model)
	}
	var opts []Option
	for {
		tok := s.token()
		if tok == "" {
			break
		}
		opts = append(opts, parseOption(tok))
	}
	return &DeviceLine{Model: strings.ToUpper(model), Addr: addr, Options: opts}, nil
}

// ParseSessionConfig reads a session configuration stream and
// returns its device lines in order. Blank lines and lines whose
// first non-space character is '#' produce no entry.
func ParseSessionConfig(r io.Reader) ([]DeviceLine, error) {
	var lines []DeviceLine
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		ls := &lineScanner{line: scanner.Text(), num: lineNum}
		dl, err := ls.parse()
		if err != nil {
			return nil, err
		}
		if dl != nil {
			lines = append(lines, *dl)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("coreconfig: %w", err)
	}
	return lines, nil
}

// LoadSessionConfig opens and parses a session configuration file.
func LoadSessionConfig(path string) ([]DeviceLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("coreconfig: %w", err)
	}
	defer f.Close()
	return ParseSessionConfig(f)
}
