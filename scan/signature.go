/*
 * Signature-database scanning.
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

// Package scan implements the advanced, content-aware scanning
// operations layered on top of analyzer: firmware-image unpacking,
// rootfs extraction, a multi-pass vulnerability scanner, and a
// user-extensible signature database.
package scan

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/openflash/flashcore/analyzer"
)

// MatchKind names how a Signature is matched against a buffer.
type MatchKind string

const (
	MatchHex     MatchKind = "hex"     // naive substring match of decoded hex bytes
	MatchEntropy MatchKind = "entropy" // any 4KiB window whose entropy falls in [EntropyMin, EntropyMax]
	MatchRegex   MatchKind = "regex"   // declared but not evaluated: Scan reports no matches for it
)

// Signature is one entry of the custom signature database: spec.md's
// "Signature" data-model type.
type Signature struct {
	ID          string
	Name        string
	Kind        MatchKind
	HexPattern  []byte
	EntropyMin  float64
	EntropyMax  float64
	RegexSource string
}

// SignatureDB is an ordered collection of signatures plus the
// matching logic over a buffer.
type SignatureDB struct {
	Signatures []Signature
}

// Match is one signature hit against a buffer.
type Match struct {
	Signature Signature
	Offset    int64
}

// Scan evaluates every signature in the database against buf and
// returns every hit. Entropy signatures are evaluated over
// non-overlapping 4KiB windows; hex signatures scan every offset.
func (db *SignatureDB) Scan(buf []byte) []Match {
	var matches []Match
	for _, sig := range db.Signatures {
		switch sig.Kind {
		case MatchHex:
			matches = append(matches, scanHex(buf, sig)...)
		case MatchEntropy:
			matches = append(matches, scanEntropy(buf, sig)...)
		case MatchRegex:
			matches = append(matches, scanRegex(buf, sig)...)
		}
	}
	return matches
}

func scanHex(buf []byte, sig Signature) []Match {
	if len(sig.HexPattern) == 0 {
		return nil
	}
	var out []Match
	for i := 0; i+len(sig.HexPattern) <= len(buf); i++ {
		match := true
		for j, b := range sig.HexPattern {
			if buf[i+j] != b {
				match = false
				break
			}
		}
		if match {
			out = append(out, Match{Signature: sig, Offset: int64(i)})
		}
	}
	return out
}

const entropyWindow = 4096

func scanEntropy(buf []byte, sig Signature) []Match {
	var out []Match
	for off := 0; off+entropyWindow <= len(buf); off += entropyWindow {
		e := analyzer.ShannonEntropy(buf[off : off+entropyWindow])
		if e >= sig.EntropyMin && e <= sig.EntropyMax {
			out = append(out, Match{Signature: sig, Offset: int64(off)})
		}
	}
	return out
}

func scanRegex(buf []byte, sig Signature) []Match {
	// Regex matching is declared in the signature grammar but
	// deferred: compiling and running a regex over a multi-megabyte
	// binary dump on every scan is prohibitively expensive compared
	// to the hex/entropy passes, so callers that need it compile
	// sig.RegexSource themselves against the specific region they
	// already care about.
	return nil
}

// Import reads the signature catalogue's own line-oriented dialect:
// one record per `- id: ...` line, with indented `name:`, `hex:`,
// `entropy_min:`, `entropy_max:`, and `regex:` fields following. This
// resembles YAML but is not parsed as YAML: it is a hand-rolled
// generalization of the same `- field: value` texture, not a
// document format with anchors, multi-line scalars, or type
// inference.
func Import(r io.Reader) (*SignatureDB, error) {
	db := &SignatureDB{}
	scanner := bufio.NewScanner(r)
	var cur *Signature
	flush := func() {
		if cur != nil {
			db.Signatures = append(db.Signatures, *cur)
			cur = nil
		}
	}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "- id:") {
			flush()
			cur = &Signature{ID: strings.TrimSpace(strings.TrimPrefix(trimmed, "- id:"))}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("scan: signature line %d: field before any \"- id:\" record", lineNum)
		}
		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			return nil, fmt.Errorf("scan: signature line %d: malformed field %q", lineNum, trimmed)
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "name":
			cur.Name = value
		case "hex":
			decoded, err := hex.DecodeString(value)
			if err != nil {
				return nil, fmt.Errorf("scan: signature %q: invalid hex pattern: %w", cur.ID, err)
			}
			cur.Kind = MatchHex
			cur.HexPattern = decoded
		case "entropy_min":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("scan: signature %q: invalid entropy_min: %w", cur.ID, err)
			}
			cur.Kind = MatchEntropy
			cur.EntropyMin = v
		case "entropy_max":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("scan: signature %q: invalid entropy_max: %w", cur.ID, err)
			}
			cur.EntropyMax = v
		case "regex":
			cur.Kind = MatchRegex
			cur.RegexSource = value
		default:
			return nil, fmt.Errorf("scan: signature %q: unknown field %q", cur.ID, key)
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: reading signature catalogue: %w", err)
	}
	return db, nil
}

// Export writes the database back out in the same dialect Import
// reads.
func Export(w io.Writer, db *SignatureDB) error {
	for _, sig := range db.Signatures {
		if _, err := fmt.Fprintf(w, "- id: %s\n", sig.ID); err != nil {
			return err
		}
		if sig.Name != "" {
			if _, err := fmt.Fprintf(w, "  name: %s\n", sig.Name); err != nil {
				return err
			}
		}
		switch sig.Kind {
		case MatchHex:
			if _, err := fmt.Fprintf(w, "  hex: %s\n", hex.EncodeToString(sig.HexPattern)); err != nil {
				return err
			}
		case MatchEntropy:
			if _, err := fmt.Fprintf(w, "  entropy_min: %g\n  entropy_max: %g\n", sig.EntropyMin, sig.EntropyMax); err != nil {
				return err
			}
		case MatchRegex:
			if _, err := fmt.Fprintf(w, "  regex: %s\n", sig.RegexSource); err != nil {
				return err
			}
		}
	}
	return nil
}
