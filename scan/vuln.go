/*
 * Literal-pattern vulnerability scanning.
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

package scan

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// VulnSeverity bands a CVSS score into the conventional buckets.
type VulnSeverity string

const (
	SeverityCritical VulnSeverity = "critical"
	SeverityHigh     VulnSeverity = "high"
	SeverityMedium   VulnSeverity = "medium"
	SeverityLow      VulnSeverity = "low"
	SeverityInfo     VulnSeverity = "info"
)

// BandSeverity maps a raw CVSS score to its conventional band.
func BandSeverity(cvss float64) VulnSeverity {
	switch {
	case cvss >= 9:
		return SeverityCritical
	case cvss >= 7:
		return SeverityHigh
	case cvss >= 4:
		return SeverityMedium
	case cvss >= 0.1:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// Finding is one vulnerability-scan hit.
type Finding struct {
	Pass        string
	Offset      int64
	CVSS        float64
	Severity    VulnSeverity
	Description string
	CVE         string
}

type literalRule struct {
	needle      []byte
	description string
	cvss        float64
	cve         string
}

// credentialPatterns are literal strings whose presence in firmware
// strongly suggests a hardcoded credential.
var credentialPatterns = []literalRule{
	{[]byte("admin:admin"), "hardcoded admin:admin credential", 7.5, ""},
	{[]byte("root:$1$"), "hardcoded root password hash (MD5-crypt)", 7.5, ""},
	{[]byte("root:$5$"), "hardcoded root password hash (SHA-256-crypt)", 7.5, ""},
	{[]byte("root:$6$"), "hardcoded root password hash (SHA-512-crypt)", 7.5, ""},
	{[]byte("password="), "hardcoded password= assignment", 7.5, ""},
	{[]byte("api_key="), "hardcoded api_key= assignment", 7.5, ""},
}

// weakCryptoPatterns flag algorithm names known to be cryptographically weak.
var weakCryptoPatterns = []literalRule{
	{[]byte("DES_"), "use of DES", 5.3, ""},
	{[]byte("MD5"), "use of MD5", 5.3, ""},
	{[]byte("RC4"), "use of RC4", 5.3, ""},
	{[]byte("SHA1"), "use of SHA1", 5.3, ""},
}

// knownVulnerableLibraries flag version strings of libraries with
// specific known CVEs.
var knownVulnerableLibraries = []literalRule{
	{[]byte("OpenSSL 1.0.1"), "OpenSSL Heartbleed", 9.8, "CVE-2014-0160"},
	{[]byte("OpenSSL 1.0.2"), "OpenSSL 1.0.2 known vulnerabilities", 7.5, ""},
	{[]byte("busybox 1.2"), "BusyBox 1.2 known vulnerabilities", 6.5, ""},
	{[]byte("dropbear 2015"), "Dropbear 2015 known vulnerabilities", 7.5, ""},
}

// backdoorPatterns flag literal strings indicating an intentional
// hidden access path.
var backdoorPatterns = []literalRule{
	{[]byte("/bin/sh -i"), "interactive shell backdoor string", 9.0, ""},
	{[]byte("nc -e /bin"), "netcat reverse-shell backdoor string", 9.0, ""},
	{[]byte("telnetd -l"), "telnetd shell-spawning backdoor string", 9.0, ""},
	{[]byte("DEBUG_MODE="), "undocumented debug-mode flag", 9.0, ""},
}

func scanLiterals(pass string, buf []byte, rules []literalRule) []Finding {
	var findings []Finding
	for _, rule := range rules {
		idx := 0
		for {
			pos := bytes.Index(buf[idx:], rule.needle)
			if pos < 0 {
				break
			}
			offset := int64(idx + pos)
			findings = append(findings, Finding{
				Pass: pass, Offset: offset, CVSS: rule.cvss,
				Severity: BandSeverity(rule.cvss), Description: rule.description, CVE: rule.cve,
			})
			idx += pos + len(rule.needle)
			if idx >= len(buf) {
				break
			}
		}
	}
	return findings
}

// ScanVulnerabilities runs the four independent vulnerability-scan
// passes (credentials, weak crypto, known-vulnerable-library
// strings, backdoors) and returns every finding it collects. Each
// pass runs regardless of whether an earlier pass failed; pass
// failures (a pass fails only when handed a nil buffer) are
// aggregated rather than aborting the whole scan.
func ScanVulnerabilities(buf []byte) ([]Finding, error) {
	var all []Finding
	var errs *multierror.Error

	passes := []struct {
		name  string
		rules []literalRule
	}{
		{"hardcoded-credentials", credentialPatterns},
		{"weak-crypto", weakCryptoPatterns},
		{"known-vulnerable-library", knownVulnerableLibraries},
		{"backdoors", backdoorPatterns},
	}

	for _, p := range passes {
		findings, err := runLiteralPass(p.name, buf, p.rules)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		all = append(all, findings...)
	}

	return all, errs.ErrorOrNil()
}

func runLiteralPass(name string, buf []byte, rules []literalRule) ([]Finding, error) {
	if buf == nil {
		return nil, fmt.Errorf("pass %s: nil buffer", name)
	}
	return scanLiterals(name, buf, rules), nil
}
