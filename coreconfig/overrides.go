/*
 * YAML chip-override catalogue loading.
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
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/openflash/flashcore/chipdb"
)

// LoadOverrides reads a YAML chip-override catalogue. Unlike the
// signature catalogue's hand-rolled dialect, this format is genuine
// structured data with no grammar contract of its own, so it is
// parsed with a real YAML library rather than a bespoke scanner.
func LoadOverrides(r io.Reader) (chipdb.Overrides, error) {
	var o chipdb.Overrides
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&o); err != nil && err != io.EOF {
		return chipdb.Overrides{}, fmt.Errorf("coreconfig: decode overrides: %w", err)
	}
	return o, nil
}

// LoadOverridesFile opens and parses a chip-override catalogue file.
func LoadOverridesFile(path string) (chipdb.Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return chipdb.Overrides{}, fmt.Errorf("coreconfig: %w", err)
	}
	defer f.Close()
	return LoadOverrides(f)
}
