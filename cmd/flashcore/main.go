/*
 * Flashcore demonstration binary.
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

// Command flashcore is a minimal demonstration binary over the
// flashcore library: it opens a session configuration file, connects
// to a chip over TCP, identifies it, reads its first page and logs an
// analysis summary of that page. It is not a product surface -- real front ends
// (CLI, desktop UI, hosted job server, firmware) live outside this
// repository and call the library packages directly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"github.com/openflash/flashcore/analyzer"
	"github.com/openflash/flashcore/coreconfig"
	"github.com/openflash/flashcore/corelog"
	"github.com/openflash/flashcore/iface"
	"github.com/openflash/flashcore/protocol"
)

var logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "flashcore.cfg", "Session configuration file")
	optAddr := getopt.StringLong("addr", 'a', "", "Transport address, e.g. tcp://host:port")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file (default stderr)")
	optDeep := getopt.BoolLong("deep", 'd', "Run the deep key-search analysis pass")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var out *os.File = os.Stderr
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "flashcore: creating log file:", err)
			os.Exit(1)
		}
		out = f
	}
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	logger = slog.New(corelog.NewHandler(out, &slog.HandlerOptions{Level: level}, true))
	slog.SetDefault(logger)

	logger.Info("flashcore started")

	lines, err := coreconfig.LoadSessionConfig(*optConfig)
	if err != nil {
		logger.Error("loading session configuration", "file", *optConfig, "err", err)
		os.Exit(1)
	}
	logger.Info("session configuration loaded", "lines", len(lines))

	if *optAddr == "" {
		logger.Error("no transport address given, pass --addr")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	transport, err := protocol.DialTCP(ctx, *optAddr, logger)
	if err != nil {
		logger.Error("connecting to transport", "addr", *optAddr, "err", err)
		os.Exit(1)
	}
	defer transport.Close()

	dev := &iface.ParallelNAND{T: transport, PageSize: 2048, OOBSize: 64, PagesPerBlock: 64, Log: logger}

	desc, err := dev.Detect(ctx)
	if err != nil {
		logger.Error("detecting chip", "err", err)
		os.Exit(1)
	}
	logger.Info("chip detected", "manufacturer", desc.Manufacturer, "model", desc.Model, "size_mb", desc.SizeMB)

	data, _, err := dev.Read(ctx, 0, int(desc.PageSize), false)
	if err != nil {
		logger.Error("reading first page", "err", err)
		os.Exit(1)
	}

	summary := analyzer.Analyze(data, nil, analyzer.Options{PageSize: int(desc.PageSize), Deep: *optDeep})
	logger.Info("analysis complete",
		"regions", len(summary.MemoryMap.Regions),
		"data_quality_score", summary.DataQualityScore,
		"anomalies", len(summary.Anomalies))
}
