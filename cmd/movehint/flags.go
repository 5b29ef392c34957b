// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"runtime"

	"github.com/lgbarn/movehint-go/internal/config"
)

var (
	// Output options
	outputFile   = flag.String("o", "", "Output file (default: stdout)")
	outputFormat = flag.String("format", "", "Output format: jsonl, json or text (default: from config, jsonl)")
	lineLength   = flag.Int("l", 0, "Wrap text output at this line length")

	// Generation options
	square   = flag.String("square", "", "Only hint the piece on this square (e.g. e2)")
	safeKing = flag.Bool("safe-king", false, "Drop king steps onto attacked squares")
	workers  = flag.Int("workers", runtime.NumCPU(), "Number of parallel workers")

	// Duplicate boards
	noCache       = flag.Bool("nocache", false, "Regenerate hints for repeated boards")
	cacheCapacity = flag.Int("cache-capacity", -1, "Max distinct boards to remember (0 = unlimited, default: from config)")

	// Configuration and logging
	configFile = flag.String("config", "", "YAML configuration file")
	verbose    = flag.Bool("v", false, "Log progress to stderr")

	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")
)

// applyFlags overrides configuration values with command-line flags.
func applyFlags(cfg *config.Config) {
	if *safeKing {
		cfg.Engine.SafeKingSteps = true
	}

	if *outputFormat != "" {
		cfg.Output.Format = *outputFormat
	}
	if *lineLength > 0 {
		cfg.Output.MaxLineLength = *lineLength
	}

	if *noCache {
		cfg.Cache.Disabled = true
	}
	if *cacheCapacity >= 0 {
		cfg.Cache.Capacity = *cacheCapacity
	}

	// The CLI only logs with -v, and then to a terminal.
	if *verbose {
		cfg.Log.Format = config.LogFormatConsole
	} else {
		cfg.Log.Level = "disabled"
	}
}
