// movehint prints the move hints of chess boards given one per line.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/engine"
	"github.com/lgbarn/movehint-go/internal/errors"
	"github.com/lgbarn/movehint-go/internal/hashing"
	"github.com/lgbarn/movehint-go/internal/logging"
	"github.com/lgbarn/movehint-go/internal/output"
	"github.com/lgbarn/movehint-go/internal/worker"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("movehint version %s\n", programVersion)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log, os.Stderr)

	ctx, err := newProcessingContext(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ctx.log = log

	out := setupOutputFile()
	if f, ok := out.(*os.File); ok && f != os.Stdout {
		defer f.Close()
	}

	stats, err := processAllInputs(ctx, flag.Args(), out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Info().
		Int("boards", stats.Boards).
		Int("failures", stats.Failures).
		Int("moves", stats.Moves).
		Int("cached", stats.Cached).
		Msg("done")
}

// newProcessingContext builds the context from configuration and flags.
func newProcessingContext(cfg *config.Config) (*ProcessingContext, error) {
	ctx := &ProcessingContext{square: chess.NoSquare, workers: *workers, output: cfg.Output}
	if ctx.workers < 1 {
		ctx.workers = 1
	}
	if *square != "" {
		sq, err := chess.ParseSquare(*square)
		if err != nil {
			return nil, err
		}
		ctx.square = sq
	}
	if cfg.Engine.SafeKingSteps {
		ctx.opts = append(ctx.opts, engine.WithSafeKingSteps())
	}
	if !cfg.Cache.Disabled {
		ctx.cache = hashing.NewCache[worker.Hints](cfg.Cache.Capacity)
	}
	return ctx, nil
}

// setupOutputFile opens the -o file, or returns stdout.
func setupOutputFile() io.Writer {
	if *outputFile == "" {
		return os.Stdout
	}

	file, err := os.Create(*outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file %s: %v\n", *outputFile, err)
		os.Exit(1)
	}
	return file
}

// processAllInputs processes all input files or stdin into one output.
func processAllInputs(ctx *ProcessingContext, args []string, w io.Writer) (total Stats, err error) {
	hw, err := output.NewHintWriter(w, ctx.output)
	if err != nil {
		return total, err
	}
	defer func() {
		if cerr := hw.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "writing output")
		}
	}()

	if len(args) == 0 {
		return processInput(ctx, os.Stdin, "", hw)
	}

	for _, filename := range args {
		file, err := os.Open(filename)
		if err != nil {
			return total, err
		}
		ctx.log.Debug().Str("file", filename).Msg("processing")
		stats, err := processInput(ctx, file, filename, hw)
		file.Close()
		total.Add(stats)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: movehint [options] [input-files...]\n\n")
	fmt.Fprintf(os.Stderr, "Prints the pseudo-legal move hints of boards read one per line.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nBoard format:\n")
	fmt.Fprintf(os.Stderr, "  <placement> [w|b] [castling] [en-passant] [halfmove fullmove] [;wK|;bK]\n")
	fmt.Fprintf(os.Stderr, "  e.g. %s\n", engine.InitialBoard)
}
