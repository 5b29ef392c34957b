// processor.go - Reading boards and writing hint lines
package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lgbarn/movehint-go/internal/chess"
	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/engine"
	"github.com/lgbarn/movehint-go/internal/errors"
	"github.com/lgbarn/movehint-go/internal/hashing"
	"github.com/lgbarn/movehint-go/internal/output"
	"github.com/lgbarn/movehint-go/internal/worker"
)

// ProcessingContext holds everything needed to process inputs.
type ProcessingContext struct {
	square  chess.Square
	opts    []engine.Option
	workers int
	output  config.Output
	// cache is nil when repeated boards are regenerated.
	cache *hashing.Cache[worker.Hints]
	log   zerolog.Logger
}

// hintFunc returns the per-board function for the pool.
func (ctx *ProcessingContext) hintFunc() worker.ProcessFunc {
	if ctx.cache == nil {
		return worker.NewHintFunc(ctx.square, ctx.opts...)
	}
	return worker.NewCachedHintFunc(ctx.square, ctx.cache, ctx.opts...)
}

// Stats counts what processInput saw.
type Stats struct {
	Boards   int
	Failures int
	Moves    int
	Cached   int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Boards += other.Boards
	s.Failures += other.Failures
	s.Moves += other.Moves
	s.Cached += other.Cached
}

// processInput reads one board per line from r and writes one record per
// board to w, in input order. Blank lines and lines starting with '#' are
// skipped. Boards are processed on a worker pool.
func processInput(ctx *ProcessingContext, r io.Reader, source string, w output.HintWriter) (Stats, error) {
	pool := worker.NewPool(
		ctx.hintFunc(),
		worker.WithWorkers(ctx.workers),
		worker.WithBufferSize(ctx.workers*4),
	)
	pool.Start()

	scanErr := make(chan error, 1)
	go func() {
		defer pool.Close()
		scanErr <- submitLines(pool, r)
	}()

	var stats Stats
	err := worker.InOrder(pool.Results(), func(res worker.ProcessResult) error {
		rec := output.Record{Source: source, Line: res.Line, Board: res.Board, Hints: res.Hints}
		stats.Boards++
		if res.Error != nil {
			stats.Failures++
			rec.Error = res.Error.Error()
			ctx.log.Debug().Str("source", source).Int("line", res.Line).Err(res.Error).Msg("board failed")
		} else {
			stats.Moves += res.Hints.Count()
			if res.Cached {
				stats.Cached++
			}
		}
		if err := w.WriteRecord(rec); err != nil {
			pool.Stop()
			return err
		}
		return nil
	})
	if err != nil {
		<-scanErr
		return stats, errors.Wrap(err, "writing output")
	}
	if err := <-scanErr; err != nil {
		return stats, errors.Wrapf(err, "reading %s", source)
	}
	return stats, nil
}

// submitLines queues every board line of r, stopping early if the pool is
// stopped.
func submitLines(pool *worker.Pool, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	index, line := 0, 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if pool.IsStopped() {
			return nil
		}
		pool.Submit(worker.WorkItem{Index: index, Line: line, Board: text})
		index++
	}
	return scanner.Err()
}
