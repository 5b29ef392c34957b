// Package logging builds the zerolog loggers used by the server and CLI.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/lgbarn/movehint-go/internal/config"
)

// New returns a logger writing to w at the configured level. The console
// format is meant for terminals; JSON is the default.
func New(cfg config.Log, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format == config.LogFormatConsole {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
