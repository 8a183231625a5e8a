// Package logging builds the process logger. Logs always go to a writer
// other than stdout, which is reserved for protocol responses.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config configures construction of a logger.
type Config struct {
	Debug  bool
	Format string // json or text
	Output io.Writer
}

// New builds a *slog.Logger from cfg. Output defaults to stderr and an
// unknown format falls back to text. Callers tag subsystems with
// logger.With("component", name).
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.Debug}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
