package main

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// newLogger builds the CLI logger. Records go to w as text, tagged with a
// per-invocation run id so interleaved logs from parallel runs can be told apart.
// Default level is warn: skipped records and overflow pages are reported
// without -v.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	var level slog.Level
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("run", uuid.NewString())
}
