package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		quiet, verbose bool
		enabled        slog.Level
		disabled       slog.Level
	}{
		{"default", false, false, slog.LevelWarn, slog.LevelInfo},
		{"quiet", true, false, slog.LevelError, slog.LevelWarn},
		{"verbose", false, true, slog.LevelDebug, slog.LevelDebug - 1},
		{"verbose wins over quiet", true, true, slog.LevelDebug, slog.LevelDebug - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := newLogger(&bytes.Buffer{}, tt.quiet, tt.verbose)
			ctx := context.Background()
			if !l.Enabled(ctx, tt.enabled) {
				t.Errorf("level %v disabled", tt.enabled)
			}
			if l.Enabled(ctx, tt.disabled) {
				t.Errorf("level %v enabled", tt.disabled)
			}
		})
	}
}

func TestNewLogger_RunID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newLogger(&buf, false, false)
	l.Warn("first")
	l.Warn("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	runID := func(line string) string {
		for _, field := range strings.Fields(line) {
			if strings.HasPrefix(field, "run=") {
				return field
			}
		}
		return ""
	}
	if runID(lines[0]) == "" || runID(lines[0]) != runID(lines[1]) {
		t.Errorf("run ids differ or are missing: %q", lines)
	}
}
