package main

// Notes:
// - exitCodeFor: we test the sentinel errors of every category plus wrapped
//   errors to verify the errors.Is() chain works correctly.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	chat2png "github.com/alnah/go-chat2png"
	"github.com/alnah/go-chat2png/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Render errors (exit 4)
		{"render", chat2png.ErrRender, ExitRender},
		{"geometry mismatch", chat2png.ErrGeometryMismatch, ExitRender},
		{"wrapped render", fmt.Errorf("page 3: %w", chat2png.ErrRender), ExitRender},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read transcript", chat2png.ErrReadTranscript, ExitIO},
		{"write page", chat2png.ErrWritePage, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid config value", config.ErrInvalidValue, ExitUsage},
		{"empty transcript", chat2png.ErrEmptyTranscript, ExitUsage},
		{"no messages", chat2png.ErrNoMessages, ExitUsage},
		{"unknown sender", chat2png.ErrUnknownSender, ExitUsage},
		{"unparseable timestamp", chat2png.ErrUnparseableTimestamp, ExitUsage},
		{"invalid participants", chat2png.ErrInvalidParticipants, ExitUsage},
		{"invalid policy", chat2png.ErrInvalidPolicy, ExitUsage},
		{"invalid date format", chat2png.ErrInvalidDateFormat, ExitUsage},
		{"invalid layout", chat2png.ErrInvalidLayout, ExitUsage},
		{"invalid batch size", chat2png.ErrInvalidBatchSize, ExitUsage},
		{"invalid worker count", chat2png.ErrInvalidWorkerCount, ExitUsage},
		{"font not found", chat2png.ErrFontNotFound, ExitUsage},
		{"image not found", chat2png.ErrImageNotFound, ExitUsage},
		{"invalid asset path", chat2png.ErrInvalidAssetPath, ExitUsage},
		{"too many inputs", ErrTooManyInput, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"parse error abort", &chat2png.ParseError{Line: 4, Raw: "Carol", Err: chat2png.ErrUnknownSender}, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}
	for _, code := range []int{ExitIO, ExitRender} {
		if code >= 126 {
			t.Errorf("custom exit code %d collides with shell-reserved codes", code)
		}
	}
}
