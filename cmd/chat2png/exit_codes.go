package main

import (
	"errors"
	"os"

	chat2png "github.com/alnah/go-chat2png"
	"github.com/alnah/go-chat2png/internal/config"
)

// Exit codes for the chat2png CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, transcript, or validation
	ExitIO      = 3 // File not found, permission denied, page write failed
	ExitRender  = 4 // Drawing or pagination invariant failures
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Render errors (exit 4)
	if errors.Is(err, chat2png.ErrRender) ||
		errors.Is(err, chat2png.ErrGeometryMismatch) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, chat2png.ErrReadTranscript) ||
		errors.Is(err, chat2png.ErrWritePage) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, chat2png.ErrEmptyTranscript) ||
		errors.Is(err, chat2png.ErrNoMessages) ||
		errors.Is(err, chat2png.ErrUnknownSender) ||
		errors.Is(err, chat2png.ErrUnparseableTimestamp) ||
		errors.Is(err, chat2png.ErrInvalidParticipants) ||
		errors.Is(err, chat2png.ErrInvalidPolicy) ||
		errors.Is(err, chat2png.ErrInvalidDateFormat) ||
		errors.Is(err, chat2png.ErrInvalidLayout) ||
		errors.Is(err, chat2png.ErrInvalidParse) ||
		errors.Is(err, chat2png.ErrInvalidOutput) ||
		errors.Is(err, chat2png.ErrInvalidBatchSize) ||
		errors.Is(err, chat2png.ErrInvalidWorkerCount) ||
		errors.Is(err, chat2png.ErrFontNotFound) ||
		errors.Is(err, chat2png.ErrImageNotFound) ||
		errors.Is(err, chat2png.ErrInvalidAssetName) ||
		errors.Is(err, chat2png.ErrInvalidAssetPath) ||
		errors.Is(err, chat2png.ErrInvalidFont) ||
		errors.Is(err, chat2png.ErrInvalidImage) ||
		errors.Is(err, ErrTooManyInput) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
