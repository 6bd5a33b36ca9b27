package chat2png

import (
	"errors"

	"github.com/alnah/go-chat2png/internal/assets"
	"github.com/alnah/go-chat2png/internal/chat"
	"github.com/alnah/go-chat2png/internal/dateutil"
	"github.com/alnah/go-chat2png/internal/layout"
	"github.com/alnah/go-chat2png/internal/render"
	"github.com/alnah/go-chat2png/internal/transcript"
)

// Sentinel errors for library operations.
var (
	ErrReadTranscript = errors.New("failed to read transcript")
	ErrNoMessages     = errors.New("transcript contains no messages")
	ErrInvalidLayout  = errors.New("invalid layout settings")
	ErrInvalidParse   = errors.New("invalid parse settings")
	ErrInvalidOutput  = errors.New("output directory is required")

	// Parsing errors.
	ErrEmptyTranscript      = transcript.ErrEmptyTranscript
	ErrInvalidPolicy        = transcript.ErrInvalidPolicy
	ErrUnparseableTimestamp = transcript.ErrUnparseableTimestamp
	ErrInvalidDateFormat    = dateutil.ErrInvalidDateFormat

	// Participant errors.
	ErrInvalidParticipants = chat.ErrInvalidParticipants
	ErrUnknownSender       = chat.ErrUnknownSender

	// Pagination and rendering errors.
	ErrInvalidBatchSize   = layout.ErrInvalidBatchSize
	ErrGeometryMismatch   = layout.ErrGeometryMismatch
	ErrInvalidWorkerCount = render.ErrInvalidWorkerCount
	ErrRender             = render.ErrRender
	ErrWritePage          = render.ErrWritePage

	// Asset loading errors.
	ErrFontNotFound     = assets.ErrFontNotFound
	ErrImageNotFound    = assets.ErrImageNotFound
	ErrInvalidAssetName = assets.ErrInvalidAssetName
	ErrInvalidAssetPath = assets.ErrInvalidAssetPath
	ErrInvalidFont      = assets.ErrInvalidFont
	ErrInvalidImage     = assets.ErrInvalidImage
)

// ParseError describes a transcript record that could not become a message.
// Returned by Convert when the error policy is PolicyAbort.
type ParseError = transcript.ParseError
