package render

import "errors"

// Sentinel errors for rendering and saving pages.
var (
	ErrRender             = errors.New("rendering page")
	ErrWritePage          = errors.New("writing page")
	ErrNoFont             = errors.New("renderer needs a font")
	ErrPoolClosed         = errors.New("renderer pool is closed")
	ErrInvalidWorkerCount = errors.New("worker count cannot be negative")
)
