package chat2png

import "log/slog"

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	assetPath  string
	font       string
	background string
	theme      *Theme
	workers    int
	batchSize  int
	logger     *slog.Logger
	progress   func(bubbles int)
}

// WithAssetPath sets a directory of custom assets laid out as fonts/{name}.ttf
// and images/{name}.png. Names missing there fall back to the builtin assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithFont selects the text font by asset name ("mono", "regular", a name
// under the asset path's fonts/) or by .ttf file path.
func WithFont(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.font = nameOrPath
	}
}

// WithBackground draws pages on an image, by asset name under images/ or by
// file path. The image size becomes the page size.
func WithBackground(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.background = nameOrPath
	}
}

// WithTheme overrides the colours, font sizes, and label formats.
func WithTheme(t Theme) Option {
	return func(c *Converter) {
		c.cfg.theme = &t
	}
}

// WithWorkers sets how many pages are written concurrently.
// 0 picks a size from GOMAXPROCS; negative values fail NewConverter.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.cfg.workers = n
	}
}

// WithBatchSize sets how many pages are laid out before they are handed to
// the writers. 0 means 100; negative values fail NewConverter.
func WithBatchSize(n int) Option {
	return func(c *Converter) {
		c.cfg.batchSize = n
	}
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithProgress registers a callback invoked after each laid-out page with
// the number of bubbles placed so far. It runs on the converting goroutine.
func WithProgress(fn func(bubbles int)) Option {
	return func(c *Converter) {
		c.cfg.progress = fn
	}
}
