package chat2png

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"

	"github.com/alnah/go-chat2png/internal/assets"
	"github.com/alnah/go-chat2png/internal/bubble"
	"github.com/alnah/go-chat2png/internal/fileutil"
	"github.com/alnah/go-chat2png/internal/layout"
	"github.com/alnah/go-chat2png/internal/render"
	"github.com/alnah/go-chat2png/internal/transcript"
)

// MaxTranscriptSize limits the transcript files ReadTranscript accepts.
const MaxTranscriptSize = 64 << 20

// Converter turns chat transcripts into numbered PNG pages.
// Create with NewConverter; a Converter is safe for sequential reuse and
// holds no resources that need closing.
type Converter struct {
	cfg        converterConfig
	resolver   *assets.Resolver
	font       *truetype.Font
	background image.Image
	theme      Theme
	logger     *slog.Logger
}

// NewConverter loads the font and background once and returns a Converter.
// Returns an error wrapping ErrInvalidAssetPath, ErrFontNotFound,
// ErrImageNotFound, ErrInvalidWorkerCount, or ErrInvalidBatchSize.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, c.cfg.workers)
	}
	if c.cfg.batchSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, c.cfg.batchSize)
	}

	c.logger = c.cfg.logger
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.theme = render.DefaultTheme()
	if c.cfg.theme != nil {
		c.theme = *c.cfg.theme
	}

	resolver, err := assets.NewResolver(c.cfg.assetPath)
	if err != nil {
		return nil, err
	}
	c.resolver = resolver

	if c.font, err = c.loadFont(); err != nil {
		return nil, err
	}
	if c.cfg.background != "" {
		if c.background, err = c.loadBackground(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// loadFont resolves the configured font by path or asset name.
func (c *Converter) loadFont() (*truetype.Font, error) {
	name := c.cfg.font
	if name == "" {
		name = assets.DefaultFontName
	}

	var (
		data []byte
		err  error
	)
	if fileutil.IsFilePath(name) {
		data, err = assets.ReadFontFile(name)
	} else {
		data, err = c.resolver.LoadFont(name)
	}
	if err != nil {
		return nil, err
	}

	f, err := assets.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", name, err)
	}
	c.logger.Debug("font loaded", "font", name)
	return f, nil
}

// loadBackground resolves the configured background by path or asset name.
func (c *Converter) loadBackground() (image.Image, error) {
	name := c.cfg.background
	var (
		img image.Image
		err error
	)
	if fileutil.IsFilePath(name) {
		img, err = assets.ReadImageFile(name)
	} else {
		img, err = c.resolver.LoadImage(name)
	}
	if err != nil {
		return nil, err
	}
	c.logger.Debug("background loaded", "background", name, "size", img.Bounds().Size())
	return img, nil
}

// FontNames returns the names of the builtin fonts.
func FontNames() []string {
	return assets.BuiltinFontNames()
}

// ReadTranscript reads a UTF-8 transcript file.
// Returns an error wrapping ErrReadTranscript when the file cannot be read,
// exceeds MaxTranscriptSize, or is not valid UTF-8.
func ReadTranscript(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadTranscript, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrReadTranscript, path)
	}
	if info.Size() > MaxTranscriptSize {
		return "", fmt.Errorf("%w: %s is %d bytes (max %d)", ErrReadTranscript, path, info.Size(), MaxTranscriptSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadTranscript, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrReadTranscript, path)
	}
	return string(data), nil
}

// Convert parses input.Transcript, lays the messages out on pages, and writes
// the pages to input.OutputDir as 1.png, 2.png, ... in page order. With
// input.DryRun set, pages are planned but nothing is written.
//
// Pages are written in batches while layout continues. A page that fails to
// render or write does not stop the others; the first such error is returned
// after every dispatched page has finished. Cancelling ctx stops new pages
// from starting. Recovers from internal panics to prevent crashes from
// propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	roster, err := input.Participants.roster()
	if err != nil {
		return nil, err
	}
	opts := input.Parse.options()
	opts.Logger = c.logger
	parser, err := transcript.NewParser(roster, opts)
	if err != nil {
		return nil, err
	}
	parsed, err := parser.Parse(input.Transcript)
	if err != nil {
		return nil, err
	}
	if len(parsed.Messages) == 0 {
		return nil, fmt.Errorf("%w: %d records, %d skipped, %d notices",
			ErrNoMessages, parsed.Records, parsed.Skipped, parsed.Notices)
	}
	c.logger.Info("transcript parsed", "records", parsed.Records, "messages", len(parsed.Messages),
		"skipped", parsed.Skipped, "notices", parsed.Notices)

	rcfg, err := c.renderConfig(input.Layout)
	if err != nil {
		return nil, err
	}
	engine, err := layout.NewEngine(rcfg.Metrics, c.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	splitter := bubble.NewSplitter(render.NewMeasurer(rcfg), rcfg.Style)
	stream := bubble.NewStream(parsed.Messages, splitter)

	result = &Result{
		PageSize: image.Pt(rcfg.Metrics.Width, rcfg.Metrics.Height),
		Stats: Stats{
			Records:  parsed.Records,
			Messages: len(parsed.Messages),
			Skipped:  parsed.Skipped,
			Notices:  parsed.Notices,
		},
	}

	var stats layout.Stats
	if input.DryRun {
		stats, err = c.plan(ctx, engine, stream)
	} else {
		stats, result.Files, err = c.save(ctx, engine, stream, rcfg, input.OutputDir)
	}
	if err != nil {
		return nil, err
	}

	result.Stats.SplitMessages = stream.SplitMessages()
	result.Stats.Bubbles = stats.Bubbles
	result.Stats.Labels = stats.Labels
	result.Stats.Pages = stats.Pages
	result.Stats.Overflow = stats.Overflow
	result.Stats.Batches = stats.Batches
	return result, nil
}

// plan lays out every page and checks that rendering would reproduce it.
func (c *Converter) plan(ctx context.Context, engine *layout.Engine, src layout.Source) (layout.Stats, error) {
	p, err := layout.NewPaginator(engine, layout.PaginatorConfig{
		Progress: c.cfg.progress,
		Logger:   c.logger,
	})
	if err != nil {
		return layout.Stats{}, err
	}
	pages, stats, err := p.Paginate(ctx, src)
	if err != nil {
		return stats, err
	}
	for _, page := range pages {
		if err := layout.CheckReflow(engine.Metrics(), page); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// save lays out and writes every page, returning the written file paths.
func (c *Converter) save(ctx context.Context, engine *layout.Engine, src layout.Source, rcfg render.Config, dir string) (layout.Stats, []string, error) {
	pool, err := render.NewPool(render.ResolvePoolSize(c.cfg.workers), rcfg)
	if err != nil {
		return layout.Stats{}, nil, err
	}
	defer pool.Close()

	saver, err := render.NewSaver(pool, dir, c.logger)
	if err != nil {
		return layout.Stats{}, nil, err
	}

	p, err := layout.NewPaginator(engine, layout.PaginatorConfig{
		BatchSize:  c.cfg.batchSize,
		Dispatcher: saver,
		Progress:   c.cfg.progress,
		Logger:     c.logger,
	})
	if err != nil {
		return layout.Stats{}, nil, err
	}

	stats, err := p.Run(ctx, src)
	if err != nil {
		return stats, nil, err
	}
	c.logger.Info("pages written", "pages", saver.Written(), "dir", saver.Dir(),
		"batches", stats.Batches, "workers", pool.Size())

	files := make([]string, stats.Pages)
	for i := range files {
		if files[i], err = fileutil.PagePath(dir, i+1); err != nil {
			return stats, nil, err
		}
	}
	return stats, files, nil
}

// renderConfig derives page metrics, bubble style, and theme from settings.
// A background image fixes the page size.
func (c *Converter) renderConfig(ls *LayoutSettings) (render.Config, error) {
	if ls == nil {
		ls = &LayoutSettings{}
	}

	m := layout.DefaultMetrics()
	if ls.Width > 0 {
		m.Width = ls.Width
	}
	if ls.Height > 0 {
		m.Height = ls.Height
	}
	if c.background != nil {
		size := c.background.Bounds().Size()
		m.Width, m.Height = size.X, size.Y
	}
	if ls.MinMargin > 0 {
		m.MinMargin = ls.MinMargin
	}
	if ls.MaxMargin > 0 {
		m.MaxMargin = ls.MaxMargin
	}
	m.RepeatDateLabel = ls.RepeatDateLabel
	if err := m.Validate(); err != nil {
		return render.Config{}, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}

	style := bubble.DefaultStyle()
	if ls.MaxElementHeight > 0 {
		style.MaxHeight = ls.MaxElementHeight
	}
	if ls.LettersPerLine > 0 {
		style.LettersPerLine = ls.LettersPerLine
	}

	// Any bubble must fit an empty page under a date label.
	fit := m.InnerHeight() - m.MaxMargin - 2*m.LabelMargin - m.LabelHeight + 1
	if fit <= style.PadY {
		return render.Config{}, fmt.Errorf("%w: %dx%d page leaves no room for a bubble", ErrInvalidLayout, m.Width, m.Height)
	}
	if style.MaxHeight > fit {
		c.logger.Debug("clamping max element height to page", "requested", style.MaxHeight, "max", fit)
		style.MaxHeight = fit
	}

	theme := c.theme
	if ls.DateFormat != "" {
		theme.LabelFormat = ls.DateFormat
	}
	if ls.TimeFormat != "" {
		theme.TimeFormat = ls.TimeFormat
	}

	cfg := render.Config{
		Metrics:    m,
		Style:      style,
		Theme:      theme,
		Font:       c.font,
		Background: c.background,
	}
	if err := cfg.Validate(); err != nil {
		return render.Config{}, err
	}
	return cfg, nil
}

// validateInput checks input fields before any work starts.
func (c *Converter) validateInput(input Input) error {
	if err := input.Participants.Validate(); err != nil {
		return err
	}
	if err := input.Parse.Validate(); err != nil {
		return err
	}
	if err := input.Layout.Validate(); err != nil {
		return err
	}
	if !input.DryRun && input.OutputDir == "" {
		return ErrInvalidOutput
	}
	return nil
}
