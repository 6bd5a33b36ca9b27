package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	chat2png "github.com/alnah/go-chat2png"
	"github.com/alnah/go-chat2png/internal/config"
	"github.com/alnah/go-chat2png/internal/dateutil"
	"github.com/alnah/go-chat2png/internal/hints"
)

// Sentinel errors for the convert command.
var (
	ErrNoInput      = errors.New("no input transcript specified")
	ErrTooManyInput = errors.New("convert takes a single transcript")
)

// defaultOutputDir is used when neither --output, the environment, nor the
// config names an output directory.
const defaultOutputDir = "pages"

// runConvertCmd runs the convert command and returns an exit code.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	f, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	if err := runConvert(ctx, f, positional, env); err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert resolves configuration, converts the transcript, and prints a summary.
func runConvert(ctx context.Context, f *convertFlags, positional []string, env *Environment) error {
	cfg, err := loadConvertConfig(f, env)
	if err != nil {
		return err
	}
	env.Config = cfg

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	logger := newLogger(env.Stderr, f.common.quiet, f.common.verbose)

	input, err := buildInput(cfg, f.dryRun)
	if err != nil {
		return err
	}

	conv, err := chat2png.NewConverter(converterOptions(cfg, logger)...)
	if err != nil {
		return withHint(err, cfg)
	}

	input.Transcript, err = chat2png.ReadTranscript(inputPath)
	if err != nil {
		return err
	}

	start := env.Now()
	result, err := conv.Convert(ctx, input)
	if err != nil {
		return withHint(err, cfg)
	}
	logger.Debug("conversion finished", "input", inputPath, "elapsed", env.Now().Sub(start).Round(time.Millisecond))

	if !f.common.quiet {
		printSummary(env, input, result)
	}
	return nil
}

// loadConvertConfig builds the effective config.
// Precedence: CLI flags > env vars > config file > defaults.
func loadConvertConfig(f *convertFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	name := f.common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(f, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags overrides config values with CLI flags that were set.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	// I/O
	setFlag(&cfg.Output.Dir, f.output)
	setInt(&cfg.Save.Workers, f.workers)
	setInt(&cfg.Save.BatchSize, f.batchSize)

	// Participants
	setFlag(&cfg.Participants.Primary.Name, f.participants.me)
	setFlag(&cfg.Participants.Secondary.Name, f.participants.them)
	if len(f.participants.meAlias) > 0 {
		cfg.Participants.Primary.Aliases = f.participants.meAlias
	}
	if len(f.participants.themAlias) > 0 {
		cfg.Participants.Secondary.Aliases = f.participants.themAlias
	}

	// Parsing
	if len(f.parse.formats) > 0 {
		cfg.Parse.Formats = f.parse.formats
	}
	setFlag(&cfg.Parse.OnError, f.parse.onError)
	setFlag(&cfg.Parse.Seed, f.parse.seed)
	setInt(&cfg.Parse.Limit, f.parse.limit)

	// Layout
	setInt(&cfg.Layout.Width, f.layout.width)
	setInt(&cfg.Layout.Height, f.layout.height)
	setInt(&cfg.Layout.MaxElementHeight, f.layout.maxElementHeight)
	setInt(&cfg.Layout.LettersPerLine, f.layout.lettersPerLine)
	setInt(&cfg.Layout.MinMargin, f.layout.minMargin)
	setInt(&cfg.Layout.MaxMargin, f.layout.maxMargin)
	if f.layout.repeatDateLabel {
		cfg.Layout.RepeatDateLabel = true
	}
	setFlag(&cfg.Layout.DateFormat, f.layout.dateFormat)
	setFlag(&cfg.Layout.TimeFormat, f.layout.timeFormat)

	// Assets
	setFlag(&cfg.Assets.BasePath, f.assets.assetPath)
	setFlag(&cfg.Assets.Font, f.assets.font)
	setFlag(&cfg.Assets.Background, f.assets.background)
}

// setFlag overrides dst when the flag value is set.
func setFlag(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// setInt overrides dst when the flag value is non-zero.
func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

// resolveInputPath picks the transcript from the positional argument or config.
func resolveInputPath(positional []string, cfg *config.Config) (string, error) {
	switch {
	case len(positional) > 1:
		return "", fmt.Errorf("%w: got %d arguments", ErrTooManyInput, len(positional))
	case len(positional) == 1:
		return positional[0], nil
	case cfg.Input.Path != "":
		return cfg.Input.Path, nil
	default:
		return "", fmt.Errorf("%w\n  hint: pass a transcript file or set input.path in the config", ErrNoInput)
	}
}

// buildInput maps the config onto conversion parameters. The transcript
// text is filled in by the caller.
func buildInput(cfg *config.Config, dryRun bool) (chat2png.Input, error) {
	input := chat2png.Input{
		Participants: chat2png.Participants{
			Primary:   chat2png.Identity{Name: cfg.Participants.Primary.Name, Aliases: cfg.Participants.Primary.Aliases},
			Secondary: chat2png.Identity{Name: cfg.Participants.Secondary.Name, Aliases: cfg.Participants.Secondary.Aliases},
		},
		OutputDir: cfg.Output.Dir,
		DryRun:    dryRun,
		Parse: &chat2png.ParseSettings{
			Formats: cfg.Parse.Formats,
			Policy:  chat2png.Policy(strings.ToLower(cfg.Parse.OnError)),
			Limit:   cfg.Parse.Limit,
		},
		Layout: &chat2png.LayoutSettings{
			Width:            cfg.Layout.Width,
			Height:           cfg.Layout.Height,
			MaxElementHeight: cfg.Layout.MaxElementHeight,
			LettersPerLine:   cfg.Layout.LettersPerLine,
			MinMargin:        cfg.Layout.MinMargin,
			MaxMargin:        cfg.Layout.MaxMargin,
			RepeatDateLabel:  cfg.Layout.RepeatDateLabel,
			DateFormat:       cfg.Layout.DateFormat,
			TimeFormat:       cfg.Layout.TimeFormat,
		},
	}
	if input.OutputDir == "" {
		input.OutputDir = defaultOutputDir
	}

	if cfg.Parse.Seed != "" {
		seed, err := time.Parse(time.RFC3339, cfg.Parse.Seed)
		if err != nil {
			return chat2png.Input{}, fmt.Errorf("%w: seed %q: %v", config.ErrInvalidValue, cfg.Parse.Seed, err)
		}
		input.Parse.Seed = seed
	}

	return input, nil
}

// converterOptions maps the config onto converter options.
func converterOptions(cfg *config.Config, logger *slog.Logger) []chat2png.Option {
	opts := []chat2png.Option{
		chat2png.WithLogger(logger),
		chat2png.WithWorkers(cfg.Save.Workers),
		chat2png.WithBatchSize(cfg.Save.BatchSize),
		chat2png.WithProgress(func(bubbles int) {
			logger.Debug("page laid out", "bubbles", bubbles)
		}),
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, chat2png.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Assets.Font != "" {
		opts = append(opts, chat2png.WithFont(cfg.Assets.Font))
	}
	if cfg.Assets.Background != "" {
		opts = append(opts, chat2png.WithBackground(cfg.Assets.Background))
	}
	return opts
}

// withHint appends an actionable hint to errors users can fix themselves.
func withHint(err error, cfg *config.Config) error {
	var hint string
	switch {
	case errors.Is(err, chat2png.ErrUnknownSender):
		var perr *chat2png.ParseError
		sender := ""
		if errors.As(err, &perr) {
			sender = perr.Raw
		}
		hint = hints.ForUnknownSender(sender)
	case errors.Is(err, chat2png.ErrUnparseableTimestamp):
		tried := cfg.Parse.Formats
		if len(tried) == 0 {
			tried = dateutil.DefaultTranscriptFormats
		}
		hint = hints.ForTimestampFormat(tried)
	case errors.Is(err, chat2png.ErrInvalidParticipants):
		hint = hints.ForParticipants()
	case errors.Is(err, chat2png.ErrFontNotFound):
		hint = hints.ForFontNotFound(chat2png.FontNames())
	case errors.Is(err, chat2png.ErrImageNotFound):
		hint = hints.ForImageNotFound()
	case errors.Is(err, chat2png.ErrWritePage):
		hint = hints.ForOutputDirectory()
	case errors.Is(err, chat2png.ErrEmptyTranscript), errors.Is(err, chat2png.ErrNoMessages):
		hint = hints.ForEmptyTranscript()
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// printSummary reports what was written, or planned for a dry run.
func printSummary(env *Environment, input chat2png.Input, r *chat2png.Result) {
	s := r.Stats
	if input.DryRun {
		fmt.Fprintf(env.Stdout, "Would create %d pages of %dx%d in %s\n", s.Pages, r.PageSize.X, r.PageSize.Y, input.OutputDir)
	} else {
		fmt.Fprintf(env.Stdout, "Created %d pages in %s\n", len(r.Files), input.OutputDir)
	}
	fmt.Fprintf(env.Stdout, "  %d messages, %d bubbles, %d date labels", s.Messages, s.Bubbles, s.Labels)
	if s.Skipped > 0 {
		fmt.Fprintf(env.Stdout, ", %d records skipped", s.Skipped)
	}
	if s.Overflow > 0 {
		fmt.Fprintf(env.Stdout, ", %d oversized", s.Overflow)
	}
	fmt.Fprintln(env.Stdout)
}
