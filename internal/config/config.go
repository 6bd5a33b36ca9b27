// Package config loads and validates chat2png YAML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-chat2png/internal/dateutil"
	"github.com/alnah/go-chat2png/internal/fileutil"
	"github.com/alnah/go-chat2png/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory under the user config dir searched for configs.
const AppDirName = "go-chat2png"

// Field limits.
const (
	MaxPathLength    = 4096
	MaxNameLength    = 100 // participant name or alias
	MaxAssetLength   = 64  // font or background name
	MaxAliases       = 20
	MaxFormats       = 10
	MaxPageDimension = 10000 // pixels, either side
	MaxWorkers       = 64
	MaxBatchSize     = 10000
)

// Error policies accepted by parse.onError.
const (
	PolicySkip  = "skip"
	PolicyAbort = "abort"
)

// Config holds all configuration for a conversion. Zero values mean "use the default".
type Config struct {
	Input        InputConfig        `yaml:"input"`
	Output       OutputConfig       `yaml:"output"`
	Assets       AssetsConfig       `yaml:"assets"`
	Participants ParticipantsConfig `yaml:"participants"`
	Parse        ParseConfig        `yaml:"parse"`
	Layout       LayoutConfig       `yaml:"layout"`
	Save         SaveConfig         `yaml:"save"`
}

// InputConfig defines the transcript source.
type InputConfig struct {
	Path string `yaml:"path,omitempty"`
}

// OutputConfig defines where pages are written.
type OutputConfig struct {
	Dir string `yaml:"dir,omitempty"` // Empty = "pages" next to the working directory
}

// AssetsConfig defines fonts and background art.
type AssetsConfig struct {
	BasePath   string `yaml:"basePath,omitempty"`   // Empty = builtin assets only
	Font       string `yaml:"font,omitempty"`       // Name under fonts/, builtin name, or a .ttf path
	Background string `yaml:"background,omitempty"` // Name under images/, or an image path; empty = solid colour
}

// ParticipantsConfig names the two sides of the conversation.
type ParticipantsConfig struct {
	Primary   IdentityConfig `yaml:"primary"`   // right-aligned
	Secondary IdentityConfig `yaml:"secondary"` // left-aligned
}

// IdentityConfig is a participant's display name and other spellings
// found in the transcript.
type IdentityConfig struct {
	Name    string   `yaml:"name,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// ParseConfig defines how transcript records are read.
type ParseConfig struct {
	Formats []string `yaml:"formats,omitempty"` // Header timestamp formats (dateutil tokens)
	OnError string   `yaml:"onError,omitempty"` // "skip" (default) or "abort"
	Seed    string   `yaml:"seed,omitempty"`    // RFC 3339 reference time for the first record
	Limit   int      `yaml:"limit,omitempty"`   // Max messages, 0 = all
}

// LayoutConfig defines page geometry and labels.
type LayoutConfig struct {
	Width            int    `yaml:"width,omitempty"`  // Ignored when a background image sets the size
	Height           int    `yaml:"height,omitempty"` // Ignored when a background image sets the size
	MaxElementHeight int    `yaml:"maxElementHeight,omitempty"`
	LettersPerLine   int    `yaml:"lettersPerLine,omitempty"`
	MinMargin        int    `yaml:"minMargin,omitempty"`
	MaxMargin        int    `yaml:"maxMargin,omitempty"`
	RepeatDateLabel  bool   `yaml:"repeatDateLabel,omitempty"`
	DateFormat       string `yaml:"dateFormat,omitempty"`
	TimeFormat       string `yaml:"timeFormat,omitempty"`
}

// SaveConfig defines concurrent page writing.
type SaveConfig struct {
	BatchSize int `yaml:"batchSize,omitempty"`
	Workers   int `yaml:"workers,omitempty"` // 0 = auto
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., library users, env overlays).
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"input.path", c.Input.Path, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.font", c.Assets.Font, MaxPathLength},
		{"assets.background", c.Assets.Background, MaxPathLength},
		{"participants.primary.name", c.Participants.Primary.Name, MaxNameLength},
		{"participants.secondary.name", c.Participants.Secondary.Name, MaxNameLength},
		{"layout.dateFormat", c.Layout.DateFormat, dateutil.MaxDateFormatLength},
		{"layout.timeFormat", c.Layout.TimeFormat, dateutil.MaxDateFormatLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
			return err
		}
	}

	if err := validateAssetRef("assets.font", c.Assets.Font); err != nil {
		return err
	}
	if err := validateAssetRef("assets.background", c.Assets.Background); err != nil {
		return err
	}

	if err := c.Participants.Primary.validate("participants.primary"); err != nil {
		return err
	}
	if err := c.Participants.Secondary.validate("participants.secondary"); err != nil {
		return err
	}

	if err := c.Parse.validate(); err != nil {
		return err
	}
	if err := c.Layout.validate(); err != nil {
		return err
	}
	return c.Save.validate()
}

func (id IdentityConfig) validate(field string) error {
	if len(id.Aliases) > MaxAliases {
		return fmt.Errorf("%w: %s.aliases (%d entries, max %d)", ErrInvalidValue, field, len(id.Aliases), MaxAliases)
	}
	for i, a := range id.Aliases {
		if err := validateFieldLength(fmt.Sprintf("%s.aliases[%d]", field, i), a, MaxNameLength); err != nil {
			return err
		}
	}
	return nil
}

func (p ParseConfig) validate() error {
	if len(p.Formats) > MaxFormats {
		return fmt.Errorf("%w: parse.formats (%d entries, max %d)", ErrInvalidValue, len(p.Formats), MaxFormats)
	}
	for i, f := range p.Formats {
		if err := validateFieldLength(fmt.Sprintf("parse.formats[%d]", i), f, dateutil.MaxDateFormatLength); err != nil {
			return err
		}
	}
	switch strings.ToLower(p.OnError) {
	case "", PolicySkip, PolicyAbort:
	default:
		return fmt.Errorf("%w: parse.onError %q (must be %s or %s)", ErrInvalidValue, p.OnError, PolicySkip, PolicyAbort)
	}
	if p.Seed != "" {
		if _, err := time.Parse(time.RFC3339, p.Seed); err != nil {
			return fmt.Errorf("%w: parse.seed %q (want RFC 3339, e.g. 2016-05-15T15:50:00Z)", ErrInvalidValue, p.Seed)
		}
	}
	if p.Limit < 0 {
		return fmt.Errorf("%w: parse.limit must not be negative, got %d", ErrInvalidValue, p.Limit)
	}
	return nil
}

func (l LayoutConfig) validate() error {
	ranges := []struct {
		field string
		value int
		max   int
	}{
		{"layout.width", l.Width, MaxPageDimension},
		{"layout.height", l.Height, MaxPageDimension},
		{"layout.maxElementHeight", l.MaxElementHeight, MaxPageDimension},
		{"layout.lettersPerLine", l.LettersPerLine, 1000},
		{"layout.minMargin", l.MinMargin, MaxPageDimension},
		{"layout.maxMargin", l.MaxMargin, MaxPageDimension},
	}
	for _, r := range ranges {
		if r.value < 0 || r.value > r.max {
			return fmt.Errorf("%w: %s must be between 0 and %d, got %d", ErrInvalidValue, r.field, r.max, r.value)
		}
	}
	if l.MinMargin != 0 && l.MaxMargin != 0 && l.MinMargin > l.MaxMargin {
		return fmt.Errorf("%w: layout.minMargin (%d) exceeds layout.maxMargin (%d)", ErrInvalidValue, l.MinMargin, l.MaxMargin)
	}
	return nil
}

func (s SaveConfig) validate() error {
	if s.BatchSize < 0 || s.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: save.batchSize must be between 0 and %d, got %d", ErrInvalidValue, MaxBatchSize, s.BatchSize)
	}
	if s.Workers < 0 || s.Workers > MaxWorkers {
		return fmt.Errorf("%w: save.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, s.Workers)
	}
	return nil
}

// validateAssetRef accepts an empty value, a file path, or a short asset name.
func validateAssetRef(field, value string) error {
	if value == "" || fileutil.IsFilePath(value) {
		return nil
	}
	return validateFieldLength(field, value, MaxAssetLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns an empty configuration: every field takes the
// converter's default and participants must be supplied.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cfg Config
	if err := yamlutil.ReadStrict(f, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Marshal renders c as YAML, omitting unset fields.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// SearchPaths returns the locations LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing SearchPaths entry.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
