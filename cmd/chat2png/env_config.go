package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-chat2png/internal/config"
)

// envPrefix marks chat2png environment variables.
const envPrefix = "CHAT2PNG_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // CHAT2PNG_CONFIG: config file name or path
	Input      string // CHAT2PNG_INPUT: transcript path
	OutputDir  string // CHAT2PNG_OUTPUT_DIR: page directory
	Me         string // CHAT2PNG_ME: primary participant
	Them       string // CHAT2PNG_THEM: secondary participant

	// Tier 2 - Assets and parsing
	AssetPath  string // CHAT2PNG_ASSET_PATH: custom asset directory
	Font       string // CHAT2PNG_FONT: font name or path
	Background string // CHAT2PNG_BACKGROUND: background name or path
	OnError    string // CHAT2PNG_ON_ERROR: skip, abort
	Seed       string // CHAT2PNG_SEED: RFC 3339 reference time

	// Tier 3 - Throughput
	Workers   int // CHAT2PNG_WORKERS: parallel page writers
	BatchSize int // CHAT2PNG_BATCH_SIZE: pages per batch
}

// knownEnvVars lists valid CHAT2PNG_* environment variables.
var knownEnvVars = map[string]bool{
	// Tier 1
	"CHAT2PNG_CONFIG":     true,
	"CHAT2PNG_INPUT":      true,
	"CHAT2PNG_OUTPUT_DIR": true,
	"CHAT2PNG_ME":         true,
	"CHAT2PNG_THEM":       true,
	// Tier 2
	"CHAT2PNG_ASSET_PATH": true,
	"CHAT2PNG_FONT":       true,
	"CHAT2PNG_BACKGROUND": true,
	"CHAT2PNG_ON_ERROR":   true,
	"CHAT2PNG_SEED":       true,
	// Tier 3
	"CHAT2PNG_WORKERS":    true,
	"CHAT2PNG_BATCH_SIZE": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed or non-positive integers are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("CHAT2PNG_CONFIG"),
		Input:      os.Getenv("CHAT2PNG_INPUT"),
		OutputDir:  os.Getenv("CHAT2PNG_OUTPUT_DIR"),
		Me:         os.Getenv("CHAT2PNG_ME"),
		Them:       os.Getenv("CHAT2PNG_THEM"),
		AssetPath:  os.Getenv("CHAT2PNG_ASSET_PATH"),
		Font:       os.Getenv("CHAT2PNG_FONT"),
		Background: os.Getenv("CHAT2PNG_BACKGROUND"),
		OnError:    os.Getenv("CHAT2PNG_ON_ERROR"),
		Seed:       os.Getenv("CHAT2PNG_SEED"),
	}

	cfg.Workers = positiveEnvInt("CHAT2PNG_WORKERS")
	cfg.BatchSize = positiveEnvInt("CHAT2PNG_BATCH_SIZE")

	return cfg
}

func positiveEnvInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// warnUnknownEnvVars reports unrecognized CHAT2PNG_* variables.
// Helps catch typos like CHAT2PNG_OUTPUT instead of CHAT2PNG_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Input.Path, env.Input)
	setString(&cfg.Output.Dir, env.OutputDir)
	setString(&cfg.Participants.Primary.Name, env.Me)
	setString(&cfg.Participants.Secondary.Name, env.Them)

	setString(&cfg.Assets.BasePath, env.AssetPath)
	setString(&cfg.Assets.Font, env.Font)
	setString(&cfg.Assets.Background, env.Background)
	setString(&cfg.Parse.OnError, env.OnError)
	setString(&cfg.Parse.Seed, env.Seed)

	if env.Workers > 0 && cfg.Save.Workers == 0 {
		cfg.Save.Workers = env.Workers
	}
	if env.BatchSize > 0 && cfg.Save.BatchSize == 0 {
		cfg.Save.BatchSize = env.BatchSize
	}
}

// setString fills dst with v when dst is empty.
func setString(dst *string, v string) {
	if v != "" && *dst == "" {
		*dst = v
	}
}
