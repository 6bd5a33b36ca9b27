package main

// Notes:
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.
// - Invalid and non-positive integers are ignored rather than reported.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-chat2png/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("strings", func(t *testing.T) {
		t.Setenv("CHAT2PNG_CONFIG", "work")
		t.Setenv("CHAT2PNG_INPUT", "chat.txt")
		t.Setenv("CHAT2PNG_OUTPUT_DIR", "/out")
		t.Setenv("CHAT2PNG_ME", "Alice")
		t.Setenv("CHAT2PNG_THEM", "Bob")
		t.Setenv("CHAT2PNG_ASSET_PATH", "/assets")
		t.Setenv("CHAT2PNG_FONT", "regular")
		t.Setenv("CHAT2PNG_BACKGROUND", "paper")
		t.Setenv("CHAT2PNG_ON_ERROR", "abort")
		t.Setenv("CHAT2PNG_SEED", "2016-05-15T15:50:00Z")

		got := loadEnvConfig()
		want := envConfig{
			ConfigPath: "work",
			Input:      "chat.txt",
			OutputDir:  "/out",
			Me:         "Alice",
			Them:       "Bob",
			AssetPath:  "/assets",
			Font:       "regular",
			Background: "paper",
			OnError:    "abort",
			Seed:       "2016-05-15T15:50:00Z",
		}
		if *got != want {
			t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
		}
	})

	t.Run("integers", func(t *testing.T) {
		t.Setenv("CHAT2PNG_WORKERS", "4")
		t.Setenv("CHAT2PNG_BATCH_SIZE", "25")

		got := loadEnvConfig()
		if got.Workers != 4 || got.BatchSize != 25 {
			t.Errorf("Workers, BatchSize = %d, %d, want 4, 25", got.Workers, got.BatchSize)
		}
	})

	t.Run("invalid integers ignored", func(t *testing.T) {
		t.Setenv("CHAT2PNG_WORKERS", "many")
		t.Setenv("CHAT2PNG_BATCH_SIZE", "-3")

		got := loadEnvConfig()
		if got.Workers != 0 || got.BatchSize != 0 {
			t.Errorf("Workers, BatchSize = %d, %d, want 0, 0", got.Workers, got.BatchSize)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("CHAT2PNG_OUTPUT", "/out")
	t.Setenv("CHAT2PNG_ME", "Alice")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "CHAT2PNG_OUTPUT ") {
		t.Errorf("expected warning for CHAT2PNG_OUTPUT, got %q", out)
	}
	if strings.Contains(out, "CHAT2PNG_ME") {
		t.Errorf("known variable reported: %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority behavior
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{
			Input: "chat.txt", OutputDir: "/out", Me: "Alice", Them: "Bob",
			AssetPath: "/assets", Font: "regular", Background: "paper",
			OnError: "abort", Seed: "2016-05-15T15:50:00Z", Workers: 3, BatchSize: 7,
		}, cfg)

		if cfg.Input.Path != "chat.txt" || cfg.Output.Dir != "/out" {
			t.Errorf("I/O = %+v %+v", cfg.Input, cfg.Output)
		}
		if cfg.Participants.Primary.Name != "Alice" || cfg.Participants.Secondary.Name != "Bob" {
			t.Errorf("Participants = %+v", cfg.Participants)
		}
		if cfg.Assets != (config.AssetsConfig{BasePath: "/assets", Font: "regular", Background: "paper"}) {
			t.Errorf("Assets = %+v", cfg.Assets)
		}
		if cfg.Parse.OnError != "abort" || cfg.Parse.Seed != "2016-05-15T15:50:00Z" {
			t.Errorf("Parse = %+v", cfg.Parse)
		}
		if cfg.Save.Workers != 3 || cfg.Save.BatchSize != 7 {
			t.Errorf("Save = %+v", cfg.Save)
		}
	})

	t.Run("config file wins", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Participants.Primary.Name = "Alice"
		cfg.Save.Workers = 2
		applyEnvConfig(&envConfig{Me: "Mallory", Workers: 8}, cfg)

		if cfg.Participants.Primary.Name != "Alice" {
			t.Errorf("Primary.Name = %q, want config value Alice", cfg.Participants.Primary.Name)
		}
		if cfg.Save.Workers != 2 {
			t.Errorf("Save.Workers = %d, want config value 2", cfg.Save.Workers)
		}
	})
}
