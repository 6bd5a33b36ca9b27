package main

import (
	"strings"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		want    string
	}{
		{"convert", "--them-alias"},
		{"config", "Usage: chat2png config"},
		{"doctor", "--json"},
		{"completion", "powershell"},
		{"version", "Usage: chat2png version"},
		{"help", "Usage: chat2png help"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := testEnv()
			if code := runHelp([]string{tt.command}, env); code != ExitSuccess {
				t.Errorf("exit = %d, want %d", code, ExitSuccess)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("help %s missing %q", tt.command, tt.want)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv()
		if code := runHelp([]string{"render"}, env); code != ExitUsage {
			t.Errorf("exit = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), `unknown command "render"`) {
			t.Errorf("stderr = %q", stderr)
		}
	})
}

// TestConvertUsageListsEveryFlag keeps the hand-written help in sync with the FlagSet.
func TestConvertUsageListsEveryFlag(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	printConvertUsage(&b)
	usage := b.String()

	for _, f := range extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})) {
		if !strings.Contains(usage, "--"+f.Long) {
			t.Errorf("convert help does not mention --%s", f.Long)
		}
	}
}
