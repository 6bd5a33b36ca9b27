package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestExtractFlagsFromFlagSet - Completion metadata
// ---------------------------------------------------------------------------

func TestExtractFlagsFromFlagSet(t *testing.T) {
	t.Parallel()

	defs := map[string]flagDef{}
	for _, f := range extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{})) {
		defs[f.Long] = f
	}

	tests := []struct {
		name string
		want flagType
	}{
		{"dry-run", flagBool},
		{"width", flagInt},
		{"me", flagString},
		{"format", flagString},
		{"on-error", flagEnum},
		{"config", flagFile},
		{"font", flagFile},
		{"background", flagFile},
		{"output", flagDir},
		{"asset-path", flagDir},
	}
	for _, tt := range tests {
		d, ok := defs[tt.name]
		if !ok {
			t.Errorf("flag --%s not extracted", tt.name)
			continue
		}
		if d.Type != tt.want {
			t.Errorf("--%s type = %d, want %d", tt.name, d.Type, tt.want)
		}
	}
	if defs["output"].Short != "o" {
		t.Errorf("--output shorthand = %q, want o", defs["output"].Short)
	}
	if got := defs["on-error"].Values; len(got) != 2 || got[0] != "skip" || got[1] != "abort" {
		t.Errorf("--on-error values = %v", got)
	}
}

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Script generation
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell Shell
		want  []string
	}{
		{ShellBash, []string{"_chat2png()", "--on-error)", `"skip abort"`, "compgen -f -X '!*.ttf'", "compgen -d"}},
		{ShellZsh, []string{"#compdef chat2png", "'convert:Render a chat transcript as PNG pages'", "(skip abort)", "_files -/"}},
		{ShellFish, []string{"complete -c chat2png", "-l on-error", "-x -a 'skip abort'", "__fish_complete_directories"}},
		{ShellPowerShell, []string{"Register-ArgumentCompleter", "'--them-alias'", "'bash'"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
			for _, cmd := range []string{"convert", "config", "doctor", "completion", "version", "help"} {
				if !strings.Contains(out, cmd) {
					t.Errorf("%s script missing command %q", tt.shell, cmd)
				}
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		t.Parallel()

		err := GenerateCompletion(&bytes.Buffer{}, "tcsh")
		if !errors.Is(err, ErrUnsupportedShell) {
			t.Errorf("error = %v, want ErrUnsupportedShell", err)
		}
	})
}
