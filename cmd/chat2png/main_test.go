package main

import (
	"context"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRun - Command dispatch
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitUsage, "", "Usage: chat2png <command>"},
		{"unknown command", []string{"render"}, ExitUsage, "", `unknown command "render"`},
		{"version", []string{"version"}, ExitSuccess, "chat2png dev", ""},
		{"version flag", []string{"--version"}, ExitSuccess, "chat2png dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help flag", []string{"-h"}, ExitSuccess, "Commands:", ""},
		{"completion usage", []string{"completion"}, ExitSuccess, "Usage: chat2png completion", ""},
		{"completion bash", []string{"completion", "bash"}, ExitSuccess, "complete -o filenames -F _chat2png chat2png", ""},
		{"completion unknown shell", []string{"completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := run(context.Background(), tt.args, env)
			if code != tt.wantCode {
				t.Errorf("exit = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want substring %q", stdout, tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestIsVerbose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"convert", "chat.txt", "-v"}, true},
		{[]string{"convert", "--verbose"}, true},
		{[]string{"convert", "chat.txt"}, false},
		{[]string{"convert", "--", "-v"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isVerbose(tt.args); got != tt.want {
			t.Errorf("isVerbose(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
