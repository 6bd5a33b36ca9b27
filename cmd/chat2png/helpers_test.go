package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-chat2png/internal/config"
)

// ---------------------------------------------------------------------------
// Shared test helpers
// ---------------------------------------------------------------------------

const testTranscript = `15/05/2016, 15:50 - Alice: Hello Bob
15/05/2016, 15:51 - Bob: Hi Alice
how are you?
15/05/2016, 15:52 - Bobby: fine thanks
`

// testEnv returns an Environment writing to buffers with a fixed clock.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &Environment{
		Now:    func() time.Time { return fixed },
		Stdout: stdout,
		Stderr: stderr,
		Config: config.DefaultConfig(),
	}, stdout, stderr
}

// writeFile writes content to name under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
