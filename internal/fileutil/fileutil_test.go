package fileutil_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-chat2png/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestPagePath - Page file naming
// ---------------------------------------------------------------------------

func TestPagePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dir     string
		n       int
		want    string
		wantErr error
	}{
		{name: "first page", dir: "out", n: 1, want: filepath.Join("out", "1.png")},
		{name: "multi digit", dir: "out", n: 150, want: filepath.Join("out", "150.png")},
		{name: "zero", dir: "out", n: 0, wantErr: fileutil.ErrInvalidPageNum},
		{name: "negative", dir: "out", n: -3, wantErr: fileutil.ErrInvalidPageNum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fileutil.PagePath(tt.dir, tt.n)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PagePath() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("PagePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEnsureDir - Output directory creation
// ---------------------------------------------------------------------------

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "a", "b", "pages")
		if err := fileutil.EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir() error = %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory not created: %v", err)
		}
		if runtime.GOOS != "windows" {
			if perm := info.Mode().Perm(); perm&^fileutil.DirPerm != 0 {
				t.Errorf("permissions = %o, want at most %o", perm, fileutil.DirPerm)
			}
		}
	})

	t.Run("existing directory is fine", func(t *testing.T) {
		t.Parallel()

		if err := fileutil.EnsureDir(t.TempDir()); err != nil {
			t.Errorf("EnsureDir() error = %v", err)
		}
	})

	t.Run("file in the way", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		if err := fileutil.EnsureDir(path); !errors.Is(err, fileutil.ErrNotDirectory) {
			t.Errorf("EnsureDir() error = %v, want ErrNotDirectory", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		if err := fileutil.EnsureDir(""); !errors.Is(err, fileutil.ErrEmptyDir) {
			t.Errorf("EnsureDir(\"\") error = %v, want ErrEmptyDir", err)
		}
	})
}

func TestCheckWritable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := fileutil.CheckWritable(dir); err != nil {
		t.Fatalf("CheckWritable() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch file left behind: %v", entries)
	}

	missing := filepath.Join(dir, "missing")
	if err := fileutil.CheckWritable(missing); !errors.Is(err, fileutil.ErrDirNotWritable) {
		t.Errorf("CheckWritable(missing) error = %v, want ErrDirNotWritable", err)
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic page writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes content", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "1.png")
		err := fileutil.WriteFileAtomic(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "page")
			return err
		})
		if err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil || string(got) != "page" {
			t.Errorf("content = %q, err = %v", got, err)
		}
		assertOnlyFiles(t, dir, "1.png")
	})

	t.Run("failed write leaves nothing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		boom := errors.New("encode failed")
		err := fileutil.WriteFileAtomic(filepath.Join(dir, "2.png"), func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("WriteFileAtomic() error = %v, want %v", err, boom)
		}
		assertOnlyFiles(t, dir)
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "3.png")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
		err := fileutil.WriteFileAtomic(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "new")
			return err
		})
		if err != nil {
			t.Fatal(err)
		}
		if got, _ := os.ReadFile(path); string(got) != "new" {
			t.Errorf("content = %q, want new", got)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nope", "1.png")
		err := fileutil.WriteFileAtomic(path, func(io.Writer) error { return nil })
		if err == nil || !strings.Contains(err.Error(), "creating temp file") {
			t.Errorf("WriteFileAtomic() error = %v", err)
		}
	})
}

func assertOnlyFiles(t *testing.T, dir string, want ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("directory holds %v, want %v", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "chat.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file returns true", path: testFile, want: true},
		{name: "directory returns false", path: tempDir, want: false},
		{name: "nonexistent path returns false", path: filepath.Join(tempDir, "nonexistent"), want: false},
		{name: "empty path returns false", path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"mono", false},
		{"mono-bold", false},
		{"./fonts/custom.ttf", true},
		{"/usr/share/fonts/x.ttf", true},
		{"C:\\fonts\\x.ttf", true},
	}
	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
