// Package fileutil provides file and path helpers for page output.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Permissions for created output.
const (
	DirPerm  os.FileMode = 0o750
	FilePerm os.FileMode = 0o644
)

// PageExtension is the extension of rendered page files.
const PageExtension = ".png"

// Sentinel errors for file utility operations.
var (
	ErrEmptyDir       = errors.New("directory cannot be empty")
	ErrNotDirectory   = errors.New("path exists and is not a directory")
	ErrInvalidPageNum = errors.New("page number must be positive")
	ErrDirNotWritable = errors.New("directory is not writable")
)

// PagePath returns the output path of page n: {dir}/{n}.png.
func PagePath(dir string, n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidPageNum, n)
	}
	return filepath.Join(dir, strconv.Itoa(n)+PageExtension), nil
}

// EnsureDir creates dir and its parents with DirPerm if missing.
func EnsureDir(dir string) error {
	if dir == "" {
		return ErrEmptyDir
	}
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("checking directory: %w", err)
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return nil
}

// CheckWritable creates and removes a scratch file in dir.
func CheckWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".chat2png-check-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDirNotWritable, err)
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("%w: removing scratch file: %v", ErrDirNotWritable, err)
	}
	return nil
}

// WriteFileAtomic writes path through a temporary file in the same
// directory and renames it into place, so readers never see a partial file.
// The temporary file is removed when write or any later step fails.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".chat2png-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if writeErr := write(tmpFile); writeErr != nil {
		_ = tmpFile.Close()
		return writeErr
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if chmodErr := os.Chmod(tmpPath, FilePerm); chmodErr != nil {
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}
	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		return fmt.Errorf("renaming temp file: %w", renameErr)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "mono" -> false (builtin font name)
//   - "./fonts/custom.ttf" -> true (relative path)
//   - "/usr/share/fonts/x.ttf" -> true (absolute)
//   - "mono-bold" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
