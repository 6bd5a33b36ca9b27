package assets

import (
	"errors"
	"image"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestNewResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses builtin only", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver("")
		if err != nil {
			t.Fatalf("NewResolver(\"\") error = %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		r, err := NewResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewResolver() error = %v", err)
		}
		if !r.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidAssetPath) {
			t.Errorf("NewResolver() error = %v, want ErrInvalidAssetPath", err)
		}
	})
}

func TestResolver_LoadFont(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	// A custom "mono" shadows the builtin one.
	writeAsset(t, tmpDir, "fonts", "mono.ttf", goregular.TTF)
	writeAsset(t, tmpDir, "fonts", "broken.ttf", nil)

	r, err := NewResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		name    string
		font    string
		wantLen int
		wantErr error
	}{
		{name: "custom overrides builtin", font: "mono", wantLen: len(goregular.TTF)},
		{name: "falls back to builtin", font: "regular", wantLen: len(goregular.TTF)},
		{name: "custom file wins even when empty", font: "broken", wantLen: 0},
		{name: "not found anywhere", font: "comic", wantErr: ErrFontNotFound},
		{name: "invalid name is not retried", font: "../mono", wantErr: ErrInvalidAssetName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := r.LoadFont(tt.font)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadFont(%q) error = %v, want %v", tt.font, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFont(%q) error = %v", tt.font, err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("LoadFont(%q) returned %d bytes, want %d", tt.font, len(got), tt.wantLen)
			}
		})
	}
}

func TestResolver_LoadImage(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writePNG(t, tmpDir, "bg", 8, 16)

	r, err := NewResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	img, err := r.LoadImage("bg")
	if err != nil {
		t.Fatalf("LoadImage() error = %v", err)
	}
	if img.Bounds().Size() != image.Pt(8, 16) {
		t.Errorf("image size = %v", img.Bounds().Size())
	}

	if _, err := r.LoadImage("other"); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("LoadImage(missing) error = %v, want ErrImageNotFound", err)
	}
}

func TestResolver_BuiltinOnly(t *testing.T) {
	t.Parallel()

	r, err := NewResolver("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.LoadFont(DefaultFontName); err != nil {
		t.Errorf("LoadFont(%q) error = %v", DefaultFontName, err)
	}
	if _, err := r.LoadImage("bg"); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("LoadImage() error = %v, want ErrImageNotFound", err)
	}
}
