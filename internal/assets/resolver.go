package assets

import (
	"errors"
	"image"
)

// Resolver combines a custom filesystem loader with the builtin loader.
// Custom assets are tried first; the builtin loader is consulted only when
// the custom one reports the asset as not found.
type Resolver struct {
	custom  Loader // nil if no custom path configured
	builtin Loader
}

// NewResolver creates a Resolver.
// If customBasePath is empty, only builtin assets are used.
// Returns an error if customBasePath is set but invalid.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{builtin: NewBuiltinLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}

	return r, nil
}

// LoadFont loads a font, trying the custom loader first if available.
func (r *Resolver) LoadFont(name string) ([]byte, error) {
	return loadWithFallback(r, func(l Loader) ([]byte, error) {
		return l.LoadFont(name)
	})
}

// LoadImage loads an image, trying the custom loader first if available.
func (r *Resolver) LoadImage(name string) (image.Image, error) {
	return loadWithFallback(r, func(l Loader) (image.Image, error) {
		return l.LoadImage(name)
	})
}

// HasCustomLoader returns true if a custom asset directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// loadWithFallback implements the custom-first, fallback-to-builtin logic.
// Validation and I/O errors from the custom loader are returned as is.
func loadWithFallback[T any](r *Resolver, load func(Loader) (T, error)) (T, error) {
	if r.custom == nil {
		return load(r.builtin)
	}

	v, err := load(r.custom)
	if err == nil || !isNotFoundError(err) {
		return v, err
	}
	return load(r.builtin)
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrFontNotFound) || errors.Is(err, ErrImageNotFound)
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
