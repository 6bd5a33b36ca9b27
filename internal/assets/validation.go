package assets

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxAssetNameLength bounds font and image names.
const MaxAssetNameLength = 64

// ValidateAssetName checks that a font or image name is safe to join onto
// the base path. Names must be non-empty, at most MaxAssetNameLength bytes,
// and free of path separators, dots, and control characters.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > MaxAssetNameLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidAssetName, MaxAssetNameLength)
	case strings.ContainsAny(name, "/\\."):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidAssetName, name)
	}
	return nil
}
