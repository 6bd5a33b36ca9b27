package assets

import (
	"fmt"
	"image"
	"sort"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontName is the builtin font used when none is configured.
const DefaultFontName = "mono"

var builtinFonts = map[string][]byte{
	"mono":      gomono.TTF,
	"mono-bold": gomonobold.TTF,
	"regular":   goregular.TTF,
	"bold":      gobold.TTF,
}

// BuiltinLoader serves the Go font family compiled into the binary.
// Implements Loader interface.
type BuiltinLoader struct{}

// NewBuiltinLoader creates a BuiltinLoader.
func NewBuiltinLoader() *BuiltinLoader {
	return &BuiltinLoader{}
}

// LoadFont returns the TrueType data of a builtin font.
func (b *BuiltinLoader) LoadFont(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	data, ok := builtinFonts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (builtin fonts: %v)", ErrFontNotFound, name, BuiltinFontNames())
	}
	return data, nil
}

// LoadImage always fails: no images are built in.
func (b *BuiltinLoader) LoadImage(name string) (image.Image, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q", ErrImageNotFound, name)
}

// BuiltinFontNames returns the builtin font names in sorted order.
func BuiltinFontNames() []string {
	names := make([]string, 0, len(builtinFonts))
	for name := range builtinFonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ Loader = (*BuiltinLoader)(nil)
