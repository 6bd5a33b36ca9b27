package assets

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// ParseFont parses TrueType data.
func ParseFont(data []byte) (*truetype.Font, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFont, err)
	}
	return f, nil
}

// NewFace returns a face of f at size points and 72 DPI, so one point is one pixel.
// Faces cache glyphs and are not safe for concurrent use.
func NewFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
}
