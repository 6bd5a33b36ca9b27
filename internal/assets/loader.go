package assets

import "image"

// Loader defines the contract for loading fonts and images by name.
type Loader interface {
	// LoadFont loads raw TrueType data by name (without .ttf extension).
	// Returns ErrFontNotFound if the font doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadFont(name string) ([]byte, error)

	// LoadImage loads and decodes an image by name (without extension).
	// Returns ErrImageNotFound if the image doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadImage(name string) (image.Image, error)
}
