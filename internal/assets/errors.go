package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrFontNotFound indicates the requested font does not exist.
	ErrFontNotFound = errors.New("font not found")

	// ErrImageNotFound indicates the requested image does not exist.
	ErrImageNotFound = errors.New("image not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidAssetPath indicates the configured base path is not a valid directory.
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// ErrAssetRead indicates an I/O error occurred while reading an asset file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrInvalidFont indicates the font data is not a parseable TrueType font.
	ErrInvalidFont = errors.New("invalid font data")

	// ErrInvalidImage indicates the image file could not be decoded.
	ErrInvalidImage = errors.New("invalid image data")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
