package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG backgrounds
	_ "image/png"  // register PNG backgrounds
	"os"
	"path/filepath"
	"strings"
)

// imageExtensions are tried in order when loading an image by name.
var imageExtensions = []string{".png", ".jpg", ".jpeg"}

// FilesystemLoader loads assets from a directory on the filesystem.
// Implements Loader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidAssetPath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidAssetPath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	// Containment checks compare against the resolved base path.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidAssetPath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidAssetPath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidAssetPath, err)
	}

	return &FilesystemLoader{basePath: absPath}, nil
}

// BasePath returns the resolved base directory.
func (f *FilesystemLoader) BasePath() string {
	return f.basePath
}

// LoadFont reads {basePath}/fonts/{name}.ttf.
func (f *FilesystemLoader) LoadFont(name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	data, err := f.read(filepath.Join("fonts", name+".ttf"))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", ErrFontNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// LoadImage decodes the first of {basePath}/images/{name}.png, .jpg, .jpeg that exists.
func (f *FilesystemLoader) LoadImage(name string) (image.Image, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	for _, ext := range imageExtensions {
		data, err := f.read(filepath.Join("images", name+ext))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return decodeImage(name+ext, data)
	}
	return nil, fmt.Errorf("%w: %q", ErrImageNotFound, name)
}

// ReadFontFile reads a font from an explicit file path, outside any base directory.
func ReadFontFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFontNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return data, nil
}

// ReadImageFile decodes a PNG or JPEG image from an explicit file path.
func ReadImageFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return decodeImage(filepath.Base(path), data)
}

func decodeImage(name string, data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidImage, name, err)
	}
	return img, nil
}

// read returns the contents of rel under basePath. A missing file yields an
// error satisfying os.IsNotExist; other failures wrap ErrAssetRead or ErrPathTraversal.
func (f *FilesystemLoader) read(rel string) ([]byte, error) {
	filePath := filepath.Join(f.basePath, rel)
	if err := f.verifyPathContainment(filePath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return data, nil
}

// verifyPathContainment ensures the resolved file path is within basePath,
// following symlinks so a link cannot point outside it.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file keeps its unresolved path; the read fails afterwards.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ Loader = (*FilesystemLoader)(nil)
