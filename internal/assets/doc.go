// Package assets provides fonts and background images for page rendering.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	Loader (interface)
//	    │
//	    ├── BuiltinLoader     - Go fonts compiled into the binary
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── Resolver          - combines both with custom-first fallback
//
// BuiltinLoader provides the Go font family (mono, mono-bold, regular, bold).
// It has no images: without a background image pages get a solid colour.
//
// FilesystemLoader allows users to provide fonts and backgrounds from a
// directory, with path traversal protection and symlink resolution.
//
// Resolver is the loader used by the converter. It tries the custom
// FilesystemLoader first and falls back to BuiltinLoader only when the asset
// is not found, so a broken custom font is reported instead of hidden.
//
// # Directory Structure
//
//	{basePath}/
//	├── fonts/
//	│   └── {name}.ttf
//	└── images/
//	    └── {name}.png           # or .jpg / .jpeg
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
