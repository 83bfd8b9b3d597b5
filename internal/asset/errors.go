package asset

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrAssetIO wraps any file-system failure while ingesting an image.
	ErrAssetIO = errors.New("asset I/O failure")

	// ErrUnsupportedImage means the source is not a regular file with an
	// accepted image extension.
	ErrUnsupportedImage = errors.New("unsupported image source")

	// ErrOutsideStorage means a relative path resolves outside the managed
	// directory.
	ErrOutsideStorage = errors.New("path outside managed storage")
)

// IsAssetIO reports whether err came from a failed file-system operation.
func IsAssetIO(err error) bool {
	return errors.Is(err, ErrAssetIO)
}

// IsUnsupportedImage reports whether err rejected the image source itself.
func IsUnsupportedImage(err error) bool {
	return errors.Is(err, ErrUnsupportedImage)
}
