package report

import "errors"

var (
	// ErrDocumentAssembly is returned when the PDF document cannot be built
	// or serialized. Logo problems never produce this error.
	ErrDocumentAssembly = errors.New("document assembly failed")

	// ErrUnsupportedImage is returned when logo bytes are neither PNG nor JPEG.
	ErrUnsupportedImage = errors.New("unsupported image format: expected PNG or JPEG")

	// ErrEmptyImage is returned when a decoded logo has a zero dimension.
	ErrEmptyImage = errors.New("image has zero width or height")
)
