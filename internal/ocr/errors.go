package ocr

import "errors"

var (
	// ErrEmptyImage is returned when ReadLabel receives a nil or zero-area
	// image.
	ErrEmptyImage = errors.New("ocr: empty image")

	// ErrOCRUnavailable is returned when the binary was built without
	// Tesseract support.
	ErrOCRUnavailable = errors.New("ocr: tesseract support not compiled in (requires cgo)")
)
