//go:build !cgo

package ocr

import "image"

// Available reports whether Tesseract support was compiled in.
const Available = false

// ReadLabel returns ErrOCRUnavailable for any non-empty image in builds
// without cgo.
func ReadLabel(img image.Image, region image.Rectangle, language string) (*LabelResult, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return nil, ErrOCRUnavailable
}
