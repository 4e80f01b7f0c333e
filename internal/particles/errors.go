package particles

import "errors"

var (
	// ErrEmptyImage is returned when Segment receives a nil or zero-area
	// image.
	ErrEmptyImage = errors.New("particles: empty image")

	// ErrEmptyMask is returned when Classify receives a mask with no pixels;
	// the pixel scale is undefined for it.
	ErrEmptyMask = errors.New("particles: mask has zero pixels")
)
