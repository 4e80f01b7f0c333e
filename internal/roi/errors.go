package roi

import "errors"

var (
	// ErrEmptyImage is returned when a photo is nil or has no pixels.
	ErrEmptyImage = errors.New("roi: empty image")

	// ErrNoCorners is returned when Rectify is called without corners.
	// Callers must check Location.Corners before rectifying.
	ErrNoCorners = errors.New("roi: rectify called without corners")

	// ErrDegenerateGeometry is returned when the corners collapse to a
	// rectangle with a non-positive side.
	ErrDegenerateGeometry = errors.New("roi: degenerate corner geometry")

	// ErrOpenCVUnavailable is returned when the OpenCV backend is requested
	// from a binary built without the opencv tag.
	ErrOpenCVUnavailable = errors.New("roi: opencv backend not compiled in (build with -tags opencv)")
)
