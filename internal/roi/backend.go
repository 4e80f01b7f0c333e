package roi

import (
	"fmt"
	"image"
	"strings"
)

// Backend selects the implementation behind an Extractor.
type Backend int

const (
	// Native is the pure Go implementation in this package.
	Native Backend = iota

	// OpenCV delegates to gocv. It is only available in binaries built with
	// -tags opencv.
	OpenCV
)

// String returns the name accepted by ParseBackend.
func (b Backend) String() string {
	switch b {
	case Native:
		return "native"
	case OpenCV:
		return "opencv"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend maps a case-insensitive name to a Backend. An empty name
// selects Native.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "native", "go":
		return Native, nil
	case "opencv", "gocv":
		return OpenCV, nil
	default:
		return Native, fmt.Errorf("unknown backend: %s (expected native or opencv)", name)
	}
}

// Extractor runs both stages of window extraction.
type Extractor interface {
	Locate(photo image.Image, opts LocateOptions) (*Location, error)
	Rectify(photo image.Image, corners *Corners, opts RectifyOptions) (*Rectified, error)
}

// NewExtractor returns the Extractor for b.
func NewExtractor(b Backend) (Extractor, error) {
	switch b {
	case Native:
		return nativeExtractor{}, nil
	case OpenCV:
		return newOpenCVExtractor()
	default:
		return nil, fmt.Errorf("unknown backend: %v", b)
	}
}

type nativeExtractor struct{}

func (nativeExtractor) Locate(photo image.Image, opts LocateOptions) (*Location, error) {
	return Locate(photo, opts)
}

func (nativeExtractor) Rectify(photo image.Image, corners *Corners, opts RectifyOptions) (*Rectified, error) {
	return Rectify(photo, corners, opts)
}
