//go:build !opencv

package roi

// OpenCVAvailable reports whether the OpenCV backend was compiled in.
const OpenCVAvailable = false

func newOpenCVExtractor() (Extractor, error) {
	return nil, ErrOpenCVUnavailable
}
