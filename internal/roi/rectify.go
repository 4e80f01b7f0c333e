package roi

import (
	"fmt"
	"image"

	"github.com/ironsheep/particle-tools-mcp/internal/imaging"
)

// RectifyOptions configures Rectify.
type RectifyOptions struct {
	SubPix SubPixOptions

	// Margin is how far, in pixels, each refined corner is pulled toward
	// the centroid before warping.
	Margin float64
}

// DefaultRectifyOptions returns the default sub-pixel settings and a 5 px
// margin.
func DefaultRectifyOptions() RectifyOptions {
	return RectifyOptions{SubPix: DefaultSubPixOptions(), Margin: 5}
}

// Rectified is the perspective-corrected sampling window.
type Rectified struct {
	Image  *image.NRGBA `json:"-"`
	Width  int          `json:"width"`
	Height int          `json:"height"`

	// Corners are the refined and inset corners the warp was computed from.
	Corners Corners `json:"corners"`

	// Homography maps photo coordinates onto the rectified image.
	Homography Homography `json:"homography"`
}

// Rectify warps the quadrilateral described by corners into an axis-aligned
// image.
//
// A nil corners value is a caller error (ErrNoCorners): Locate reports a
// missing window through Location.Corners and Rectify must not be called in
// that case. Corners that collapse to a non-positive output side return
// ErrDegenerateGeometry.
//
// The refined and inset corners stay sub-pixel; they are not rounded to
// whole pixels or relabelled before the homography is solved.
func Rectify(photo image.Image, corners *Corners, opts RectifyOptions) (*Rectified, error) {
	if photo == nil || photo.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if corners == nil {
		return nil, ErrNoCorners
	}

	src := imaging.Normalize(photo)
	gray := imaging.ToGray(src)

	refined := RefineCorners(gray, *corners, opts.SubPix)
	adjusted := refined.Inset(opts.Margin)

	w, h := adjusted.OutputSize()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: output size %dx%d", ErrDegenerateGeometry, w, h)
	}

	forward, err := SolveHomography(adjusted.Ordered(), Rectangle(w, h))
	if err != nil {
		return nil, err
	}
	inverse, err := SolveHomography(Rectangle(w, h), adjusted.Ordered())
	if err != nil {
		return nil, err
	}

	return &Rectified{
		Image:      WarpPerspective(src, inverse, w, h),
		Width:      w,
		Height:     h,
		Corners:    adjusted,
		Homography: forward,
	}, nil
}
