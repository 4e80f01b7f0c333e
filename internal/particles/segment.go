package particles

import (
	"fmt"
	"image"

	"github.com/ironsheep/particle-tools-mcp/internal/imaging"
)

// DefaultCanonicalPixels is the pixel count every mask is rescaled to.
const DefaultCanonicalPixels = 36e6

// SegmentOptions configures Segment.
type SegmentOptions struct {
	// BlockSize and C parameterize the adaptive mean threshold.
	BlockSize int
	C         int

	// BlurSize is the Gaussian kernel applied before thresholding: 5, or 0
	// to skip smoothing.
	BlurSize int

	// OpenSize is the side of the square structuring element used to remove
	// specks. Values below 2 disable the opening.
	OpenSize int

	// CanonicalPixels is the target pixel count of the output mask.
	CanonicalPixels float64

	// Interpolation selects the rescaling kernel.
	Interpolation imaging.Interpolation
}

// DefaultSegmentOptions returns an 11 px threshold block with C 2, a 5x5
// Gaussian, a 3x3 opening, a 36e6 pixel canonical grid and bicubic rescaling.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		BlockSize:       11,
		C:               2,
		BlurSize:        5,
		OpenSize:        3,
		CanonicalPixels: DefaultCanonicalPixels,
		Interpolation:   imaging.Bicubic,
	}
}

// Mask is a canonical-resolution binary particle mask.
type Mask struct {
	// Image holds imaging.Foreground for particle pixels.
	Image *image.Gray

	// ScaleFactor is the linear factor applied to the rectified window.
	ScaleFactor float64

	// SourceWidth and SourceHeight are the rectified window dimensions.
	SourceWidth  int
	SourceHeight int
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.Image.Bounds().Dx() }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.Image.Bounds().Dy() }

// Segment produces the canonical particle mask for a rectified window.
//
// The window is converted to grayscale, smoothed with a 5x5 Gaussian,
// binarized with an inverted adaptive mean threshold so dark deposits become
// foreground, opened to drop single-pixel noise, and rescaled so the mask
// holds about CanonicalPixels pixels with the aspect ratio preserved. Any
// non-zero value left by the rescaling kernel counts as foreground.
func Segment(img image.Image, opts SegmentOptions) (*Mask, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if opts.BlockSize < 3 || opts.BlockSize%2 == 0 {
		return nil, fmt.Errorf("invalid threshold block size %d: must be odd and >= 3", opts.BlockSize)
	}
	if opts.BlurSize != 0 && opts.BlurSize != 5 {
		return nil, fmt.Errorf("invalid blur size %d: must be 0 or 5", opts.BlurSize)
	}
	if opts.CanonicalPixels <= 0 {
		return nil, fmt.Errorf("invalid canonical pixel count %v: must be positive", opts.CanonicalPixels)
	}

	gray := imaging.ToGray(img)
	if opts.BlurSize == 5 {
		gray = imaging.GaussianBlur5(gray)
	}
	binary := imaging.AdaptiveThresholdMeanInv(gray, opts.BlockSize, opts.C)
	opened := imaging.Open(binary, opts.OpenSize)

	srcW, srcH := opened.Bounds().Dx(), opened.Bounds().Dy()
	w, h, scale := imaging.CanonicalSize(srcW, srcH, opts.CanonicalPixels)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: %dx%d window rescales to %dx%d", ErrEmptyImage, srcW, srcH, w, h)
	}

	resized := imaging.ResizeGray(opened, w, h, opts.Interpolation)
	return &Mask{
		Image:        imaging.Binarize(resized, 0),
		ScaleFactor:  scale,
		SourceWidth:  srcW,
		SourceHeight: srcH,
	}, nil
}
