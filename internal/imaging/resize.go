package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Interpolation selects the resampling kernel used when a mask is rescaled
// to its canonical resolution.
type Interpolation int

const (
	// Bicubic is the default and matches OpenCV's INTER_CUBIC closely
	// (Catmull-Rom, a = -0.5).
	Bicubic Interpolation = iota
	Nearest
	Bilinear
	Lanczos
)

// String returns the name accepted by ParseInterpolation.
func (i Interpolation) String() string {
	switch i {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case Bicubic:
		return "bicubic"
	case Lanczos:
		return "lanczos"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation maps a case-insensitive name to an Interpolation.
// An empty name selects Bicubic.
func ParseInterpolation(name string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bicubic", "cubic":
		return Bicubic, nil
	case "nearest":
		return Nearest, nil
	case "bilinear", "linear":
		return Bilinear, nil
	case "lanczos":
		return Lanczos, nil
	default:
		return Bicubic, fmt.Errorf("unknown interpolation: %s (expected nearest, bilinear, bicubic, or lanczos)", name)
	}
}

func (i Interpolation) filter() imaging.ResampleFilter {
	switch i {
	case Nearest:
		return imaging.NearestNeighbor
	case Bilinear:
		return imaging.Linear
	case Lanczos:
		return imaging.Lanczos
	default:
		return imaging.CatmullRom
	}
}

// CanonicalSize returns the dimensions that bring a w x h image to roughly
// target pixels while preserving its aspect ratio, along with the linear
// scale factor used. Dimensions are truncated, so the product may fall
// slightly short of target.
func CanonicalSize(w, h int, target float64) (int, int, float64) {
	if w <= 0 || h <= 0 || target <= 0 {
		return 0, 0, 0
	}
	s := math.Sqrt(target / float64(w*h))
	return int(float64(w) * s), int(float64(h) * s), s
}

// ResizeGray resamples a grayscale image to w x h with the given kernel.
func ResizeGray(gray *image.Gray, w, h int, interp Interpolation) *image.Gray {
	if w <= 0 || h <= 0 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	b := gray.Bounds()
	if w == b.Dx() && h == b.Dy() {
		return cloneGray(gray)
	}
	resized := imaging.Resize(gray, w, h, interp.filter())
	return nrgbaRedChannel(resized)
}

func nrgbaRedChannel(n *image.NRGBA) *image.Gray {
	b := n.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			out[x] = src[x*4]
		}
	}
	return dst
}
