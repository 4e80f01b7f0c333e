package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

// Foreground and Background are the two values a binary mask may hold.
const (
	Foreground uint8 = 255
	Background uint8 = 0
)

// ToGray converts an image to 8-bit luminance using ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B), the same weights OpenCV uses for BGR2GRAY.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	return redChannel(effect.GrayscaleWithWeights(Normalize(img), 0.299, 0.587, 0.114))
}

// binomial5 is the 1-4-6-4-1 row of the fixed 5-tap Gaussian OpenCV uses
// when the kernel size is 5 and sigma is left at 0 (sigma ≈ 1.1).
var binomial5 = [5]float64{1, 4, 6, 4, 1}

// GaussianBlur5 smooths a grayscale image with a 5x5 Gaussian kernel.
// Border pixels are replicated.
func GaussianBlur5(gray *image.Gray) *image.Gray {
	k := convolution.NewKernel(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			k.Matrix[y*5+x] = binomial5[y] * binomial5[x]
		}
	}
	out := convolution.Convolve(gray, k.Normalized(), &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: false})
	return redChannel(out)
}

// AdaptiveThresholdMeanInv binarizes a grayscale image against the mean of
// its blockSize x blockSize neighbourhood. A pixel becomes Foreground when it
// is at least c darker than the local mean (gray <= mean - c), otherwise
// Background. Dark ink, printed frames and particle deposits therefore end up
// as Foreground on the light card stock.
//
// blockSize must be odd and at least 3.
func AdaptiveThresholdMeanInv(gray *image.Gray, blockSize int, c int) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	mean := redChannel(blur.Box(gray, float64(blockSize/2)))

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
		avg := mean.Pix[y*mean.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			if int(src[x]) <= int(avg[x])-c {
				out[x] = Foreground
			}
		}
	}
	return dst
}

// Open performs a morphological opening (erosion followed by dilation) with a
// size x size rectangular structuring element. Pixels outside the image never
// erode or dilate their neighbours.
func Open(mask *image.Gray, size int) *image.Gray {
	if size <= 1 {
		return cloneGray(mask)
	}
	return morph(morph(mask, size, true), size, false)
}

// morph applies a separable rectangular min (erode) or max (dilate) filter.
func morph(mask *image.Gray, size int, erode bool) *image.Gray {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	r := size / 2

	pick := func(a, v uint8) uint8 {
		if erode {
			if v < a {
				return v
			}
			return a
		}
		if v > a {
			return v
		}
		return a
	}

	tmp := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			v := row[x]
			for dx := -r; dx <= r; dx++ {
				xx := x + dx
				if xx < 0 || xx >= w || dx == 0 {
					continue
				}
				v = pick(v, row[xx])
			}
			tmp[y*w+x] = v
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := tmp[y*w+x]
			for dy := -r; dy <= r; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h || dy == 0 {
					continue
				}
				v = pick(v, tmp[yy*w+x])
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
	return dst
}

// Binarize maps every pixel above level to Foreground and the rest to
// Background.
func Binarize(gray *image.Gray, level uint8) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			if src[x] > level {
				out[x] = Foreground
			}
		}
	}
	return dst
}

// CountForeground returns the number of non-zero pixels in a mask.
func CountForeground(mask *image.Gray) int {
	b := mask.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x] != 0 {
				n++
			}
		}
	}
	return n
}

// redChannel extracts the R channel of a grayscale image that went through
// an RGBA filter.
func redChannel(rgba *image.RGBA) *image.Gray {
	b := rgba.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := rgba.Pix[rgba.PixOffset(b.Min.X, b.Min.Y+y):]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			out[x] = src[x*4]
		}
	}
	return dst
}

func cloneGray(g *image.Gray) *image.Gray {
	b := g.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return dst
}
