package roi

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/particle-tools-mcp/internal/imaging"
)

// Homography is a 3x3 projective transform in row-major order with H[8]
// normalized to 1.
type Homography [9]float64

// SolveHomography returns the homography mapping each src[i] onto dst[i].
//
// With h33 fixed to 1 every correspondence contributes two linear equations
//
//	x·h11 + y·h12 + h13 - u·x·h31 - u·y·h32 = u
//	x·h21 + y·h22 + h23 - v·x·h31 - v·y·h32 = v
//
// and the resulting 8x8 system is solved directly.
func SolveHomography(src, dst [4]PointF) (Homography, error) {
	A := mat.NewDense(8, 8, nil)
	B := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		A.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		B.SetVec(2*i, u)

		A.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		B.SetVec(2*i+1, v)
	}

	var params mat.VecDense
	if err := params.SolveVec(A, B); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return Homography{}, fmt.Errorf("%w: corners are collinear or coincident", ErrDegenerateGeometry)
		}
		return Homography{}, fmt.Errorf("failed to solve homography: %w", err)
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = params.AtVec(i)
	}
	h[8] = 1
	return h, nil
}

// Apply maps p through the homography.
func (h Homography) Apply(p PointF) PointF {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if w == 0 {
		return PointF{X: math.Inf(1), Y: math.Inf(1)}
	}
	return PointF{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}

// Rectangle returns the destination corners of a w x h output in homography
// source order: (0,0), (w-1,0), (w-1,h-1), (0,h-1).
func Rectangle(w, h int) [4]PointF {
	fw, fh := float64(w-1), float64(h-1)
	return [4]PointF{{0, 0}, {fw, 0}, {fw, fh}, {0, fh}}
}

// WarpPerspective renders a w x h image whose pixel (u,v) is src sampled
// bilinearly at inverse.Apply(u,v). inverse maps output coordinates back into
// src. Samples falling outside src are black.
func WarpPerspective(src image.Image, inverse Homography, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	s := imaging.Normalize(src)
	sb := s.Bounds()
	sw, sh := sb.Dx(), sb.Dy()

	for v := 0; v < h; v++ {
		row := dst.Pix[v*dst.Stride:]
		for u := 0; u < w; u++ {
			p := inverse.Apply(PointF{X: float64(u), Y: float64(v)})
			r, g, b := bilinearNRGBA(s, p.X, p.Y, sw, sh)
			o := u * 4
			row[o] = r
			row[o+1] = g
			row[o+2] = b
			row[o+3] = 255
		}
	}
	return dst
}

// bilinearNRGBA samples s at (x, y); taps outside the image contribute black.
func bilinearNRGBA(s *image.NRGBA, x, y float64, w, h int) (uint8, uint8, uint8) {
	if math.IsNaN(x) || math.IsNaN(y) || x <= -1 || y <= -1 || x >= float64(w) || y >= float64(h) {
		return 0, 0, 0
	}
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)

	var acc [3]float64
	taps := [4]struct {
		x, y int
		wt   float64
	}{
		{x0, y0, (1 - fx) * (1 - fy)},
		{x0 + 1, y0, fx * (1 - fy)},
		{x0, y0 + 1, (1 - fx) * fy},
		{x0 + 1, y0 + 1, fx * fy},
	}
	for _, t := range taps {
		if t.wt == 0 || t.x < 0 || t.y < 0 || t.x >= w || t.y >= h {
			continue
		}
		i := s.PixOffset(s.Rect.Min.X+t.x, s.Rect.Min.Y+t.y)
		acc[0] += float64(s.Pix[i]) * t.wt
		acc[1] += float64(s.Pix[i+1]) * t.wt
		acc[2] += float64(s.Pix[i+2]) * t.wt
	}
	return round8(acc[0]), round8(acc[1]), round8(acc[2])
}

func round8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
