package roi

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SubPixOptions controls corner refinement.
type SubPixOptions struct {
	// HalfWindow is the half side of the search window; the window is
	// (2*HalfWindow+1) pixels square.
	HalfWindow int

	// MaxIterations bounds the number of refinement steps per corner.
	MaxIterations int

	// Epsilon stops refinement once a step moves the corner less than this
	// many pixels.
	Epsilon float64
}

// DefaultSubPixOptions returns a 5 pixel half-window, 40 iterations and a
// 0.001 pixel stopping distance.
func DefaultSubPixOptions() SubPixOptions {
	return SubPixOptions{HalfWindow: 5, MaxIterations: 40, Epsilon: 0.001}
}

// RefineCorner moves p to the point where the image gradients inside the
// surrounding window are most nearly orthogonal to the vectors from p,
// which for a real corner is the corner itself.
//
// Each step solves the 2x2 normal equations
//
//	sum(w * g * gᵀ) * q = sum(w * g * gᵀ * p_i)
//
// over the Gaussian-weighted window. Refinement stops on a singular system,
// when the point leaves the image, when a step is shorter than Epsilon, or
// after MaxIterations. If the result drifted more than HalfWindow from p on
// either axis the original point is returned.
func RefineCorner(gray *image.Gray, p PointF, opts SubPixOptions) PointF {
	win := opts.HalfWindow
	if win < 1 {
		return p
	}
	side := 2*win + 1
	maxIter := opts.MaxIterations
	if maxIter < 1 {
		maxIter = 1
	}
	if maxIter > 100 {
		maxIter = 100
	}
	eps := math.Max(opts.Epsilon, 0)
	eps *= eps

	weights := windowWeights(win)
	b := gray.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	patch := make([]float64, (side+2)*(side+2))
	stride := side + 2

	cur := p
	for iter := 0; iter < maxIter; iter++ {
		samplePatch(gray, cur, side+2, patch)

		var a, bxy, c, bb1, bb2 float64
		k := 0
		for i := 0; i < side; i++ {
			py := float64(i - win)
			row := (i + 1) * stride
			for j := 0; j < side; j++ {
				m := weights[k]
				k++
				idx := row + j + 1
				gx := patch[idx+1] - patch[idx-1]
				gy := patch[idx+stride] - patch[idx-stride]
				gxx := gx * gx * m
				gxy := gx * gy * m
				gyy := gy * gy * m
				px := float64(j - win)

				a += gxx
				bxy += gxy
				c += gyy
				bb1 += gxx*px + gxy*py
				bb2 += gxy*px + gyy*py
			}
		}

		step, ok := solve2x2(a, bxy, c, bb1, bb2)
		if !ok {
			break
		}
		next := PointF{X: cur.X + step.X, Y: cur.Y + step.Y}
		moved := step.X*step.X + step.Y*step.Y
		cur = next
		if cur.X < 0 || cur.X >= w || cur.Y < 0 || cur.Y >= h {
			break
		}
		if moved <= eps {
			break
		}
	}

	if math.Abs(cur.X-p.X) > float64(win) || math.Abs(cur.Y-p.Y) > float64(win) {
		return p
	}
	return cur
}

// RefineCorners applies RefineCorner to all four corners.
func RefineCorners(gray *image.Gray, c Corners, opts SubPixOptions) Corners {
	pts := c.Ordered()
	for i := range pts {
		pts[i] = RefineCorner(gray, pts[i], opts)
	}
	return FromOrdered(pts)
}

// windowWeights returns the separable Gaussian weights exp(-x²)·exp(-y²)
// with x and y normalized to [-1, 1] across the window.
func windowWeights(win int) []float64 {
	side := 2*win + 1
	out := make([]float64, side*side)
	for i := 0; i < side; i++ {
		y := float64(i-win) / float64(win)
		vy := math.Exp(-y * y)
		for j := 0; j < side; j++ {
			x := float64(j-win) / float64(win)
			out[i*side+j] = vy * math.Exp(-x*x)
		}
	}
	return out
}

// samplePatch fills dst with a size x size patch centred on centre, sampled
// bilinearly with edge pixels replicated outside the image.
func samplePatch(gray *image.Gray, centre PointF, size int, dst []float64) {
	half := float64(size-1) / 2
	for y := 0; y < size; y++ {
		sy := centre.Y + float64(y) - half
		for x := 0; x < size; x++ {
			sx := centre.X + float64(x) - half
			dst[y*size+x] = bilinearGray(gray, sx, sy)
		}
	}
}

func bilinearGray(gray *image.Gray, x, y float64) float64 {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)

	at := func(px, py int) float64 {
		px = clamp(px, 0, w-1)
		py = clamp(py, 0, h-1)
		return float64(gray.Pix[gray.PixOffset(b.Min.X+px, b.Min.Y+py)])
	}

	top := at(x0, y0)*(1-fx) + at(x0+1, y0)*fx
	bottom := at(x0, y0+1)*(1-fx) + at(x0+1, y0+1)*fx
	return top*(1-fy) + bottom*fy
}

// solve2x2 solves [a b; b c]·q = [r1 r2].
func solve2x2(a, b, c, r1, r2 float64) (PointF, bool) {
	det := a*c - b*b
	if math.Abs(det) <= 1e-30 {
		return PointF{}, false
	}
	A := mat.NewDense(2, 2, []float64{a, b, b, c})
	rhs := mat.NewVecDense(2, []float64{r1, r2})
	var q mat.VecDense
	if err := q.SolveVec(A, rhs); err != nil {
		return PointF{}, false
	}
	return PointF{X: q.AtVec(0), Y: q.AtVec(1)}, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
