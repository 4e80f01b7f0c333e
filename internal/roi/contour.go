package roi

import "image"

// TracedContour is one border found by TraceContours.
type TracedContour struct {
	// Points is the border with straight runs compressed to their end points.
	Points Contour `json:"points"`

	// Hole is true for a border between a foreground region and a hole it
	// encloses, false for the outer border of a foreground region.
	Hole bool `json:"hole"`

	// Parent is the index of the enclosing border, or -1 at top level.
	Parent int `json:"parent"`
}

// neighbour directions, counter-clockwise on screen starting east.
var dirX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
var dirY = [8]int{0, -1, -1, -1, 0, 1, 1, 1}

// TraceContours finds every outer and hole border of the non-zero regions of
// mask, using 8-connectivity for the foreground, and records how they nest.
//
// The result follows the Suzuki-Abe border following algorithm: borders are
// reported in raster order of their starting pixel, and each border's parent
// is the border that immediately surrounds it. Pixels on the image edge are
// handled as if the image were framed by one pixel of background.
func TraceContours(mask *image.Gray) []TracedContour {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	pw, ph := w+2, h+2
	f := make([]int32, pw*ph)
	for y := 0; y < h; y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			if row[x] != 0 {
				f[(y+1)*pw+x+1] = 1
			}
		}
	}

	var offsets [8]int
	for d := 0; d < 8; d++ {
		offsets[d] = dirY[d]*pw + dirX[d]
	}

	var contours []TracedContour
	nbd := int32(1)

	for y := 1; y < ph-1; y++ {
		lnbd := int32(1)
		for x := 1; x < pw-1; x++ {
			i := y*pw + x
			v := f[i]
			if v == 0 {
				continue
			}

			start := -1
			hole := false
			switch {
			case v == 1 && f[i-1] == 0:
				start = 4
			case v >= 1 && f[i+1] == 0:
				start = 0
				hole = true
				if v > 1 {
					lnbd = v
				}
			}

			if start >= 0 {
				nbd++
				parent := parentOf(contours, lnbd, hole)
				pts := follow(f, pw, offsets, i, start, nbd)
				contours = append(contours, TracedContour{
					Points: compress(pts),
					Hole:   hole,
					Parent: parent,
				})
			}

			if f[i] != 1 {
				lnbd = abs32(f[i])
			}
		}
	}
	return contours
}

// parentOf decides the parent of a new border from the border last met on
// the raster line. Border numbers start at 2, so border n is contours[n-2].
func parentOf(contours []TracedContour, lnbd int32, hole bool) int {
	if lnbd <= 1 {
		return -1
	}
	k := int(lnbd) - 2
	if contours[k].Hole != hole {
		return k
	}
	return contours[k].Parent
}

// follow walks one border starting at pixel i0, whose background neighbour
// lies in direction from. Visited pixels are relabelled with nbd (or -nbd on
// the right edge of a run) so the raster scan does not start them again.
// The returned points are in unpadded image coordinates.
func follow(f []int32, pw int, offsets [8]int, i0, from int, nbd int32) []Point {
	toPoint := func(i int) Point {
		return Point{X: i%pw - 1, Y: i/pw - 1}
	}

	// Clockwise search for the first non-zero neighbour.
	s := from
	found := false
	for k := 0; k < 8; k++ {
		s = (s + 7) & 7
		if f[i0+offsets[s]] != 0 {
			found = true
			break
		}
	}
	if !found {
		f[i0] = -nbd
		return []Point{toPoint(i0)}
	}

	i1 := i0 + offsets[s]
	i3 := i0
	back := s // direction from i3 to i2; i2 starts as i1

	var pts []Point
	for {
		pts = append(pts, toPoint(i3))

		// Counter-clockwise search starting just after i2.
		eastZero := false
		d := back
		var i4 int
		for k := 0; k < 8; k++ {
			d = (d + 1) & 7
			n := i3 + offsets[d]
			if f[n] != 0 {
				i4 = n
				break
			}
			if d == 0 {
				eastZero = true
			}
		}

		if eastZero {
			f[i3] = -nbd
		} else if f[i3] == 1 {
			f[i3] = nbd
		}

		if i4 == i0 && i3 == i1 {
			break
		}
		i3 = i4
		back = (d + 4) & 7
	}
	return pts
}

// compress drops points in the middle of horizontal, vertical and diagonal
// runs, keeping only the points where the chain changes direction.
func compress(pts []Point) Contour {
	n := len(pts)
	if n <= 2 {
		return Contour(pts)
	}
	out := make(Contour, 0, n/2+1)
	for i := 0; i < n; i++ {
		prev := pts[(i+n-1)%n]
		cur := pts[i]
		next := pts[(i+1)%n]
		if sign(cur.X-prev.X) != sign(next.X-cur.X) || sign(cur.Y-prev.Y) != sign(next.Y-cur.Y) {
			out = append(out, cur)
		}
	}
	if len(out) == 0 {
		return Contour{pts[0]}
	}
	return out
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
