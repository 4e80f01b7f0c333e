package roi

import "math"

// ApproxPolygon simplifies a closed contour with the Ramer-Douglas-Peucker
// algorithm. No point of the original contour lies farther than epsilon from
// the returned polygon.
//
// The contour is first split at two mutually distant points so that the
// result does not depend on where the border trace happened to start, then
// each half is simplified independently. A final pass drops vertices that lie
// within epsilon/sqrt(2) of the line through their neighbours.
func ApproxPolygon(c Contour, epsilon float64) Contour {
	n := len(c)
	if n <= 3 || epsilon <= 0 {
		out := make(Contour, n)
		copy(out, c)
		return out
	}

	// Three passes of "farthest point from the current start" settle on a
	// pair of points close to the contour's diameter.
	a, b := 0, 0
	for i := 0; i < 3; i++ {
		a = b
		b = farthestFrom(c, a)
	}
	if float64(distSq(c[a], c[b])) <= epsilon*epsilon {
		return Contour{c[a]}
	}

	var out Contour
	out = append(out, simplifyChain(c, a, b, epsilon)...)
	out = append(out, simplifyChain(c, b, a, epsilon)...)
	return dropCollinear(out, epsilon)
}

// farthestFrom returns the index of the point farthest from c[from].
func farthestFrom(c Contour, from int) int {
	best, bestDist := from, -1
	for j, p := range c {
		if d := distSq(c[from], p); d > bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

// simplifyChain simplifies the chain c[start], c[start+1], ..., c[end]
// (indices wrapping around the closed contour) and returns every kept vertex
// except c[end].
func simplifyChain(c Contour, start, end int, epsilon float64) Contour {
	n := len(c)
	length := (end - start + n) % n
	if length == 0 {
		return nil
	}
	at := func(k int) Point { return c[(start+k)%n] }

	keep := make([]bool, length+1)
	keep[0], keep[length] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, length}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}

		p0, p1 := at(s.lo), at(s.hi)
		dx, dy := float64(p1.X-p0.X), float64(p1.Y-p0.Y)
		norm := math.Hypot(dx, dy)

		maxDist, idx := -1.0, -1
		for k := s.lo + 1; k < s.hi; k++ {
			p := at(k)
			var d float64
			if norm == 0 {
				d = math.Hypot(float64(p.X-p0.X), float64(p.Y-p0.Y))
			} else {
				d = math.Abs(float64(p.X-p0.X)*dy-float64(p.Y-p0.Y)*dx) / norm
			}
			if d > maxDist {
				maxDist, idx = d, k
			}
		}

		if maxDist > epsilon {
			keep[idx] = true
			stack = append(stack, span{idx, s.hi}, span{s.lo, idx})
		}
	}

	var out Contour
	for k := 0; k < length; k++ {
		if keep[k] {
			out = append(out, at(k))
		}
	}
	return out
}

// dropCollinear removes vertices lying between their neighbours and within
// epsilon/sqrt(2) of the line joining them. Axis-aligned spans are left
// alone, and at least three vertices always remain.
func dropCollinear(poly Contour, epsilon float64) Contour {
	out := append(Contour(nil), poly...)
	for i := 0; i < len(out) && len(out) > 3; {
		n := len(out)
		prev, cur, next := out[(i+n-1)%n], out[i], out[(i+1)%n]
		dx, dy := float64(next.X-prev.X), float64(next.Y-prev.Y)
		cross := math.Abs(float64(cur.X-prev.X)*dy - float64(cur.Y-prev.Y)*dx)
		inner := float64(cur.X-prev.X)*float64(next.X-cur.X) + float64(cur.Y-prev.Y)*float64(next.Y-cur.Y)
		if dx != 0 && dy != 0 && inner >= 0 && cross*cross <= 0.5*epsilon*epsilon*(dx*dx+dy*dy) {
			out = append(out[:i], out[i+1:]...)
			continue
		}
		i++
	}
	return out
}

func distSq(a, b Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
