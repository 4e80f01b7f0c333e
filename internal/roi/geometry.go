package roi

import (
	"image"
	"math"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointF is a sub-pixel coordinate.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Float converts p to a PointF.
func (p Point) Float() PointF {
	return PointF{X: float64(p.X), Y: float64(p.Y)}
}

// Image converts p to an image.Point, truncating toward zero.
func (p PointF) Image() image.Point {
	return image.Pt(int(p.X), int(p.Y))
}

// Sub returns p - q.
func (p PointF) Sub(q PointF) PointF {
	return PointF{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p PointF) Dist(q PointF) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Contour is an ordered closed sequence of boundary pixels.
type Contour []Point

// Area returns the absolute shoelace area of the closed polygon through the
// contour points.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	var sum int
	for i := range c {
		j := (i + 1) % len(c)
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return math.Abs(float64(sum)) / 2
}

// ArcLength returns the perimeter of the contour, including the closing
// segment when closed is true.
func (c Contour) ArcLength(closed bool) float64 {
	if len(c) < 2 {
		return 0
	}
	var length float64
	for i := 1; i < len(c); i++ {
		length += math.Hypot(float64(c[i].X-c[i-1].X), float64(c[i].Y-c[i-1].Y))
	}
	if closed {
		last := c[len(c)-1]
		length += math.Hypot(float64(c[0].X-last.X), float64(c[0].Y-last.Y))
	}
	return length
}

// IsConvex reports whether the closed polygon turns consistently in one
// direction. Collinear vertices are tolerated; polygons with fewer than three
// vertices are not convex.
func (c Contour) IsConvex() bool {
	n := len(c)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a, b, d := c[i], c[(i+1)%n], c[(i+2)%n]
		cross := (b.X-a.X)*(d.Y-b.Y) - (b.Y-a.Y)*(d.X-b.X)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return sign != 0
}

// ImagePoints converts the contour for drawing.
func (c Contour) ImagePoints() []image.Point {
	pts := make([]image.Point, len(c))
	for i, p := range c {
		pts[i] = image.Pt(p.X, p.Y)
	}
	return pts
}
