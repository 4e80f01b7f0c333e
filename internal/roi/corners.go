package roi

// Corners holds the four labelled corners of the sampling window.
// See the package documentation for how labels are assigned.
type Corners struct {
	TopLeft     PointF `json:"top_left"`
	TopRight    PointF `json:"top_right"`
	BottomLeft  PointF `json:"bottom_left"`
	BottomRight PointF `json:"bottom_right"`
}

// IdentifyCorners labels the corners of a contour from coordinate-sum and
// coordinate-difference extremes. The first point reaching an extreme wins
// ties. It returns nil for an empty contour.
func IdentifyCorners(c Contour) *Corners {
	if len(c) == 0 {
		return nil
	}
	tl, br, tr, bl := 0, 0, 0, 0
	for i, p := range c {
		sum, diff := p.X+p.Y, p.X-p.Y
		if sum < c[tl].X+c[tl].Y {
			tl = i
		}
		if sum > c[br].X+c[br].Y {
			br = i
		}
		if diff < c[tr].X-c[tr].Y {
			tr = i
		}
		if diff > c[bl].X-c[bl].Y {
			bl = i
		}
	}
	return &Corners{
		TopLeft:     c[tl].Float(),
		TopRight:    c[tr].Float(),
		BottomLeft:  c[bl].Float(),
		BottomRight: c[br].Float(),
	}
}

// Ordered returns the corners in homography source order:
// top-left, top-right, bottom-right, bottom-left.
func (c Corners) Ordered() [4]PointF {
	return [4]PointF{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}
}

// FromOrdered is the inverse of Ordered.
func FromOrdered(pts [4]PointF) Corners {
	return Corners{TopLeft: pts[0], TopRight: pts[1], BottomRight: pts[2], BottomLeft: pts[3]}
}

// Centroid returns the mean of the four corners.
func (c Corners) Centroid() PointF {
	pts := c.Ordered()
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	return PointF{X: sx / 4, Y: sy / 4}
}

// Inset moves every corner margin pixels toward the centroid along the line
// joining them. A corner sitting on the centroid is left in place.
func (c Corners) Inset(margin float64) Corners {
	centroid := c.Centroid()
	pts := c.Ordered()
	for i, p := range pts {
		d := p.Dist(centroid)
		if d == 0 {
			continue
		}
		pts[i] = PointF{
			X: p.X + margin*(centroid.X-p.X)/d,
			Y: p.Y + margin*(centroid.Y-p.Y)/d,
		}
	}
	return FromOrdered(pts)
}

// OutputSize returns the rectified width and height: each side is the longer
// of the two opposite edges, truncated to whole pixels.
func (c Corners) OutputSize() (int, int) {
	width := max(int(c.BottomRight.Dist(c.BottomLeft)), int(c.TopRight.Dist(c.TopLeft)))
	height := max(int(c.TopRight.Dist(c.BottomRight)), int(c.TopLeft.Dist(c.BottomLeft)))
	return width, height
}
