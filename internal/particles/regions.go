package particles

import (
	"image"

	"github.com/ironsheep/particle-tools-mcp/internal/roi"
)

// Region is one external region of a mask: a foreground component together
// with every hole it encloses and anything inside those holes.
type Region struct {
	// Area is the polygon area enclosed by the region's outer border, in
	// px². Borders run through pixel centres, so a single pixel or a
	// one-pixel-wide line has area 0.
	Area float64 `json:"area_px"`

	// Bounds is the bounding box of the region.
	Bounds image.Rectangle `json:"bounds"`

	// Border is the outer border with straight runs compressed.
	Border roi.Contour `json:"-"`
}

// ExternalRegions returns the regions bounded by the outermost borders of the
// non-zero pixels of mask, in raster order of their first pixel.
//
// Foreground is 8-connected. A component lying inside the hole of another is
// not reported, so a ring counts once and a speck inside a hole is absorbed
// by the surrounding region.
func ExternalRegions(mask *image.Gray) []Region {
	var regions []Region
	for _, tc := range roi.TraceContours(mask) {
		if tc.Hole || tc.Parent != -1 {
			continue
		}
		regions = append(regions, Region{
			Area:   tc.Points.Area(),
			Bounds: borderBounds(tc.Points),
			Border: tc.Points,
		})
	}
	return regions
}

func borderBounds(c roi.Contour) image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	minX, minY, maxX, maxY := c[0].X, c[0].Y, c[0].X, c[0].Y
	for _, p := range c[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
