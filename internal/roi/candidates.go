package roi

import "sort"

// Candidate is a contour whose polygon approximation is a convex
// quadrilateral.
type Candidate struct {
	// Index is the position of the contour in the TraceContours result.
	Index int `json:"index"`

	// Contour is the traced border.
	Contour Contour `json:"-"`

	// Quad is the four-vertex approximation of Contour.
	Quad Contour `json:"quad"`

	// Area is the shoelace area of Contour in square pixels.
	Area float64 `json:"area"`
}

// CandidateOptions filters contours down to window candidates.
type CandidateOptions struct {
	// MinArea is the exclusive lower bound on contour area in px².
	MinArea float64

	// EpsilonRatio scales the closed arc length into the polygon
	// approximation tolerance.
	EpsilonRatio float64
}

// DefaultCandidateOptions returns MinArea 1000 and EpsilonRatio 0.1.
func DefaultCandidateOptions() CandidateOptions {
	return CandidateOptions{MinArea: 1000, EpsilonRatio: 0.1}
}

// QuadCandidates keeps the contours that approximate to a convex
// quadrilateral with area above MinArea, sorted by area with the largest
// first. Contours of equal area keep their trace order.
func QuadCandidates(contours []TracedContour, opts CandidateOptions) []Candidate {
	var out []Candidate
	for i, tc := range contours {
		eps := opts.EpsilonRatio * tc.Points.ArcLength(true)
		quad := ApproxPolygon(tc.Points, eps)
		if len(quad) != 4 || !quad.IsConvex() {
			continue
		}
		area := tc.Points.Area()
		if area <= opts.MinArea {
			continue
		}
		out = append(out, Candidate{Index: i, Contour: tc.Points, Quad: quad, Area: area})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Area > out[b].Area
	})
	return out
}
