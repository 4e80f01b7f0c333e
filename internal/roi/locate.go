package roi

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/particle-tools-mcp/internal/imaging"
)

// LocateOptions configures window detection.
type LocateOptions struct {
	// BlockSize is the side of the adaptive threshold neighbourhood (odd).
	BlockSize int

	// C is subtracted from the local mean before comparing.
	C int

	Candidates CandidateOptions

	// CandidateIndex selects which candidate, in descending area order, is
	// the sampling window. 1 skips the outer edge of the printed frame.
	CandidateIndex int

	// ContourColor and Thickness style the contour drawn on the annotated
	// copy of the photo.
	ContourColor color.Color
	Thickness    int

	// Labels draws TL/TR/BR/BL next to the identified corners.
	Labels bool
}

// DefaultLocateOptions returns the detection defaults: an 11 px block, C of
// 2, the second-largest candidate, and a 2 px green outline with labels.
func DefaultLocateOptions() LocateOptions {
	return LocateOptions{
		BlockSize:      11,
		C:              2,
		Candidates:     DefaultCandidateOptions(),
		CandidateIndex: 1,
		ContourColor:   color.NRGBA{0, 255, 0, 255},
		Thickness:      2,
		Labels:         true,
	}
}

// Location is the outcome of Locate.
type Location struct {
	// Annotated is a copy of the photo with the selected contour drawn on
	// it. It is present even when nothing was found.
	Annotated *image.NRGBA

	// Corners is nil when no sampling window was found.
	Corners *Corners

	// Contour is the selected border, nil when nothing was found.
	Contour Contour

	// Candidates is the number of qualifying quadrilaterals.
	Candidates int
}

// Found reports whether a sampling window was located.
func (l *Location) Found() bool {
	return l != nil && l.Corners != nil
}

// Locate finds the sampling window in photo.
//
// The photo is never modified. A missing window is reported through a nil
// Location.Corners; the only error is ErrEmptyImage.
func Locate(photo image.Image, opts LocateOptions) (*Location, error) {
	if photo == nil || photo.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if opts.BlockSize < 3 || opts.BlockSize%2 == 0 {
		return nil, fmt.Errorf("invalid threshold block size %d: must be odd and >= 3", opts.BlockSize)
	}

	annotated := imaging.Clone(photo)
	gray := imaging.ToGray(annotated)
	binary := imaging.AdaptiveThresholdMeanInv(gray, opts.BlockSize, opts.C)

	contours := TraceContours(binary)
	candidates := QuadCandidates(contours, opts.Candidates)

	loc := &Location{Annotated: annotated, Candidates: len(candidates)}
	if opts.CandidateIndex < 0 || opts.CandidateIndex >= len(candidates) {
		return loc, nil
	}

	selected := candidates[opts.CandidateIndex]
	loc.Contour = selected.Contour
	loc.Corners = IdentifyCorners(selected.Contour)

	annotate(annotated, loc, opts)
	return loc, nil
}

func annotate(img *image.NRGBA, loc *Location, opts LocateOptions) {
	c := opts.ContourColor
	if c == nil {
		c = color.NRGBA{0, 255, 0, 255}
	}
	imaging.DrawPolyline(img, loc.Contour.ImagePoints(), c, opts.Thickness)

	if !opts.Labels || loc.Corners == nil {
		return
	}
	fg := color.NRGBA{255, 255, 255, 255}
	bg := color.NRGBA{0, 0, 0, 200}
	labels := []struct {
		text string
		at   PointF
	}{
		{"TL", loc.Corners.TopLeft},
		{"TR", loc.Corners.TopRight},
		{"BR", loc.Corners.BottomRight},
		{"BL", loc.Corners.BottomLeft},
	}
	for _, l := range labels {
		p := l.at.Image()
		imaging.DrawLabel(img, p.X+4, p.Y+4, l.text, fg, bg)
	}
}
