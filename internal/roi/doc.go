// Package roi locates the sampling window on a photographed sampling card
// and rectifies it into an axis-aligned image.
//
// Extraction is split into two stages that the pipeline runs back to back:
//
//  1. Locate binarizes the photo with an inverted adaptive mean threshold,
//     traces every contour with its full nesting hierarchy, keeps the convex
//     quadrilaterals larger than MinArea, and picks the second largest. The
//     largest quadrilateral on a card is the outer edge of the printed frame;
//     the second is the frame's inner edge, which bounds the sampling window.
//     Fewer than two candidates means no window was found. That is a normal
//     outcome, reported as a nil Corners, never as an error.
//
//  2. Rectify refines the four corners to sub-pixel precision, insets them a
//     few pixels toward their centroid so the printed stroke stays out of the
//     result, solves the homography onto a rectangle whose sides are the
//     longer of each pair of opposite edges, and warps the photo through it.
//
// # Corner Labels
//
// Corners are labelled from coordinate extremes of the contour:
//
//	TopLeft     = argmin(x+y)
//	BottomRight = argmax(x+y)
//	TopRight    = argmin(x-y)
//	BottomLeft  = argmax(x-y)
//
// For an upright card TopRight and BottomLeft land on the visual bottom-left
// and top-right corners, so the rectified window is the transpose of the
// photographed one. Particle analysis is invariant under that transpose and
// the labels are kept stable so that results stay comparable with
// previously archived measurements.
//
// # Backends
//
// The default backend is pure Go. Building with -tags opencv adds a gocv
// backend with the same contract; without the tag NewExtractor(OpenCV)
// returns ErrOpenCVUnavailable.
package roi
