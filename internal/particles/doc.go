// Package particles segments deposited particles on a rectified sampling
// window and classifies them by size.
//
// Segment turns the rectified window into a binary mask and rescales it to a
// canonical pixel count, so that every window, whatever the resolution of
// the photo it came from, is measured on the same grid. Classify then treats
// each external region of the mask as one particle, converts its
// equivalent-circle diameter to micrometres, counts particles per size bin,
// and derives a pollution level from the density of the largest particles.
//
// # Size Bins
//
// Bins are closed on the right and together cover [0, ∞):
//
//	<=1um     d <= 1
//	1-2.5um   1 < d <= 2.5
//	2.5-10um  2.5 < d <= 10
//	>10um     d > 10
//
// # Pixel Scale
//
// The window is assumed to cover AssumedAreaUm2 square micrometres. With N
// pixels in the canonical mask the linear scale is sqrt(N / AssumedAreaUm2)
// pixels per micrometre, which is 1 for the default 36e6 pixel grid.
package particles
