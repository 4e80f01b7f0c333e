// Package imaging provides the pixel-level building blocks shared by the
// sampling-card pipeline.
//
// It covers photo loading and caching, grayscale conversion, smoothing,
// adaptive binarization, morphology, resampling, annotation and PNG
// encoding. Higher-level packages (roi, particles) compose these operations
// and never touch decoders or encoders directly.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner, X increasing rightward and Y increasing downward. Every
// image produced by this package has bounds starting at (0,0).
//
// # Binary Masks
//
// Masks are *image.Gray values holding only Foreground (255) and Background
// (0). Filters that can introduce intermediate values (ResizeGray with a
// smoothing kernel) leave re-binarization to the caller, which decides the
// cut-off.
//
// # Thread Safety
//
// PhotoCache is safe for concurrent use. All other functions are stateless
// and never modify their inputs, so they can run concurrently on the same
// source image.
//
// # Libraries
//
// Grayscale conversion, Gaussian smoothing and the local mean used by the
// adaptive threshold come from github.com/anthonynsimon/bild. Cloning,
// cropping and resampling use github.com/disintegration/imaging. Labels are
// rendered with golang.org/x/image/font/basicfont and previews are scaled
// with golang.org/x/image/draw.
package imaging
