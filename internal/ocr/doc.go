// Package ocr reads the printed or handwritten label of a sampling card,
// typically the site name and exposure dates written above the window.
//
// Recognition uses Tesseract through gosseract and therefore needs cgo and
// an installed Tesseract with the requested language data:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Builds without cgo still compile; ReadLabel then returns
// ErrOCRUnavailable and Available is false.
package ocr
