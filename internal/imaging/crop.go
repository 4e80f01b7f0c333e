package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropRegion extracts region from img. The region is clipped to the image
// bounds; an empty intersection is an error.
func CropRegion(img image.Image, region image.Rectangle) (*image.NRGBA, error) {
	r := region.Canon().Intersect(img.Bounds())
	if r.Empty() {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", region, img.Bounds())
	}
	return imaging.Crop(img, r), nil
}

// LabelBand returns the strip of the photo between the top edge and the
// upper edge of the sampling window, where cards carry their printed label.
// When the window starts at the top of the photo the upper quarter is used.
func LabelBand(bounds image.Rectangle, windowTop int) image.Rectangle {
	top := windowTop - bounds.Min.Y
	if top <= 0 || top > bounds.Dy() {
		top = bounds.Dy() / 4
	}
	return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+top)
}
