package ocr

import (
	"image"
	"regexp"
	"strings"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Bounds is a bounding box in photo coordinates.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Word is one recognized word.
type Word struct {
	Text string `json:"text"`

	// Confidence is Tesseract's word confidence scaled to [0, 1].
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// LabelResult is the text read from a card label.
type LabelResult struct {
	Text   string `json:"text"`
	Words  []Word `json:"words"`
	Region Bounds `json:"region"`

	// Dates holds every date-like token found in Text, in reading order.
	Dates []string `json:"dates,omitempty"`
}

var dateToken = regexp.MustCompile(`\b(\d{4}[-./]\d{1,2}[-./]\d{1,2}|\d{1,2}[-./]\d{1,2}[-./]\d{2,4})\b`)

// FindDates returns the date-like tokens in text such as 2024-03-01,
// 01.03.2024 or 1/3/24.
func FindDates(text string) []string {
	return dateToken.FindAllString(text, -1)
}

func boundsOf(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// newLabelResult assembles a result for text recognized inside region.
// Word boxes are relative to the crop and are shifted into photo
// coordinates.
func newLabelResult(text string, words []Word, region image.Rectangle) *LabelResult {
	for i := range words {
		words[i].Bounds.X1 += region.Min.X
		words[i].Bounds.Y1 += region.Min.Y
		words[i].Bounds.X2 += region.Min.X
		words[i].Bounds.Y2 += region.Min.Y
	}
	text = strings.TrimSpace(text)
	return &LabelResult{
		Text:   text,
		Words:  words,
		Region: boundsOf(region),
		Dates:  FindDates(text),
	}
}

// labelRegion clips region to the photo; an empty region selects the whole
// photo.
func labelRegion(img image.Image, region image.Rectangle) image.Rectangle {
	if region.Empty() {
		return img.Bounds()
	}
	return region.Canon().Intersect(img.Bounds())
}
