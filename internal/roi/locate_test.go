package roi

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

var (
	black = color.NRGBA{0, 0, 0, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func solidPhoto(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// fillQuad paints every pixel whose centre lies inside the convex polygon.
func fillQuad(img *image.NRGBA, quad [4]PointF, c color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := PointF{float64(x), float64(y)}
			inside := true
			for i := 0; i < 4; i++ {
				a, d := quad[i], quad[(i+1)%4]
				if (d.X-a.X)*(p.Y-a.Y)-(d.Y-a.Y)*(p.X-a.X) < 0 {
					inside = false
					break
				}
			}
			if inside {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

// syntheticCard renders a dark card filling the photo with a bright
// sampling window spanning pixels 56..243 on both axes. Thresholding turns
// the dark band around the window into a ring: its outer border and its
// hole border are the two nested quadrilaterals.
func syntheticCard() *image.NRGBA {
	img := solidPhoto(300, 300, black)
	fillRect(img, image.Rect(56, 56, 244, 244), white)
	return img
}

func brightFraction(img *image.NRGBA) float64 {
	b := img.Bounds()
	bright := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).R > 200 {
				bright++
			}
		}
	}
	return float64(bright) / float64(b.Dx()*b.Dy())
}

func TestLocate_NestedSquaresSelectsInner(t *testing.T) {
	photo := syntheticCard()

	loc, err := Locate(photo, DefaultLocateOptions())
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if !loc.Found() {
		t.Fatalf("expected a window, got none (candidates=%d)", loc.Candidates)
	}
	if loc.Candidates != 2 {
		t.Errorf("Candidates: got %d, want 2", loc.Candidates)
	}

	want := Corners{
		TopLeft:     PointF{55, 55},
		TopRight:    PointF{55, 244},
		BottomRight: PointF{244, 244},
		BottomLeft:  PointF{244, 55},
	}
	got := loc.Corners.Ordered()
	for i, p := range want.Ordered() {
		if !near(got[i], p, 1.5) {
			t.Errorf("corner %d: got %v, want near %v", i, got[i], p)
		}
	}

	if loc.Annotated == nil || loc.Annotated.Bounds() != photo.Bounds() {
		t.Fatal("annotated photo missing or resized")
	}
	if loc.Annotated.NRGBAAt(55, 150) != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("contour not drawn: pixel (55,150) = %v", loc.Annotated.NRGBAAt(55, 150))
	}
	if photo.NRGBAAt(55, 150) != black {
		t.Error("Locate must not modify the input photo")
	}
}

func TestLocate_NotFound(t *testing.T) {
	single := solidPhoto(200, 200, white)
	fillRect(single, image.Rect(80, 80, 120, 120), black)

	tests := []struct {
		name           string
		photo          *image.NRGBA
		wantCandidates int
	}{
		{"blank card", solidPhoto(120, 90, white), 0},
		{"single quadrilateral", single, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Locate(tt.photo, DefaultLocateOptions())
			if err != nil {
				t.Fatalf("not found must not be an error: %v", err)
			}
			if loc.Found() || loc.Corners != nil || loc.Contour != nil {
				t.Errorf("expected no window, got %+v", loc.Corners)
			}
			if loc.Candidates != tt.wantCandidates {
				t.Errorf("Candidates: got %d, want %d", loc.Candidates, tt.wantCandidates)
			}
			if loc.Annotated == nil || loc.Annotated.Bounds() != tt.photo.Bounds() {
				t.Error("annotated copy should be returned even when nothing is found")
			}
			if loc.Annotated.NRGBAAt(0, 0) != tt.photo.NRGBAAt(0, 0) {
				t.Error("annotated copy should be unmodified when nothing is found")
			}
		})
	}
}

func TestLocate_Errors(t *testing.T) {
	if _, err := Locate(nil, DefaultLocateOptions()); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil photo: got %v, want ErrEmptyImage", err)
	}
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	if _, err := Locate(empty, DefaultLocateOptions()); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty photo: got %v, want ErrEmptyImage", err)
	}

	opts := DefaultLocateOptions()
	opts.BlockSize = 10
	if _, err := Locate(syntheticCard(), opts); err == nil {
		t.Error("expected error for even block size")
	}
}

func TestRectify_NestedSquares(t *testing.T) {
	photo := syntheticCard()
	loc, err := Locate(photo, DefaultLocateOptions())
	if err != nil || !loc.Found() {
		t.Fatalf("Locate: found=%v err=%v", loc.Found(), err)
	}

	r, err := Rectify(photo, loc.Corners, DefaultRectifyOptions())
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}

	// The window edge sits half way between pixels 55/56 and 243/244, and
	// the inset pulls each corner 5 px along the diagonal.
	expected := (243.5 - 55.5) - 2*5/math.Sqrt2
	for _, got := range []int{r.Width, r.Height} {
		if math.Abs(float64(got)-expected) > 2 {
			t.Errorf("side: got %d, want %.1f±2", got, expected)
		}
	}
	if r.Image.Bounds().Dx() != r.Width || r.Image.Bounds().Dy() != r.Height {
		t.Errorf("image %v does not match %dx%d", r.Image.Bounds(), r.Width, r.Height)
	}
	if f := brightFraction(r.Image); f < 0.99 {
		t.Errorf("rectified window should exclude the dark border, bright fraction %.3f", f)
	}

	fractional := false
	for _, p := range r.Corners.Ordered() {
		if p.X != math.Trunc(p.X) || p.Y != math.Trunc(p.Y) {
			fractional = true
		}
	}
	if !fractional {
		t.Errorf("refined corners were rounded to whole pixels: %+v", r.Corners)
	}

	for i, p := range r.Corners.Ordered() {
		got := r.Homography.Apply(p)
		if !near(got, Rectangle(r.Width, r.Height)[i], 1e-6) {
			t.Errorf("homography maps corner %d to %v", i, got)
		}
	}
}

func TestRectify_PerspectiveWindow(t *testing.T) {
	photo := solidPhoto(300, 300, black)
	quad := [4]PointF{{60, 50}, {250, 70}, {240, 260}, {50, 240}}
	fillQuad(photo, quad, white)

	loc, err := Locate(photo, DefaultLocateOptions())
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if !loc.Found() {
		t.Fatalf("expected a window in the skewed card (candidates=%d)", loc.Candidates)
	}

	r, err := Rectify(photo, loc.Corners, DefaultRectifyOptions())
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	for _, side := range []int{r.Width, r.Height} {
		if side < 170 || side > 195 {
			t.Errorf("side %d outside the expected 170..195", side)
		}
	}
	if f := brightFraction(r.Image); f < 0.95 {
		t.Errorf("rectified skewed window bright fraction %.3f, want >= 0.95", f)
	}
}

func TestRectify_Errors(t *testing.T) {
	photo := syntheticCard()

	if _, err := Rectify(photo, nil, DefaultRectifyOptions()); !errors.Is(err, ErrNoCorners) {
		t.Errorf("nil corners: got %v, want ErrNoCorners", err)
	}
	if _, err := Rectify(nil, &Corners{}, DefaultRectifyOptions()); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil photo: got %v, want ErrEmptyImage", err)
	}

	flat := solidPhoto(50, 50, white)
	same := PointF{10, 10}
	degenerate := &Corners{TopLeft: same, TopRight: same, BottomLeft: same, BottomRight: same}
	if _, err := Rectify(flat, degenerate, DefaultRectifyOptions()); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("coincident corners: got %v, want ErrDegenerateGeometry", err)
	}
}
