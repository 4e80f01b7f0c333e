package imaging

import (
	"image"
	"math"
	"testing"
)

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		in      string
		want    Interpolation
		wantErr bool
	}{
		{"", Bicubic, false},
		{"bicubic", Bicubic, false},
		{"CUBIC", Bicubic, false},
		{"nearest", Nearest, false},
		{"bilinear", Bilinear, false},
		{"linear", Bilinear, false},
		{" Lanczos ", Lanczos, false},
		{"area", Bicubic, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterpolation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInterpolation_StringRoundTrip(t *testing.T) {
	for _, i := range []Interpolation{Nearest, Bilinear, Bicubic, Lanczos} {
		got, err := ParseInterpolation(i.String())
		if err != nil || got != i {
			t.Errorf("%v: round trip gave %v, %v", i, got, err)
		}
	}
}

func TestCanonicalSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		target       float64
		wantW, wantH int
		wantScale    float64
	}{
		{"upscale 2x", 100, 50, 20000, 200, 100, 2},
		{"downscale", 400, 400, 40000, 200, 200, 0.5},
		{"identity", 60, 60, 3600, 60, 60, 1},
		{"truncates", 3, 3, 20, 4, 4, math.Sqrt(20.0 / 9)},
		{"empty", 0, 10, 100, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, s := CanonicalSize(tt.w, tt.h, tt.target)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			if math.Abs(s-tt.wantScale) > 1e-12 {
				t.Errorf("scale: got %v, want %v", s, tt.wantScale)
			}
			if tt.wantW > 0 && float64(w*h) > tt.target {
				t.Errorf("canonical pixel count %d exceeds target %v", w*h, tt.target)
			}
		})
	}
}

func TestResizeGray(t *testing.T) {
	src := newGray(10, 10, 0)
	fillGray(src, image.Rect(0, 0, 5, 10), 255)

	for _, interp := range []Interpolation{Nearest, Bilinear, Bicubic, Lanczos} {
		t.Run(interp.String(), func(t *testing.T) {
			out := ResizeGray(src, 40, 20, interp)
			if out.Bounds() != image.Rect(0, 0, 40, 20) {
				t.Fatalf("bounds: got %v", out.Bounds())
			}
			if v := out.GrayAt(2, 10).Y; v < 250 {
				t.Errorf("left half should stay white, got %d", v)
			}
			if v := out.GrayAt(37, 10).Y; v > 5 {
				t.Errorf("right half should stay black, got %d", v)
			}
		})
	}

	t.Run("same size copies", func(t *testing.T) {
		out := ResizeGray(src, 10, 10, Bicubic)
		out.Pix[0] = 7
		if src.Pix[0] != 255 {
			t.Error("ResizeGray must not alias its input")
		}
	})

	t.Run("zero size", func(t *testing.T) {
		if out := ResizeGray(src, 0, 5, Nearest); !out.Bounds().Empty() {
			t.Errorf("expected empty image, got %v", out.Bounds())
		}
	})
}
