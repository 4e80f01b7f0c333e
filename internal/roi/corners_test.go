package roi

import (
	"math"
	"testing"
)

func near(a, b PointF, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestIdentifyCorners(t *testing.T) {
	tests := []struct {
		name    string
		contour Contour
		want    Corners
	}{
		{
			name:    "axis aligned square",
			contour: Contour{{55, 55}, {55, 244}, {244, 244}, {244, 55}},
			want: Corners{
				TopLeft:     PointF{55, 55},
				BottomRight: PointF{244, 244},
				TopRight:    PointF{55, 244},
				BottomLeft:  PointF{244, 55},
			},
		},
		{
			name:    "skewed quadrilateral",
			contour: Contour{{60, 50}, {250, 70}, {240, 260}, {50, 240}},
			want: Corners{
				TopLeft:     PointF{60, 50},
				BottomRight: PointF{240, 260},
				TopRight:    PointF{50, 240},
				BottomLeft:  PointF{250, 70},
			},
		},
		{
			name:    "first extreme wins ties",
			contour: Contour{{1, 0}, {0, 1}, {5, 5}, {4, 6}, {6, 4}},
			want: Corners{
				TopLeft:     PointF{1, 0},
				BottomRight: PointF{5, 5},
				TopRight:    PointF{4, 6},
				BottomLeft:  PointF{6, 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentifyCorners(tt.contour)
			if got == nil {
				t.Fatal("IdentifyCorners returned nil")
			}
			if *got != tt.want {
				t.Errorf("got %+v, want %+v", *got, tt.want)
			}
		})
	}

	if IdentifyCorners(nil) != nil {
		t.Error("empty contour should give nil corners")
	}
}

func TestCorners_OrderedRoundTrip(t *testing.T) {
	c := Corners{
		TopLeft:     PointF{1, 2},
		TopRight:    PointF{3, 4},
		BottomRight: PointF{5, 6},
		BottomLeft:  PointF{7, 8},
	}
	o := c.Ordered()
	if o[0] != c.TopLeft || o[1] != c.TopRight || o[2] != c.BottomRight || o[3] != c.BottomLeft {
		t.Errorf("Ordered: got %v", o)
	}
	if FromOrdered(o) != c {
		t.Error("FromOrdered(Ordered()) should round trip")
	}
}

func TestCorners_Inset(t *testing.T) {
	c := Corners{
		TopLeft:     PointF{0, 0},
		TopRight:    PointF{10, 0},
		BottomRight: PointF{10, 10},
		BottomLeft:  PointF{0, 10},
	}

	got := c.Inset(math.Sqrt2)
	want := Corners{
		TopLeft:     PointF{1, 1},
		TopRight:    PointF{9, 1},
		BottomRight: PointF{9, 9},
		BottomLeft:  PointF{1, 9},
	}
	for i, p := range got.Ordered() {
		if !near(p, want.Ordered()[i], 1e-9) {
			t.Errorf("corner %d: got %v, want %v", i, p, want.Ordered()[i])
		}
	}

	for i, p := range c.Inset(5).Ordered() {
		if d := p.Dist(c.Ordered()[i]); math.Abs(d-5) > 1e-9 {
			t.Errorf("corner %d moved %v, want 5", i, d)
		}
	}

	collapsed := Corners{}
	if collapsed.Inset(5) != collapsed {
		t.Error("corners on their centroid should not move")
	}
}

func TestCorners_OutputSize(t *testing.T) {
	tests := []struct {
		name  string
		c     Corners
		wantW int
		wantH int
	}{
		{
			name:  "rectangle",
			c:     Corners{PointF{0, 0}, PointF{100, 0}, PointF{0, 50}, PointF{100, 50}},
			wantW: 100, wantH: 50,
		},
		{
			name:  "longer opposite edge wins",
			c:     Corners{TopLeft: PointF{0, 0}, TopRight: PointF{80.9, 0}, BottomLeft: PointF{0, 40}, BottomRight: PointF{100.5, 40}},
			wantW: 100, wantH: 44,
		},
		{
			name:  "coincident",
			c:     Corners{PointF{7, 7}, PointF{7, 7}, PointF{7, 7}, PointF{7, 7}},
			wantW: 0, wantH: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.c.OutputSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
