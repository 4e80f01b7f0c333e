package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestCropRegion(t *testing.T) {
	img := createInMemoryImage(100, 80, color.RGBA{10, 20, 30, 255})

	tests := []struct {
		name    string
		region  image.Rectangle
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"inside", image.Rect(10, 10, 60, 30), 50, 20, false},
		{"clipped", image.Rect(90, 70, 150, 150), 10, 10, false},
		{"reversed corners", image.Rect(60, 30, 10, 10), 50, 20, false},
		{"outside", image.Rect(200, 200, 300, 300), 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := CropRegion(img, tt.region)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", out.Bounds().Dx(), out.Bounds().Dy(), tt.wantW, tt.wantH)
			}
			if out.Bounds().Min != (image.Point{}) {
				t.Errorf("cropped image should start at origin, got %v", out.Bounds().Min)
			}
		})
	}
}

func TestLabelBand(t *testing.T) {
	b := image.Rect(0, 0, 200, 400)
	if got := LabelBand(b, 120); got != image.Rect(0, 0, 200, 120) {
		t.Errorf("window at 120: got %v", got)
	}
	if got := LabelBand(b, 0); got != image.Rect(0, 0, 200, 100) {
		t.Errorf("window at top: got %v", got)
	}
}

func TestEncodePNG(t *testing.T) {
	img := createInMemoryImage(30, 20, color.RGBA{255, 0, 0, 255})

	enc, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if enc.Width != 30 || enc.Height != 20 {
		t.Errorf("dimensions: got %dx%d", enc.Width, enc.Height)
	}
	if enc.MimeType != "image/png" {
		t.Errorf("MimeType: got %s", enc.MimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 30 {
		t.Errorf("decoded width: got %d", decoded.Bounds().Dx())
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name         string
		img          image.Image
		maxSide      int
		wantW, wantH int
	}{
		{"landscape", createInMemoryImage(400, 200, color.White), 100, 100, 50},
		{"portrait gray", newGray(50, 300, 255), 60, 10, 60},
		{"already small", createInMemoryImage(40, 30, color.White), 100, 40, 30},
		{"no limit", createInMemoryImage(40, 30, color.White), 0, 40, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Preview(tt.img, tt.maxSide)
			if err != nil {
				t.Fatalf("Preview failed: %v", err)
			}
			if enc.Width != tt.wantW || enc.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", enc.Width, enc.Height, tt.wantW, tt.wantH)
			}
		})
	}
}
