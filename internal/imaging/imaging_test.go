package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestProcessFormats(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"jpeg", createTestJPEG(100, 100)},
		{"png", createTestPNG(100, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cover, err := Process(bytes.NewReader(tt.data), Options{})
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if cover.MIME != "image/jpeg" {
				t.Errorf("expected image/jpeg, got %s", cover.MIME)
			}
			if len(cover.Data) == 0 {
				t.Error("expected non-empty data")
			}
		})
	}
}

func TestProcessDownscale(t *testing.T) {
	data := createTestPNG(900, 300)
	cover, err := Process(bytes.NewReader(data), Options{MaxDimension: 300})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if cover.Width != 300 || cover.Height != 100 {
		t.Errorf("expected 300x100, got %dx%d", cover.Width, cover.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(cover.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 100 {
		t.Errorf("encoded %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessDefaultMaxDimension(t *testing.T) {
	cover, err := Process(bytes.NewReader(createTestJPEG(1500, 2000)), Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if cover.Width > DefaultMaxDimension || cover.Height != DefaultMaxDimension {
		t.Errorf("got %dx%d", cover.Width, cover.Height)
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	cover, err := Process(bytes.NewReader(createTestJPEG(50, 50)), Options{MaxDimension: 400})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if cover.Width != 50 || cover.Height != 50 {
		t.Errorf("small image should not be resized: got %dx%d", cover.Width, cover.Height)
	}
}

func TestProcessRejected(t *testing.T) {
	tests := map[string][]byte{
		"text": []byte("not an image"),
		"gif":  []byte("GIF89a..."),
	}
	for name, data := range tests {
		_, err := Process(bytes.NewReader(data), Options{})
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected ErrUnsupported, got %v", name, err)
		}
	}
}
