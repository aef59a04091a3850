package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngBytes(t testing.TB, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeScalesWideImages(t *testing.T) {
	out, err := Normalize(bytes.NewReader(pngBytes(t, 1600, 400)), 800)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not jpeg: %v", err)
	}
	if got := img.Bounds().Size(); got.X != 800 || got.Y != 200 {
		t.Fatalf("size = %v, want 800x200", got)
	}
}

func TestNormalizeKeepsNarrowImages(t *testing.T) {
	out, err := Normalize(bytes.NewReader(pngBytes(t, 120, 90)), 800)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" || cfg.Width != 120 || cfg.Height != 90 {
		t.Fatalf("got %s %dx%d, want jpeg 120x90", format, cfg.Width, cfg.Height)
	}
}

func TestNormalizeRejectsNonImages(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte("hello"), []byte("%PDF-1.4")} {
		if _, err := Normalize(bytes.NewReader(payload), 800); !errors.Is(err, ErrUnsupportedImage) {
			t.Fatalf("Normalize(%q) error = %v, want ErrUnsupportedImage", payload, err)
		}
	}
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{1600, 400, 800, 800, 200},
		{800, 600, 800, 800, 600},
		{100, 50, 0, 100, 50},
		{4000, 1, 800, 800, 1},
	}
	for _, tt := range tests {
		w, h := TargetSize(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Fatalf("TargetSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}

func FuzzNormalize(f *testing.F) {
	f.Add(pngBytes(f, 4, 4))
	f.Add([]byte("GIF89a"))
	f.Add([]byte{0xff, 0xd8, 0xff})

	f.Fuzz(func(t *testing.T, payload []byte) {
		out, err := Normalize(bytes.NewReader(payload), 64)
		if err != nil {
			return
		}
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("normalized output is not jpeg: %v", err)
		}
		if cfg.Width > 64 {
			t.Fatalf("width %d exceeds max", cfg.Width)
		}
	})
}
