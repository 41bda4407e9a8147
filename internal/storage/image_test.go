package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
)

func pngImage(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return &buf
}

func TestEncodeWebP(t *testing.T) {
	out, err := EncodeWebP(pngImage(t, 200, 100))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	img, err := webp.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not webp: %v", err)
	}
	if img.Bounds().Dx() != 200 {
		t.Errorf("small image should keep its width, got %d", img.Bounds().Dx())
	}
}

func TestEncodeWebPCapsWidth(t *testing.T) {
	out, err := EncodeWebP(pngImage(t, 2560, 1000))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	img, err := webp.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != maxImageWidth {
		t.Errorf("width = %d, want capped at %d", img.Bounds().Dx(), maxImageWidth)
	}
	// aspect ratio preserved
	if img.Bounds().Dy() != 500 {
		t.Errorf("height = %d, want 500", img.Bounds().Dy())
	}
}

func TestEncodeWebPRejectsGarbage(t *testing.T) {
	if _, err := EncodeWebP(strings.NewReader("not an image")); err == nil {
		t.Error("garbage input should fail to decode")
	}
}
