package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{200, 30, 30, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func testPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestThumbnailJPEG(t *testing.T) {
	out, err := Thumbnail(bytes.NewReader(testJPEG(100, 100)))
	if err != nil {
		t.Fatalf("Thumbnail JPEG: %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestThumbnailPNGBecomesJPEG(t *testing.T) {
	out, err := Thumbnail(bytes.NewReader(testPNG(100, 100)))
	if err != nil {
		t.Fatalf("Thumbnail PNG: %v", err)
	}
	if _, format, err := image.Decode(bytes.NewReader(out)); err != nil || format != "jpeg" {
		t.Errorf("expected jpeg output, got %q err=%v", format, err)
	}
}

func TestThumbnailDownscale(t *testing.T) {
	out, err := Thumbnail(bytes.NewReader(testJPEG(1200, 800)))
	if err != nil {
		t.Fatalf("Thumbnail large image: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		t.Errorf("expected max %dx%d, got %dx%d", MaxDimension, MaxDimension, b.Dx(), b.Dy())
	}
}

func TestThumbnailSmallImageNotUpscaled(t *testing.T) {
	out, err := Thumbnail(bytes.NewReader(testJPEG(50, 60)))
	if err != nil {
		t.Fatalf("Thumbnail small image: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 50 || b.Dy() != 60 {
		t.Errorf("small image should not be resized: got %dx%d", b.Dx(), b.Dy())
	}
}

func TestThumbnailRejectsNonImage(t *testing.T) {
	if _, err := Thumbnail(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestThumbnailRejectsGIF(t *testing.T) {
	if _, err := Thumbnail(bytes.NewReader([]byte("GIF89a..."))); err == nil {
		t.Error("expected error for GIF")
	}
}
