package imagedecode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"dupgroup/internal/hash"
)

// halfImage returns a PNG whose left half is dark and right half bright
func halfImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(10)
			if x >= w/2 {
				v = 200
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeGreyscale_FillsGrid(t *testing.T) {
	d := New()
	data := halfImage(t, 64, 32) // non-square source is stretched

	pixels, err := d.DecodeGreyscale(data, 8, 8)
	if err != nil {
		t.Fatalf("DecodeGreyscale failed: %v", err)
	}
	if len(pixels) != 64 {
		t.Fatalf("got %d pixels, want 64", len(pixels))
	}

	h := hash.PerceptualHash(pixels)
	want := strings.Repeat("00001111", 8)
	if h != want {
		t.Errorf("hash = %s, want %s", h, want)
	}
}

func TestDecodeGreyscale_ResizedCopyHashesEqual(t *testing.T) {
	d := New()
	small, err := d.DecodeGreyscale(halfImage(t, 32, 32), 8, 8)
	if err != nil {
		t.Fatalf("DecodeGreyscale failed: %v", err)
	}
	large, err := d.DecodeGreyscale(halfImage(t, 256, 256), 8, 8)
	if err != nil {
		t.Fatalf("DecodeGreyscale failed: %v", err)
	}

	if s := hash.Similarity(hash.PerceptualHash(small), hash.PerceptualHash(large)); s != 100 {
		t.Errorf("similarity of resized copies = %v, want 100", s)
	}
}

func TestDecodeGreyscale_Corrupt(t *testing.T) {
	d := New()
	if _, err := d.DecodeGreyscale([]byte("not an image"), 8, 8); err == nil {
		t.Error("expected error for corrupt data")
	}
	if _, err := d.DecodeGreyscale(halfImage(t, 4, 4), 0, 8); err == nil {
		t.Error("expected error for zero target width")
	}
}

func TestReadMetadata(t *testing.T) {
	d := New()
	meta, err := d.ReadMetadata(halfImage(t, 40, 30))
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	if meta.Width != 40 || meta.Height != 30 {
		t.Errorf("dimensions = %dx%d, want 40x30", meta.Width, meta.Height)
	}
	if meta.Format != "png" {
		t.Errorf("format = %q, want png", meta.Format)
	}
	if meta.Orientation != 0 {
		t.Errorf("orientation = %d, want 0 for image without EXIF", meta.Orientation)
	}
}

func TestReadMetadata_Corrupt(t *testing.T) {
	if _, err := New().ReadMetadata([]byte{0x00, 0x01}); err == nil {
		t.Error("expected error for corrupt header")
	}
}
