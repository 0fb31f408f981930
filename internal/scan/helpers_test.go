package scan

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
)

// pattern selects the brightness of pixel (x, y) in a w x h image
type pattern func(x, y, w, h int) uint8

func leftRight(x, _, w, _ int) uint8 {
	if x >= w/2 {
		return 220
	}
	return 20
}

func checker(x, y, w, h int) uint8 {
	if (x*4/w+y*4/h)%2 == 0 {
		return 230
	}
	return 15
}

// pngBytes encodes a w x h greyscale PNG drawn with p
func pngBytes(t *testing.T, w, h int, p pattern) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: p(x, y, w, h)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// writeFile creates path and its parent directories on fs
func writeFile(t *testing.T, fs afero.Fs, path string, data []byte) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

// failingFs refuses to open one path, simulating a permission error
type failingFs struct {
	afero.Fs
	fail string
}

func (f failingFs) Open(name string) (afero.File, error) {
	if name == f.fail {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name)
}
