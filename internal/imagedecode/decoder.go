// Package imagedecode turns encoded image bytes into the small greyscale
// grids and dimension metadata used for fingerprinting.
package imagedecode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/corona10/goimagehash/transforms"
	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder is the image decoding service used by the scanner
type Decoder interface {
	// DecodeGreyscale decodes data and stretches it to exactly width x height
	// (aspect ratio is ignored), returning row-major luminance values.
	DecodeGreyscale(data []byte, width, height int) ([]float64, error)
	// ReadMetadata returns the image dimensions without decoding pixels
	ReadMetadata(data []byte) (Metadata, error)
}

// Metadata describes an encoded image
type Metadata struct {
	Width       int
	Height      int
	Format      string
	Orientation int // EXIF orientation 1-8, 0 when absent
}

// ImageDecoder decodes the formats registered with the image package
type ImageDecoder struct{}

// New creates a new ImageDecoder
func New() *ImageDecoder {
	return &ImageDecoder{}
}

// DecodeGreyscale implements Decoder
func (d *ImageDecoder) DecodeGreyscale(data []byte, width, height int) ([]float64, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("image has no pixels")
	}

	// Both dimensions set: imaging stretches instead of preserving aspect
	resized := imaging.Resize(img, width, height, imaging.Linear)
	grey := transforms.Rgb2Gray(resized)

	pixels := make([]float64, 0, width*height)
	for y := 0; y < height; y++ {
		pixels = append(pixels, grey[y][:width]...)
	}
	return pixels, nil
}

// ReadMetadata implements Decoder. Width and height are reported in display
// orientation, so EXIF orientations 5-8 swap them.
func (d *ImageDecoder) ReadMetadata(data []byte) (Metadata, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read image header: %w", err)
	}

	meta := Metadata{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      strings.ToLower(format),
		Orientation: readOrientation(data),
	}
	if meta.Orientation >= 5 && meta.Orientation <= 8 {
		meta.Width, meta.Height = meta.Height, meta.Width
	}
	return meta, nil
}

// readOrientation returns the EXIF orientation tag, or 0 if there is none
func readOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0
	}
	return v
}
