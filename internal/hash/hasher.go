package hash

import (
	"crypto/md5"
	"encoding/hex"
	"maps"
	"math"
	"path/filepath"
	"slices"
	"strings"
)

// GridSize is the side length of the greyscale grid used for perceptual hashing
const GridSize = 8

// supportedExtensions is the image extension allow-list (lower-case, no dot)
var supportedExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true,
	"webp": true, "heic": true, "heif": true, "tiff": true, "tif": true,
}

// Extension returns the lower-cased substring after the last dot of the
// file name, or "" if there is none.
func Extension(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// IsSupportedExtension checks ext (lower-case, no dot) against the allow-list
func IsSupportedExtension(ext string) bool {
	return supportedExtensions[ext]
}

// SupportedExtensions returns the allow-list in sorted order
func SupportedExtensions() []string {
	return slices.Sorted(maps.Keys(supportedExtensions))
}

// IsSupportedImage checks if a file is a supported image format
func IsSupportedImage(path string) bool {
	return IsSupportedExtension(Extension(path))
}

// ContentHash returns the MD5 digest of data as lowercase hex. Equal bytes
// always yield equal digests.
func ContentHash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// PerceptualHash computes an average hash from greyscale luminance values in
// row-major order. Each pixel contributes '1' if it is strictly brighter than
// the mean, else '0'. An empty buffer yields "".
//
// The hash survives re-encoding and resizing but not rotation, cropping or
// mirroring.
func PerceptualHash(pixels []float64) string {
	if len(pixels) == 0 {
		return ""
	}

	var sum float64
	for _, p := range pixels {
		sum += p
	}
	mean := sum / float64(len(pixels))

	var b strings.Builder
	b.Grow(len(pixels))
	for _, p := range pixels {
		if p > mean {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// HammingDistance counts the positions at which a and b differ. It returns
// -1 if the lengths differ.
func HammingDistance(a, b string) int {
	if len(a) != len(b) {
		return -1
	}
	dist := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			dist++
		}
	}
	return dist
}

// Similarity returns the percentage (0-100, two decimals) of matching
// positions between two equal-length hashes. Hashes of different length,
// or empty hashes, score 0.
func Similarity(a, b string) float64 {
	dist := HammingDistance(a, b)
	if dist < 0 || len(a) == 0 {
		return 0
	}
	l := float64(len(a))
	return math.Round((l-float64(dist))/l*10000) / 100
}

// Round2 rounds v to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
