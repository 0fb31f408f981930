package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultSimilarityThreshold is the minimum similarity (0-100) for grouping
const DefaultSimilarityThreshold = 90

// ScanConfig holds every option of a scan. It is validated once at scan
// start and treated as immutable afterwards.
type ScanConfig struct {
	ScanPath              string
	IncludeSubdirectories bool
	MinFileSize           int64 // inclusive lower bound in bytes, 0 = none
	MaxFileSize           int64 // inclusive upper bound in bytes, 0 = none
	ExcludedFolders       []string
	ExcludedExtensions    []string
	SimilarityThreshold   float64
	Algorithm             Algorithm
}

// DefaultScanConfig returns a config for path with all defaults applied
func DefaultScanConfig(path string) ScanConfig {
	return ScanConfig{
		ScanPath:              path,
		IncludeSubdirectories: true,
		SimilarityThreshold:   DefaultSimilarityThreshold,
		Algorithm:             AlgorithmBoth,
	}
}

// Normalize returns a copy with paths cleaned and made absolute, and
// extensions lower-cased without their leading dot.
func (c ScanConfig) Normalize() (ScanConfig, error) {
	out := c
	if out.ScanPath != "" {
		abs, err := filepath.Abs(out.ScanPath)
		if err != nil {
			return c, fmt.Errorf("failed to resolve path: %w", err)
		}
		out.ScanPath = abs
	}

	out.ExcludedFolders = make([]string, 0, len(c.ExcludedFolders))
	for _, dir := range c.ExcludedFolders {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return c, fmt.Errorf("failed to resolve excluded folder %s: %w", dir, err)
		}
		out.ExcludedFolders = append(out.ExcludedFolders, abs)
	}

	out.ExcludedExtensions = make([]string, 0, len(c.ExcludedExtensions))
	for _, ext := range c.ExcludedExtensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			out.ExcludedExtensions = append(out.ExcludedExtensions, ext)
		}
	}

	if out.Algorithm == "" {
		out.Algorithm = AlgorithmBoth
	}
	return out, nil
}

// Validate checks option values. It does not touch the file system.
func (c ScanConfig) Validate() error {
	var errs []error
	if c.ScanPath == "" {
		errs = append(errs, errors.New("scan path is required"))
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		errs = append(errs, fmt.Errorf("similarity threshold %v out of range 0-100", c.SimilarityThreshold))
	}
	if c.MinFileSize < 0 {
		errs = append(errs, fmt.Errorf("min file size %d is negative", c.MinFileSize))
	}
	if c.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("max file size %d is negative", c.MaxFileSize))
	}
	if c.MinFileSize > 0 && c.MaxFileSize > 0 && c.MaxFileSize < c.MinFileSize {
		errs = append(errs, fmt.Errorf("max file size %d is below min file size %d", c.MaxFileSize, c.MinFileSize))
	}
	switch c.Algorithm {
	case AlgorithmExact, AlgorithmPerceptual, AlgorithmBoth:
	default:
		errs = append(errs, fmt.Errorf("unknown algorithm %q", c.Algorithm))
	}
	return errors.Join(errs...)
}

// IsExcludedFolder reports whether dir is listed verbatim in ExcludedFolders.
// Prefix and glob matching are intentionally not supported.
func (c ScanConfig) IsExcludedFolder(dir string) bool {
	for _, ex := range c.ExcludedFolders {
		if ex == dir {
			return true
		}
	}
	return false
}

// IsExcludedExtension reports whether ext (lower-case, no dot) is excluded
func (c ScanConfig) IsExcludedExtension(ext string) bool {
	for _, ex := range c.ExcludedExtensions {
		if ex == ext {
			return true
		}
	}
	return false
}

// SizeAllowed applies the min/max size bounds
func (c ScanConfig) SizeAllowed(size int64) bool {
	if c.MinFileSize > 0 && size < c.MinFileSize {
		return false
	}
	if c.MaxFileSize > 0 && size > c.MaxFileSize {
		return false
	}
	return true
}
