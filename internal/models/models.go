package models

// Algorithm selects which fingerprints take part in comparison
type Algorithm string

const (
	AlgorithmExact      Algorithm = "exact"
	AlgorithmPerceptual Algorithm = "perceptual"
	AlgorithmBoth       Algorithm = "both"
)

// UsesPerceptual reports whether perceptual hashes are computed and compared
func (a Algorithm) UsesPerceptual() bool {
	return a == AlgorithmPerceptual || a == AlgorithmBoth
}

// ImageFingerprint holds the hashes and metadata computed for one image file.
// It is created once during hashing and never mutated afterwards.
type ImageFingerprint struct {
	FilePath       string `json:"file_path"`
	ContentHash    string `json:"content_hash"`
	PerceptualHash string `json:"perceptual_hash,omitempty"` // empty when not computed or decode failed
	Width          int    `json:"width,omitempty"`           // 0 when unknown
	Height         int    `json:"height,omitempty"`
	Size           int64  `json:"size"`
	ModifiedTime   int64  `json:"modified_time"` // epoch milliseconds
}

// HasPerceptualHash reports whether the image can be compared perceptually
func (f *ImageFingerprint) HasPerceptualHash() bool {
	return f.PerceptualHash != ""
}

// SimilarityGroup is a cluster of two or more similar images
type SimilarityGroup struct {
	ID              string              `json:"id"`
	Images          []*ImageFingerprint `json:"images"`
	Similarity      float64             `json:"similarity"` // mean pairwise similarity, 2 decimals
	RecommendedKeep string              `json:"recommended_keep,omitempty"`
}

// Keep returns the image to retain: the recommended one, or the first image
// when there is no recommendation.
func (g *SimilarityGroup) Keep() *ImageFingerprint {
	for _, img := range g.Images {
		if img.FilePath == g.RecommendedKeep {
			return img
		}
	}
	if len(g.Images) > 0 {
		return g.Images[0]
	}
	return nil
}

// Removable returns every image except the one returned by Keep
func (g *SimilarityGroup) Removable() []*ImageFingerprint {
	keep := g.Keep()
	var out []*ImageFingerprint
	for _, img := range g.Images {
		if img != keep {
			out = append(out, img)
		}
	}
	return out
}

// SpaceSaved is the total size of the images that are not kept
func (g *SimilarityGroup) SpaceSaved() int64 {
	var total int64
	for _, img := range g.Removable() {
		total += img.Size
	}
	return total
}

// ScanStatus is the orchestrator state reported with progress updates
type ScanStatus string

const (
	StatusScanning  ScanStatus = "scanning"
	StatusHashing   ScanStatus = "hashing"
	StatusComparing ScanStatus = "comparing"
	StatusCompleted ScanStatus = "completed"
	StatusCancelled ScanStatus = "cancelled"
	StatusError     ScanStatus = "error"
)

// Terminal reports whether no further updates follow this status
func (s ScanStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusError
}

// ScanProgress is a snapshot of a running scan
type ScanProgress struct {
	Status      ScanStatus `json:"status"`
	Current     int        `json:"current"`
	Total       int        `json:"total"`
	CurrentFile string     `json:"current_file,omitempty"`
	GroupsFound int        `json:"groups_found"`
}

// Skip records a candidate file that produced no fingerprint
type Skip struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ScanResult holds the result of a completed scan
type ScanResult struct {
	Groups              []*SimilarityGroup `json:"groups"`
	TotalImages         int                `json:"total_images"`
	TotalGroups         int                `json:"total_groups"`
	PotentialSpaceSaved int64              `json:"potential_space_saved"`
	ScanTime            int64              `json:"scan_time"` // milliseconds
	Skipped             []Skip             `json:"skipped,omitempty"`
}

// PotentialSpaceSaved sums the sizes of all non-kept images across groups
func PotentialSpaceSaved(groups []*SimilarityGroup) int64 {
	var total int64
	for _, g := range groups {
		total += g.SpaceSaved()
	}
	return total
}
