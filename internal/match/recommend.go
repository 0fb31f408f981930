package match

import "dupgroup/internal/models"

// Keep score weights, summing to 100
const (
	weightResolution = 40
	weightSize       = 30
	weightRecency    = 20
	weightPerceptual = 10
)

// RecommendKeep returns the path of the image to retain from a group.
// Each image is scored on resolution, file size and modification time
// relative to the group maximum, plus a flat bonus for having a perceptual
// hash. The first image with the highest score wins.
func RecommendKeep(images []*models.ImageFingerprint) string {
	switch len(images) {
	case 0:
		return ""
	case 1:
		return images[0].FilePath
	}

	var maxPixels, maxSize, maxMod float64
	for _, img := range images {
		maxPixels = max(maxPixels, pixels(img))
		maxSize = max(maxSize, float64(img.Size))
		maxMod = max(maxMod, float64(img.ModifiedTime))
	}

	best := images[0]
	bestScore := -1.0
	for _, img := range images {
		score := keepScore(img, maxPixels, maxSize, maxMod)
		if score > bestScore {
			best, bestScore = img, score
		}
	}
	return best.FilePath
}

func keepScore(img *models.ImageFingerprint, maxPixels, maxSize, maxMod float64) float64 {
	var score float64
	if maxPixels > 0 {
		score += weightResolution * pixels(img) / maxPixels
	}
	if maxSize > 0 {
		score += weightSize * float64(img.Size) / maxSize
	}
	if maxMod > 0 {
		score += weightRecency * float64(img.ModifiedTime) / maxMod
	}
	if img.HasPerceptualHash() {
		score += weightPerceptual
	}
	return score
}

// pixels returns width*height, or 0 when either dimension is unknown
func pixels(img *models.ImageFingerprint) float64 {
	if img.Width <= 0 || img.Height <= 0 {
		return 0
	}
	return float64(img.Width) * float64(img.Height)
}
