package match

import "dupgroup/internal/models"

// Matcher is the interface for duplicate detection strategies
type Matcher interface {
	FindGroups(images []*models.ImageFingerprint) []*models.SimilarityGroup
}
