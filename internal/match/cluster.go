package match

import (
	"fmt"

	"dupgroup/internal/hash"
	"dupgroup/internal/models"
)

// Clusterer groups images whose similarity to a seed image meets a threshold.
//
// Grouping is greedy and seed-driven, not transitive: each image joins the
// first group whose seed it matches and is never reconsidered, so two images
// that only match through a third may end up apart.
type Clusterer struct {
	threshold  float64 // minimum similarity, 0-100
	perceptual bool
}

var _ Matcher = (*Clusterer)(nil)

// NewClusterer creates a new Clusterer. When perceptual is false only
// identical content hashes are considered similar.
func NewClusterer(threshold float64, perceptual bool) *Clusterer {
	return &Clusterer{threshold: threshold, perceptual: perceptual}
}

// Similarity scores two images: 100 for identical content, the perceptual
// score when both have perceptual hashes and perceptual comparison is on,
// else 0.
func (c *Clusterer) Similarity(a, b *models.ImageFingerprint) float64 {
	if a.ContentHash != "" && a.ContentHash == b.ContentHash {
		return 100
	}
	if c.perceptual && a.HasPerceptualHash() && b.HasPerceptualHash() {
		return hash.Similarity(a.PerceptualHash, b.PerceptualHash)
	}
	return 0
}

// FindGroups partitions images into groups of two or more. Input order is
// significant: earlier images seed groups, and group members keep input order.
func (c *Clusterer) FindGroups(images []*models.ImageFingerprint) []*models.SimilarityGroup {
	groups := []*models.SimilarityGroup{}
	processed := make(map[string]bool, len(images))

	for i, seed := range images {
		if processed[seed.FilePath] {
			continue
		}
		processed[seed.FilePath] = true
		members := []*models.ImageFingerprint{seed}

		for _, candidate := range images[i+1:] {
			if processed[candidate.FilePath] {
				continue
			}
			if c.Similarity(seed, candidate) >= c.threshold {
				members = append(members, candidate)
				processed[candidate.FilePath] = true
			}
		}

		if len(members) < 2 {
			continue
		}

		groups = append(groups, &models.SimilarityGroup{
			ID:              fmt.Sprintf("group-%d", len(groups)+1),
			Images:          members,
			Similarity:      c.groupSimilarity(members),
			RecommendedKeep: RecommendKeep(members),
		})
	}

	return groups
}

// groupSimilarity is the mean similarity over every pair in the group
func (c *Clusterer) groupSimilarity(members []*models.ImageFingerprint) float64 {
	var sum float64
	pairs := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			sum += c.Similarity(members[i], members[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return hash.Round2(sum / float64(pairs))
}

// GetThreshold returns the current threshold
func (c *Clusterer) GetThreshold() float64 {
	return c.threshold
}
