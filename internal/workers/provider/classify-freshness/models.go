// internal/workers/provider/classify-freshness/models.go
package classifyfreshness

import "provider-ranking-workers/internal/models"

// Input maps an arbitrary key (usually a provider id) to its last update
// timestamp. Now overrides the reference time and defaults to the current
// time when empty.
type Input struct {
	Timestamps map[string]string `json:"timestamps"`
	Now        string            `json:"now,omitempty"`
}

type Output struct {
	Badges  map[string]models.FreshnessBadge `json:"badges"`
	Summary map[models.FreshnessLabel]int     `json:"summary"`
}
