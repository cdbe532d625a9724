// internal/workers/insights/summarize-trip-notes/models.go
package summarizetripnotes

import (
	"provider-ranking-workers/internal/insights"
	"provider-ranking-workers/internal/models"
)

// Input supplies notes directly or names the provider whose notes should be
// loaded. Notes wins when both are present.
type Input struct {
	ProviderID string            `json:"providerId,omitempty"`
	Notes      []models.TripNote `json:"notes,omitempty"`
}

type Output struct {
	ProviderID string `json:"providerId,omitempty"`
	insights.TripNoteSummary
}
