// internal/workers/analytics/analyze-utilization/models.go
package analyzeutilization

import (
	"provider-ranking-workers/internal/insights"
	"provider-ranking-workers/internal/models"
)

// Input supplies monthly usage oldest first, or the provider whose usage
// should be loaded.
type Input struct {
	ProviderID string                    `json:"providerId,omitempty"`
	Months     []models.UtilizationMonth `json:"months,omitempty"`
}

type Output struct {
	ProviderID string `json:"providerId,omitempty"`
	insights.UtilizationAnalytics
}
