// internal/workers/insights/generate-provider-insights/models.go
package generateproviderinsights

import (
	"provider-ranking-workers/internal/insights"
	"provider-ranking-workers/internal/models"
)

type Input struct {
	Provider models.Provider `json:"provider"`
}

type Output struct {
	insights.ProviderInsights
	TotalScore int                   `json:"totalScore"`
	Confidence models.Confidence     `json:"confidence"`
	Freshness  models.FreshnessBadge `json:"freshness"`
}
