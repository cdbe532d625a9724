// internal/workers/provider/score-provider/models.go
package scoreprovider

import (
	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

type Input struct {
	Provider models.Provider `json:"provider"`
}

type Output struct {
	ProviderID     string                 `json:"providerId"`
	TotalScore     int                    `json:"totalScore"`
	Confidence     models.Confidence      `json:"confidence"`
	Signals        []models.FactorCode    `json:"signals"`
	MissingFactors []models.FactorCode    `json:"missingFactors"`
	ScoreTier      scoring.ScoreTierBadge `json:"scoreTier"`
	Cached         bool                   `json:"cached"`
}
