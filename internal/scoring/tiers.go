// internal/scoring/tiers.go
package scoring

import "provider-ranking-workers/internal/models"

const (
	HighPerformerScore = 80
	MidPerformerScore  = 60
)

type Tier string

const (
	TierHigh Tier = "high"
	TierMid  Tier = "mid"
	TierLow  Tier = "low"
)

type ScoreTierBadge struct {
	Tier Tier        `json:"tier"`
	Tone models.Tone `json:"tone"`
}

// ScoreTier groups a total score for score-bar colouring.
func ScoreTier(score int) ScoreTierBadge {
	switch {
	case score >= HighPerformerScore:
		return ScoreTierBadge{Tier: TierHigh, Tone: models.ToneSuccess}
	case score >= MidPerformerScore:
		return ScoreTierBadge{Tier: TierMid, Tone: models.ToneWarning}
	default:
		return ScoreTierBadge{Tier: TierLow, Tone: models.ToneDanger}
	}
}

const (
	RelationshipStrong         = "Strong"
	RelationshipDeveloping     = "Developing"
	RelationshipNeedsAttention = "Needs Attention"
)

func RelationshipStatus(score int) string {
	switch {
	case score >= HighPerformerScore:
		return RelationshipStrong
	case score >= MidPerformerScore:
		return RelationshipDeveloping
	default:
		return RelationshipNeedsAttention
	}
}
