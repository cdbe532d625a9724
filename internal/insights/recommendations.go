// internal/insights/recommendations.go
package insights

import (
	"fmt"

	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

// Factor cut-offs that trigger a factor-specific follow-up action.
const (
	engagementTestimonialAbove = 0.7
	evidenceClinicalDataAbove  = 0.8
	volumeScalingAbove         = 0.8
)

type ProviderInsights struct {
	ProviderID         string   `json:"providerId"`
	RelationshipStatus string   `json:"relationshipStatus"`
	ScoreTier          string   `json:"scoreTier"`
	ConfidenceInsight  string   `json:"confidenceInsight"`
	RecommendedActions []string `json:"recommendedActions"`
	TopSignals         []string `json:"topSignals"`
}

// Generate derives the account-planning view for an enriched provider.
func Generate(p models.Provider, model *scoring.FactorModel) ProviderInsights {
	topSignals := make([]string, 0, len(p.Signals))
	for _, code := range p.Signals {
		topSignals = append(topSignals, model.Label(code))
	}

	return ProviderInsights{
		ProviderID:         p.ID,
		RelationshipStatus: scoring.RelationshipStatus(p.TotalScore),
		ScoreTier:          string(scoring.ScoreTier(p.TotalScore).Tier),
		ConfidenceInsight:  ConfidenceInsight(p.Confidence.Label),
		RecommendedActions: RecommendedActions(p.TotalScore, p.FactorValues),
		TopSignals:         topSignals,
	}
}

func ConfidenceInsight(label models.ConfidenceLabel) string {
	var phrase string
	switch label {
	case models.ConfidenceHigh:
		phrase = "strong engagement potential"
	case models.ConfidenceMedium:
		phrase = "moderate opportunity for growth"
	default:
		phrase = "needs focused attention"
	}
	return fmt.Sprintf("%s confidence level indicates %s", label, phrase)
}

func RecommendedActions(score int, values models.FactorValues) []string {
	actions := make([]string, 0, 4)
	switch {
	case score >= scoring.HighPerformerScore:
		actions = append(actions, "Maintain relationship with premium support")
	case score >= scoring.MidPerformerScore:
		actions = append(actions, "Focus on value proposition and education")
	default:
		actions = append(actions, "Prioritize relationship building and basic education")
	}
	if values[models.FactorE] > engagementTestimonialAbove {
		actions = append(actions, "High engagement - leverage for testimonials")
	} else {
		actions = append(actions, "Increase engagement through regular check-ins")
	}
	if values[models.FactorA] > evidenceClinicalDataAbove {
		actions = append(actions, "Evidence-focused - share latest clinical data")
	} else {
		actions = append(actions, "Provide evidence-based education materials")
	}
	if values[models.FactorB] > volumeScalingAbove {
		actions = append(actions, "Volume optimization opportunity - discuss scaling strategies")
	} else {
		actions = append(actions, "Explore volume growth potential")
	}
	return actions
}
