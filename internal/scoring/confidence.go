// internal/scoring/confidence.go
package scoring

import (
	"fmt"

	"provider-ranking-workers/internal/models"
)

const (
	DefaultConfidenceThreshold = 0.6
	DefaultHighMinFactors      = 4
	DefaultMediumMinFactors    = 2
)

// ConfidencePolicy decides how many strong factors each label needs. A factor
// is strong when its value is at least Threshold; absent factors never are.
type ConfidencePolicy struct {
	Threshold float64 `json:"threshold"`
	HighMin   int     `json:"highMin"`
	MediumMin int     `json:"mediumMin"`
}

func DefaultConfidencePolicy() ConfidencePolicy {
	return ConfidencePolicy{
		Threshold: DefaultConfidenceThreshold,
		HighMin:   DefaultHighMinFactors,
		MediumMin: DefaultMediumMinFactors,
	}
}

func (p ConfidencePolicy) Validate() error {
	if p.Threshold <= 0 || p.Threshold > 1 {
		return fmt.Errorf("confidence threshold must be in (0,1], got %v", p.Threshold)
	}
	if p.MediumMin < 1 || p.HighMin <= p.MediumMin || p.HighMin > len(models.CanonicalFactors()) {
		return fmt.Errorf("confidence bounds must satisfy 1 <= medium < high <= 6, got medium=%d high=%d", p.MediumMin, p.HighMin)
	}
	return nil
}

// ClassifyConfidence applies the default policy.
func ClassifyConfidence(values models.FactorValues) models.Confidence {
	return DefaultConfidencePolicy().Classify(values)
}

// Classify labels values by how many factors reach the policy threshold.
// It takes no signal list: signals use their own, lower threshold, so the
// label is always derived from the raw values.
func (p ConfidencePolicy) Classify(values models.FactorValues) models.Confidence {
	strong := p.StrongFactors(values)
	switch {
	case strong >= p.HighMin:
		return models.Confidence{Label: models.ConfidenceHigh, Tone: models.ToneSuccess}
	case strong >= p.MediumMin:
		return models.Confidence{Label: models.ConfidenceMedium, Tone: models.ToneWarning}
	default:
		return models.Confidence{Label: models.ConfidenceLow, Tone: models.ToneDanger}
	}
}

// StrongFactors counts canonical factors at or above the threshold.
func (p ConfidencePolicy) StrongFactors(values models.FactorValues) int {
	n := 0
	for _, code := range models.CanonicalFactors() {
		if v, ok := values[code]; ok && v >= p.Threshold {
			n++
		}
	}
	return n
}
