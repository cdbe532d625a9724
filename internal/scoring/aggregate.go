// internal/scoring/aggregate.go
package scoring

import (
	"math"

	"provider-ranking-workers/internal/models"
)

const (
	MinScore = 0
	MaxScore = 100

	// roundingEpsilon absorbs binary float error so that exact halves such as
	// 84.5 computed as 84.49999999999999 still round up.
	roundingEpsilon = 1e-9
)

// ComputeTotalScore is the weighted sum of clamped factor values scaled to
// 0..100 and rounded half up. Absent factors contribute nothing.
func ComputeTotalScore(values models.FactorValues, model *FactorModel) int {
	sum := 0.0
	for _, f := range model.factors {
		v, ok := values[f.Code]
		if !ok {
			continue
		}
		sum += f.Weight * clamp01(v) * 100
	}
	score := int(math.Floor(sum + 0.5 + roundingEpsilon))
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// clamp01 maps v into [0,1]; NaN counts as 0.
func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
