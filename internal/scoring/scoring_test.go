// internal/scoring/scoring_test.go
package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-ranking-workers/internal/models"
)

// ==========================
// Test Helpers
// ==========================

func uniformValues(v float64) models.FactorValues {
	values := models.FactorValues{}
	for _, code := range models.CanonicalFactors() {
		values[code] = v
	}
	return values
}

// ==========================
// Factor Model
// ==========================

func TestNewFactorModel_Defaults(t *testing.T) {
	model := DefaultFactorModel()

	factors := model.Factors()
	require.Len(t, factors, 6)
	sum := 0.0
	for i, f := range factors {
		assert.Equal(t, models.CanonicalFactors()[i], f.Code)
		assert.NotEmpty(t, f.Label)
		sum += f.Weight
	}
	assert.InDelta(t, 1.0, sum, WeightTolerance)
	assert.Equal(t, "Relationship strength", model.Label(models.FactorD))
	assert.Equal(t, 0.30, model.Weight(models.FactorA))
	assert.Equal(t, "Z", model.Label("Z"))
}

func TestNewFactorModel_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		weights map[models.FactorCode]float64
		labels  map[models.FactorCode]string
	}{
		{
			name: "sum below one",
			weights: map[models.FactorCode]float64{
				"A": 0.3, "B": 0.25, "C": 0.15, "D": 0.1, "E": 0.1, "F": 0.05,
			},
		},
		{
			name: "sum above one",
			weights: map[models.FactorCode]float64{
				"A": 0.3, "B": 0.25, "C": 0.15, "D": 0.1, "E": 0.1, "F": 0.2,
			},
		},
		{
			name: "missing factor",
			weights: map[models.FactorCode]float64{
				"A": 0.4, "B": 0.25, "C": 0.15, "D": 0.1, "E": 0.1,
			},
		},
		{
			name: "zero weight",
			weights: map[models.FactorCode]float64{
				"A": 0.4, "B": 0.25, "C": 0.15, "D": 0.1, "E": 0.1, "F": 0,
			},
		},
		{
			name: "negative weight",
			weights: map[models.FactorCode]float64{
				"A": 0.5, "B": 0.25, "C": 0.15, "D": 0.1, "E": 0.1, "F": -0.1,
			},
		},
		{
			name: "unknown code",
			weights: map[models.FactorCode]float64{
				"A": 0.3, "B": 0.25, "C": 0.15, "D": 0.1, "E": 0.1, "F": 0.1, "G": 0,
			},
		},
		{
			name:    "unknown label code",
			weights: DefaultWeights(),
			labels:  map[models.FactorCode]string{"Q": "quality"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := NewFactorModel(tt.weights, tt.labels)
			assert.Nil(t, model)
			assert.ErrorIs(t, err, ErrInvalidWeights)
		})
	}
}

func TestNewFactorModel_ToleratesFloatDrift(t *testing.T) {
	weights := map[models.FactorCode]float64{
		"A": 0.1, "B": 0.2, "C": 0.3, "D": 0.1, "E": 0.1, "F": 0.2 + 5e-7,
	}
	model, err := NewFactorModel(weights, nil)
	require.NoError(t, err)
	assert.Equal(t, "Evidence-based practice", model.Label(models.FactorA))
}

func TestFactorModel_AccessorsReturnCopies(t *testing.T) {
	model := DefaultFactorModel()

	weights := model.Weights()
	weights[models.FactorA] = 0.99
	factors := model.Factors()
	factors[0].Weight = 0.99

	assert.Equal(t, 0.30, model.Weight(models.FactorA))
}

// ==========================
// Score Aggregator
// ==========================

func TestComputeTotalScore(t *testing.T) {
	model := DefaultFactorModel()

	tests := []struct {
		name     string
		values   models.FactorValues
		expected int
	}{
		{name: "all ones", values: uniformValues(1), expected: 100},
		{name: "all zeros", values: uniformValues(0), expected: 0},
		{name: "empty", values: models.FactorValues{}, expected: 0},
		{name: "nil", values: nil, expected: 0},
		{
			name:     "first four maxed",
			values:   models.FactorValues{"A": 1, "B": 1, "C": 1, "D": 1, "E": 0, "F": 0},
			expected: 80,
		},
		{
			name:     "missing factors count as zero",
			values:   models.FactorValues{"A": 1, "B": 1},
			expected: 55,
		},
		{
			name:     "values clamped into range",
			values:   models.FactorValues{"A": 2, "B": -1, "C": 1, "D": 1, "E": 1, "F": 1},
			expected: 75,
		},
		{
			name:     "NaN counts as zero",
			values:   models.FactorValues{"A": math.NaN(), "B": 1, "C": 1, "D": 1, "E": 1, "F": 1},
			expected: 70,
		},
		{
			// 0.3*0.15*100 = 4.5 rounds up
			name:     "half rounds up",
			values:   models.FactorValues{"A": 0.15},
			expected: 5,
		},
		{
			name:     "below half rounds down",
			values:   models.FactorValues{"A": 0.148},
			expected: 4,
		},
		{
			name:     "unknown codes ignored",
			values:   models.FactorValues{"Z": 1, "A": 1},
			expected: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeTotalScore(tt.values, model))
		})
	}
}

func TestComputeTotalScore_Monotonic(t *testing.T) {
	model := DefaultFactorModel()
	base := models.FactorValues{"A": 0.2, "B": 0.4, "C": 0.6, "D": 0.1, "E": 0.9, "F": 0.3}
	steps := []float64{0, 0.1, 0.25, 0.33, 0.5, 0.51, 0.75, 0.99, 1, 1.5}

	for _, code := range models.CanonicalFactors() {
		prev := -1
		for _, v := range steps {
			values := base.Clone()
			values[code] = v
			score := ComputeTotalScore(values, model)
			assert.GreaterOrEqual(t, score, prev, "factor %s at %v", code, v)
			assert.GreaterOrEqual(t, score, MinScore)
			assert.LessOrEqual(t, score, MaxScore)
			prev = score
		}
	}
}

func TestComputeTotalScore_InjectedModel(t *testing.T) {
	model, err := NewFactorModel(map[models.FactorCode]float64{
		"A": 0.5, "B": 0.1, "C": 0.1, "D": 0.1, "E": 0.1, "F": 0.1,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 50, ComputeTotalScore(models.FactorValues{"A": 1}, model))
	assert.Equal(t, 30, ComputeTotalScore(models.FactorValues{"A": 1}, DefaultFactorModel()))
}

// ==========================
// Signal Selector
// ==========================

func TestSelectSignals(t *testing.T) {
	tests := []struct {
		name      string
		values    models.FactorValues
		threshold float64
		expected  []models.FactorCode
	}{
		{
			name:      "worked example",
			values:    models.FactorValues{"A": 1, "B": 1, "C": 1, "D": 1, "E": 0, "F": 0},
			threshold: DefaultSignalThreshold,
			expected:  []models.FactorCode{"A", "B", "C", "D"},
		},
		{
			name:      "threshold is inclusive",
			values:    models.FactorValues{"A": 0.5, "B": 0.49},
			threshold: DefaultSignalThreshold,
			expected:  []models.FactorCode{"A"},
		},
		{
			name:      "canonical order not magnitude",
			values:    models.FactorValues{"F": 0.99, "C": 0.51, "A": 0.7},
			threshold: DefaultSignalThreshold,
			expected:  []models.FactorCode{"A", "C", "F"},
		},
		{
			name:      "none active",
			values:    uniformValues(0.1),
			threshold: DefaultSignalThreshold,
			expected:  []models.FactorCode{},
		},
		{
			name:      "custom threshold",
			values:    models.FactorValues{"A": 0.75, "B": 0.8, "E": 0.9},
			threshold: 0.8,
			expected:  []models.FactorCode{"B", "E"},
		},
		{
			name:      "unknown codes never surface",
			values:    models.FactorValues{"X": 1, "B": 1},
			threshold: DefaultSignalThreshold,
			expected:  []models.FactorCode{"B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectSignals(tt.values, tt.threshold)
			assert.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSelectSignals_SubsetInOrder(t *testing.T) {
	order := map[models.FactorCode]int{}
	for i, code := range models.CanonicalFactors() {
		order[code] = i
	}
	inputs := []models.FactorValues{
		uniformValues(1),
		uniformValues(0.5),
		{"A": 0.9, "C": 0.2, "E": 0.6, "F": 0.5},
		{"B": math.NaN(), "D": 0.7},
	}

	for _, values := range inputs {
		got := SelectSignals(values, DefaultSignalThreshold)
		seen := map[models.FactorCode]bool{}
		last := -1
		for _, code := range got {
			assert.True(t, code.Valid())
			assert.False(t, seen[code], "duplicate %s", code)
			seen[code] = true
			assert.Greater(t, order[code], last)
			last = order[code]
		}
	}
}

// ==========================
// Confidence Classifier
// ==========================

func TestClassifyConfidence(t *testing.T) {
	tests := []struct {
		name     string
		values   models.FactorValues
		expected models.Confidence
	}{
		{
			name:     "all strong",
			values:   uniformValues(0.6),
			expected: models.Confidence{Label: models.ConfidenceHigh, Tone: models.ToneSuccess},
		},
		{
			name:     "exactly four strong",
			values:   models.FactorValues{"A": 1, "B": 1, "C": 1, "D": 1, "E": 0, "F": 0},
			expected: models.Confidence{Label: models.ConfidenceHigh, Tone: models.ToneSuccess},
		},
		{
			name:     "three strong",
			values:   models.FactorValues{"A": 0.7, "B": 0.8, "C": 0.61, "D": 0.59, "E": 0.1, "F": 0},
			expected: models.Confidence{Label: models.ConfidenceMedium, Tone: models.ToneWarning},
		},
		{
			name:     "two strong",
			values:   models.FactorValues{"A": 0.6, "F": 0.6},
			expected: models.Confidence{Label: models.ConfidenceMedium, Tone: models.ToneWarning},
		},
		{
			name:     "one strong",
			values:   models.FactorValues{"A": 0.95, "B": 0.59, "C": 0.59, "D": 0.59, "E": 0.59, "F": 0.59},
			expected: models.Confidence{Label: models.ConfidenceLow, Tone: models.ToneDanger},
		},
		{
			name:     "all weak",
			values:   uniformValues(0.3),
			expected: models.Confidence{Label: models.ConfidenceLow, Tone: models.ToneDanger},
		},
		{
			name:     "missing factors never qualify",
			values:   models.FactorValues{},
			expected: models.Confidence{Label: models.ConfidenceLow, Tone: models.ToneDanger},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyConfidence(tt.values))
		})
	}
}

func TestClassifyConfidence_IndependentOfScore(t *testing.T) {
	model := DefaultFactorModel()

	// Strong on the light factors only: low score, high confidence.
	lowScore := models.FactorValues{"A": 0, "B": 0, "C": 0.6, "D": 0.6, "E": 0.6, "F": 0.6}
	assert.Less(t, ComputeTotalScore(lowScore, model), 30)
	assert.Equal(t, models.ConfidenceHigh, ClassifyConfidence(lowScore).Label)

	// One heavy factor maxed, sparse otherwise.
	sparse := models.FactorValues{"A": 1}
	assert.Equal(t, models.ConfidenceLow, ClassifyConfidence(sparse).Label)
}

func TestClassifyConfidence_IgnoresSignals(t *testing.T) {
	// Every factor is a signal at 0.5, but none reaches the 0.6 bar.
	values := models.FactorValues{"A": 0.55, "B": 0.55, "C": 0.55, "D": 0.55, "E": 0.55, "F": 0.55}
	require.Len(t, SelectSignals(values, DefaultSignalThreshold), 6)
	assert.Equal(t, models.ConfidenceLow, ClassifyConfidence(values).Label)
}

func TestConfidencePolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfidencePolicy().Validate())
	assert.Error(t, ConfidencePolicy{Threshold: 0, HighMin: 4, MediumMin: 2}.Validate())
	assert.Error(t, ConfidencePolicy{Threshold: 0.6, HighMin: 2, MediumMin: 2}.Validate())
	assert.Error(t, ConfidencePolicy{Threshold: 0.6, HighMin: 7, MediumMin: 2}.Validate())
	assert.Error(t, ConfidencePolicy{Threshold: 0.6, HighMin: 4, MediumMin: 0}.Validate())
}

func TestConfidencePolicy_Custom(t *testing.T) {
	policy := ConfidencePolicy{Threshold: 0.8, HighMin: 5, MediumMin: 3}
	values := models.FactorValues{"A": 0.9, "B": 0.85, "C": 0.8, "D": 0.7}

	assert.Equal(t, 3, policy.StrongFactors(values))
	assert.Equal(t, models.ConfidenceMedium, policy.Classify(values).Label)
}

// ==========================
// Tiers
// ==========================

func TestScoreTierAndRelationship(t *testing.T) {
	tests := []struct {
		score        int
		tier         Tier
		tone         models.Tone
		relationship string
	}{
		{100, TierHigh, models.ToneSuccess, RelationshipStrong},
		{80, TierHigh, models.ToneSuccess, RelationshipStrong},
		{79, TierMid, models.ToneWarning, RelationshipDeveloping},
		{60, TierMid, models.ToneWarning, RelationshipDeveloping},
		{59, TierLow, models.ToneDanger, RelationshipNeedsAttention},
		{0, TierLow, models.ToneDanger, RelationshipNeedsAttention},
	}

	for _, tt := range tests {
		badge := ScoreTier(tt.score)
		assert.Equal(t, tt.tier, badge.Tier, "score %d", tt.score)
		assert.Equal(t, tt.tone, badge.Tone, "score %d", tt.score)
		assert.Equal(t, tt.relationship, RelationshipStatus(tt.score), "score %d", tt.score)
	}
}
