// internal/scoring/factors.go
package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"provider-ranking-workers/internal/models"
)

// WeightTolerance bounds how far the weight sum may drift from 1.0.
const WeightTolerance = 1e-6

var ErrInvalidWeights = errors.New("INVALID_FACTOR_WEIGHTS")

type Factor struct {
	Code   models.FactorCode `json:"code"`
	Label  string            `json:"label"`
	Weight float64           `json:"weight"`
}

// FactorModel is the validated, read-only factor table. The zero value is
// not usable; build one with NewFactorModel or DefaultFactorModel.
type FactorModel struct {
	factors []Factor
	index   map[models.FactorCode]int
}

func DefaultWeights() map[models.FactorCode]float64 {
	return map[models.FactorCode]float64{
		models.FactorA: 0.30,
		models.FactorB: 0.25,
		models.FactorC: 0.15,
		models.FactorD: 0.10,
		models.FactorE: 0.10,
		models.FactorF: 0.10,
	}
}

func DefaultLabels() map[models.FactorCode]string {
	return map[models.FactorCode]string{
		models.FactorA: "Evidence-based practice",
		models.FactorB: "Volume/Setting optimization",
		models.FactorC: "Environmental factors",
		models.FactorD: "Relationship strength",
		models.FactorE: "Engagement level",
		models.FactorF: "Fit/Coverage alignment",
	}
}

// NewFactorModel validates weights and labels and freezes them into a model.
// Every canonical factor needs a weight in (0,1] and the weights must sum to
// 1.0 within WeightTolerance. Missing labels fall back to the defaults.
func NewFactorModel(weights map[models.FactorCode]float64, labels map[models.FactorCode]string) (*FactorModel, error) {
	var unknown []string
	for code := range weights {
		if !code.Valid() {
			unknown = append(unknown, string(code))
		}
	}
	for code := range labels {
		if !code.Valid() {
			unknown = append(unknown, string(code))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unknown factor codes %s", ErrInvalidWeights, strings.Join(unknown, ","))
	}

	defaults := DefaultLabels()
	model := &FactorModel{index: make(map[models.FactorCode]int, 6)}
	sum := 0.0
	for i, code := range models.CanonicalFactors() {
		w, ok := weights[code]
		if !ok {
			return nil, fmt.Errorf("%w: missing weight for factor %s", ErrInvalidWeights, code)
		}
		if math.IsNaN(w) || w <= 0 || w > 1 {
			return nil, fmt.Errorf("%w: weight for factor %s must be in (0,1], got %v", ErrInvalidWeights, code, w)
		}
		label := strings.TrimSpace(labels[code])
		if label == "" {
			label = defaults[code]
		}
		model.factors = append(model.factors, Factor{Code: code, Label: label, Weight: w})
		model.index[code] = i
		sum += w
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return nil, fmt.Errorf("%w: weights sum to %.6f, must sum to 1.0", ErrInvalidWeights, sum)
	}
	return model, nil
}

// DefaultFactorModel returns the stock weight table.
func DefaultFactorModel() *FactorModel {
	model, err := NewFactorModel(DefaultWeights(), DefaultLabels())
	if err != nil {
		panic(err)
	}
	return model
}

// Factors returns the factors in canonical order.
func (m *FactorModel) Factors() []Factor {
	out := make([]Factor, len(m.factors))
	copy(out, m.factors)
	return out
}

func (m *FactorModel) Weight(code models.FactorCode) float64 {
	if i, ok := m.index[code]; ok {
		return m.factors[i].Weight
	}
	return 0
}

// Label returns the human label, or the code itself for unknown codes.
func (m *FactorModel) Label(code models.FactorCode) string {
	if i, ok := m.index[code]; ok {
		return m.factors[i].Label
	}
	return string(code)
}

func (m *FactorModel) Weights() map[models.FactorCode]float64 {
	out := make(map[models.FactorCode]float64, len(m.factors))
	for _, f := range m.factors {
		out[f.Code] = f.Weight
	}
	return out
}
