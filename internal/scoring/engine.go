// internal/scoring/engine.go
package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"provider-ranking-workers/internal/models"
)

// Engine bundles a factor model with the signal and confidence policies so
// callers derive every provider field from one configuration.
type Engine struct {
	model           *FactorModel
	signalThreshold float64
	confidence      ConfidencePolicy
}

type Option func(*Engine)

func WithSignalThreshold(threshold float64) Option {
	return func(e *Engine) { e.signalThreshold = threshold }
}

func WithConfidencePolicy(policy ConfidencePolicy) Option {
	return func(e *Engine) { e.confidence = policy }
}

// NewEngine builds an engine over model; a nil model means the default table.
func NewEngine(model *FactorModel, opts ...Option) *Engine {
	if model == nil {
		model = DefaultFactorModel()
	}
	e := &Engine{
		model:           model,
		signalThreshold: DefaultSignalThreshold,
		confidence:      DefaultConfidencePolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Model() *FactorModel { return e.model }

func (e *Engine) SignalThreshold() float64 { return e.signalThreshold }

// Result holds the fields derived from one set of factor values.
type Result struct {
	TotalScore     int                 `json:"totalScore"`
	Confidence     models.Confidence   `json:"confidence"`
	Signals        []models.FactorCode `json:"signals"`
	MissingFactors []models.FactorCode `json:"missingFactors,omitempty"`
}

func (e *Engine) Score(values models.FactorValues) Result {
	return Result{
		TotalScore:     ComputeTotalScore(values, e.model),
		Confidence:     e.confidence.Classify(values),
		Signals:        SelectSignals(values, e.signalThreshold),
		MissingFactors: values.Missing(),
	}
}

// Enrich returns a copy of p with its derived fields recomputed.
func (e *Engine) Enrich(p models.Provider) models.Provider {
	return Apply(p, e.Score(p.FactorValues))
}

func (e *Engine) EnrichAll(providers []models.Provider) []models.Provider {
	out := make([]models.Provider, len(providers))
	for i, p := range providers {
		out[i] = e.Enrich(p)
	}
	return out
}

// Apply copies a precomputed result onto p.
func Apply(p models.Provider, r Result) models.Provider {
	p.FactorValues = p.FactorValues.Clone()
	p.TotalScore = r.TotalScore
	p.Confidence = r.Confidence
	p.Signals = append([]models.FactorCode(nil), r.Signals...)
	p.MissingFactors = append([]models.FactorCode(nil), r.MissingFactors...)
	if p.Signals == nil {
		p.Signals = []models.FactorCode{}
	}
	return p
}

// Fingerprint hashes the factor values together with the engine settings,
// so two inputs share a fingerprint exactly when they score identically.
func (e *Engine) Fingerprint(values models.FactorValues) string {
	var b strings.Builder
	for _, f := range e.model.factors {
		fmt.Fprintf(&b, "w%s=%g;", f.Code, f.Weight)
	}
	fmt.Fprintf(&b, "s=%g;c=%g/%d/%d;", e.signalThreshold, e.confidence.Threshold, e.confidence.HighMin, e.confidence.MediumMin)
	for _, code := range models.CanonicalFactors() {
		if v, ok := values[code]; ok {
			fmt.Fprintf(&b, "%s=%g;", code, v)
		} else {
			fmt.Fprintf(&b, "%s=-;", code)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
