// internal/models/factor.go
package models

// FactorCode identifies one of the six scoring dimensions.
type FactorCode string

const (
	FactorA FactorCode = "A" // evidence-based practice
	FactorB FactorCode = "B" // volume/setting optimization
	FactorC FactorCode = "C" // environmental factors
	FactorD FactorCode = "D" // relationship strength
	FactorE FactorCode = "E" // engagement level
	FactorF FactorCode = "F" // fit/coverage alignment
)

// CanonicalFactors returns every factor code in A→F order.
func CanonicalFactors() []FactorCode {
	return []FactorCode{FactorA, FactorB, FactorC, FactorD, FactorE, FactorF}
}

func (c FactorCode) Valid() bool {
	switch c {
	case FactorA, FactorB, FactorC, FactorD, FactorE, FactorF:
		return true
	}
	return false
}

// FactorValues holds raw per-factor strengths in [0,1].
type FactorValues map[FactorCode]float64

// Missing reports the canonical factors that have no entry.
func (v FactorValues) Missing() []FactorCode {
	var missing []FactorCode
	for _, code := range CanonicalFactors() {
		if _, ok := v[code]; !ok {
			missing = append(missing, code)
		}
	}
	return missing
}

// Clone returns an independent copy so callers never share the source map.
func (v FactorValues) Clone() FactorValues {
	if v == nil {
		return nil
	}
	out := make(FactorValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
