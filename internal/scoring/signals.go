// internal/scoring/signals.go
package scoring

import "provider-ranking-workers/internal/models"

// DefaultSignalThreshold is the value at which a factor becomes an active signal.
const DefaultSignalThreshold = 0.5

// SelectSignals returns the factors whose raw value is at least threshold,
// always in A→F order. The result is never nil.
func SelectSignals(values models.FactorValues, threshold float64) []models.FactorCode {
	signals := make([]models.FactorCode, 0, 6)
	for _, code := range models.CanonicalFactors() {
		v, ok := values[code]
		if !ok {
			continue
		}
		if v >= threshold {
			signals = append(signals, code)
		}
	}
	return signals
}
