// internal/analytics/dashboard.go
package analytics

import (
	"sort"

	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

// NeedsAttentionLimit caps how many low-confidence providers are listed.
const NeedsAttentionLimit = 10

type ScoreRange struct {
	Range string `json:"range"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Count int    `json:"count"`
}

type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

type ProviderRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalScore int    `json:"totalScore"`
}

type Dashboard struct {
	Total                int           `json:"total"`
	AverageScore         float64       `json:"averageScore"`
	HighPerformers       int           `json:"highPerformers"`
	LowPerformers        int           `json:"lowPerformers"`
	ScoreRanges          []ScoreRange  `json:"scoreRanges"`
	StateDistribution    []StateCount  `json:"stateDistribution"`
	HighConfidence       int           `json:"highConfidence"`
	LowConfidence        int           `json:"lowConfidence"`
	NeedsAttention       []ProviderRef `json:"needsAttention"`
	FilteredCount        int           `json:"filteredCount"`
	FilteredAverageScore float64       `json:"filteredAverageScore"`
}

func scoreRanges() []ScoreRange {
	return []ScoreRange{
		{Range: "90-100", Min: 90, Max: 100},
		{Range: "80-89", Min: 80, Max: 89},
		{Range: "70-79", Min: 70, Max: 79},
		{Range: "60-69", Min: 60, Max: 69},
		{Range: "50-59", Min: 50, Max: 59},
		{Range: "0-49", Min: 0, Max: 49},
	}
}

// ComputeDashboard aggregates enriched providers. filtered is the ranked
// view currently on screen and only feeds the Filtered* fields.
func ComputeDashboard(all, filtered []models.Provider) Dashboard {
	d := Dashboard{
		Total:          len(all),
		ScoreRanges:    scoreRanges(),
		NeedsAttention: []ProviderRef{},
		FilteredCount:  len(filtered),
	}

	states := make(map[string]int)
	sum := 0
	for _, p := range all {
		sum += p.TotalScore
		if p.TotalScore >= scoring.HighPerformerScore {
			d.HighPerformers++
		}
		if p.TotalScore < scoring.MidPerformerScore {
			d.LowPerformers++
		}
		for i := range d.ScoreRanges {
			r := &d.ScoreRanges[i]
			if p.TotalScore >= r.Min && p.TotalScore <= r.Max {
				r.Count++
				break
			}
		}
		if p.State != "" {
			states[p.State]++
		}
		switch p.Confidence.Label {
		case models.ConfidenceHigh:
			d.HighConfidence++
		case models.ConfidenceLow:
			d.LowConfidence++
			if len(d.NeedsAttention) < NeedsAttentionLimit {
				d.NeedsAttention = append(d.NeedsAttention, ProviderRef{ID: p.ID, Name: p.Name, TotalScore: p.TotalScore})
			}
		}
	}
	d.AverageScore = average(sum, len(all))
	d.StateDistribution = stateDistribution(states)

	fsum := 0
	for _, p := range filtered {
		fsum += p.TotalScore
	}
	d.FilteredAverageScore = average(fsum, len(filtered))
	return d
}

func stateDistribution(states map[string]int) []StateCount {
	out := make([]StateCount, 0, len(states))
	for state, count := range states {
		if count > 0 {
			out = append(out, StateCount{State: state, Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].State < out[j].State
	})
	return out
}

func average(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
