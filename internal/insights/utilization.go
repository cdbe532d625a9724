// internal/insights/utilization.go
package insights

import "provider-ranking-workers/internal/models"

const (
	TrendIncreasing = "↑ increasing"
	TrendStable     = "↔ stable"

	MixIntermittent = "preference for intermittent catheters"
	MixBalanced     = "balanced product mix"

	highVolumeAbove   = 1000
	mediumVolumeAbove = 500
)

type MonthlyGrowth struct {
	Month  string  `json:"month"`
	Growth float64 `json:"growth"`
}

type UtilizationAnalytics struct {
	TotalIntermittent int             `json:"totalIntermittent"`
	TotalIndwelling   int             `json:"totalIndwelling"`
	TotalVolume       int             `json:"totalVolume"`
	AverageMonthly    float64         `json:"averageMonthly"`
	MonthlyGrowth     []MonthlyGrowth `json:"monthlyGrowth"`
	Trend             string          `json:"trend"`
	VolumeTier        string          `json:"volumeTier"`
	ProductMix        string          `json:"productMix"`
}

// AnalyzeUtilization summarizes a monthly series ordered oldest first.
func AnalyzeUtilization(months []models.UtilizationMonth) UtilizationAnalytics {
	a := UtilizationAnalytics{
		MonthlyGrowth: make([]MonthlyGrowth, 0, len(months)),
		Trend:         TrendStable,
	}
	for i, m := range months {
		a.TotalIntermittent += m.Intermittent
		a.TotalIndwelling += m.Indwelling

		growth := 0.0
		if i > 0 {
			prev := months[i-1].Intermittent + months[i-1].Indwelling
			if prev > 0 {
				growth = float64(m.Intermittent+m.Indwelling-prev) / float64(prev) * 100
			}
		}
		a.MonthlyGrowth = append(a.MonthlyGrowth, MonthlyGrowth{Month: m.Month, Growth: growth})
	}
	a.TotalVolume = a.TotalIntermittent + a.TotalIndwelling

	if len(months) > 0 {
		a.AverageMonthly = float64(a.TotalVolume) / float64(len(months))
		if months[len(months)-1].Intermittent-months[0].Intermittent > 0 {
			a.Trend = TrendIncreasing
		}
	}

	switch {
	case a.TotalVolume > highVolumeAbove:
		a.VolumeTier = "High"
	case a.TotalVolume > mediumVolumeAbove:
		a.VolumeTier = "Medium"
	default:
		a.VolumeTier = "Low"
	}

	a.ProductMix = MixBalanced
	if a.TotalIntermittent > a.TotalIndwelling {
		a.ProductMix = MixIntermittent
	}
	return a
}
