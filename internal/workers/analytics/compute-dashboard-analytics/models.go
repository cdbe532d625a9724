// internal/workers/analytics/compute-dashboard-analytics/models.go
package computedashboardanalytics

import (
	"provider-ranking-workers/internal/analytics"
	"provider-ranking-workers/internal/models"
)

// Input holds the full provider population. Criteria selects the filtered
// view; without it the filtered view is the whole population.
type Input struct {
	Providers []models.Provider      `json:"providers"`
	Criteria  *models.FilterCriteria `json:"criteria,omitempty"`
}

type Output struct {
	analytics.Dashboard
}
