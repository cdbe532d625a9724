// internal/workers/provider/rank-providers/models.go
package rankproviders

import "provider-ranking-workers/internal/models"

// Input carries the candidate providers and the filter to apply. When
// Providers is empty the candidates are loaded from the database, using
// the criteria state as a coarse pre-filter.
type Input struct {
	Providers []models.Provider      `json:"providers,omitempty"`
	Criteria  *models.FilterCriteria `json:"criteria,omitempty"`
}

type Output struct {
	RankingID     string                `json:"rankingId"`
	Criteria      models.FilterCriteria `json:"criteria"`
	Providers     []models.Provider     `json:"providers"`
	TotalCount    int                   `json:"totalCount"`
	ReturnedCount int                   `json:"returnedCount"`
}
