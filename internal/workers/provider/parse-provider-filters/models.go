// internal/workers/provider/parse-provider-filters/models.go
package parseproviderfilters

import "provider-ranking-workers/internal/models"

type Input struct {
	RawFilters map[string]interface{} `json:"rawFilters"`
}

type Output struct {
	Criteria models.FilterCriteria `json:"criteria"`
}
