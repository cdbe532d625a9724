// internal/workers/data-access/query-elasticsearch/models.go
package queryelasticsearch

import "provider-ranking-workers/internal/models"

// Input.Filters accepts the same keys as parse-provider-filters plus "ids"
// for provider_by_ids.
type Input struct {
	IndexName  string                 `json:"indexName,omitempty"`
	QueryType  string                 `json:"queryType"`
	Filters    map[string]interface{} `json:"filters,omitempty"`
	Pagination Pagination             `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []models.Provider `json:"data"`
	TotalHits int64             `json:"totalHits"`
	MaxScore  float64           `json:"maxScore"`
	Took      int64             `json:"took"` // milliseconds
}
