// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "provider-ranking-workers/internal/models"

type Input struct {
	QueryType   string                 `json:"queryType"`
	ProviderID  string                 `json:"providerId,omitempty"`
	ProviderIDs []string               `json:"providerIds,omitempty"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeProviderList        = models.QueryTypeProviderList
	QueryTypeProviderDetails     = models.QueryTypeProviderDetails
	QueryTypeProviderTripNotes   = models.QueryTypeProviderTripNotes
	QueryTypeProviderUtilization = models.QueryTypeProviderUtilization
)
