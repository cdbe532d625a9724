// internal/workers/data-access/query-postgresql/queries/registry.go
package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/repository"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

type Params struct {
	ProviderID  string
	ProviderIDs []string
	State       string
	Limit       int
}

// QueryFunc returns: data, rowCount, error
type QueryFunc func(ctx context.Context, repo *repository.ProviderRepository, params Params) (interface{}, int, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeProviderList:        ProviderList,
	models.QueryTypeProviderDetails:     ProviderDetails,
	models.QueryTypeProviderTripNotes:   ProviderTripNotes,
	models.QueryTypeProviderUtilization: ProviderUtilization,
}

// Execute returns: data, rowCount, executionTime (ms), error
func Execute(ctx context.Context, repo *repository.ProviderRepository, queryType models.QueryType, params Params) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}

	start := time.Now()
	data, rows, err := fn(ctx, repo, params)
	return data, rows, time.Since(start).Milliseconds(), err
}
