// internal/workers/data-access/query-postgresql/queries/provider.go
package queries

import (
	"context"
	"fmt"

	"provider-ranking-workers/internal/repository"
)

func ProviderList(ctx context.Context, repo *repository.ProviderRepository, params Params) (interface{}, int, error) {
	providers, err := repo.ListProviders(ctx, repository.ListFilter{
		State: params.State,
		IDs:   params.ProviderIDs,
		Limit: params.Limit,
	})
	if err != nil {
		return nil, 0, err
	}
	return providers, len(providers), nil
}

func ProviderDetails(ctx context.Context, repo *repository.ProviderRepository, params Params) (interface{}, int, error) {
	if params.ProviderID == "" {
		return nil, 0, fmt.Errorf("%w: providerId", ErrMissingParam)
	}
	provider, err := repo.GetProvider(ctx, params.ProviderID)
	if err != nil {
		return nil, 0, err
	}
	return provider, 1, nil
}

func ProviderTripNotes(ctx context.Context, repo *repository.ProviderRepository, params Params) (interface{}, int, error) {
	if params.ProviderID == "" {
		return nil, 0, fmt.Errorf("%w: providerId", ErrMissingParam)
	}
	notes, err := repo.TripNotes(ctx, params.ProviderID)
	if err != nil {
		return nil, 0, err
	}
	return notes, len(notes), nil
}

func ProviderUtilization(ctx context.Context, repo *repository.ProviderRepository, params Params) (interface{}, int, error) {
	if params.ProviderID == "" {
		return nil, 0, fmt.Errorf("%w: providerId", ErrMissingParam)
	}
	months, err := repo.Utilization(ctx, params.ProviderID)
	if err != nil {
		return nil, 0, err
	}
	return months, len(months), nil
}
