// internal/workers/provider/rank-providers/handler.go
package rankproviders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"provider-ranking-workers/internal/common/camunda"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/common/metrics"
	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/repository"
	"provider-ranking-workers/internal/scoring"
)

const TaskType = "rank-providers"

var (
	ErrInvalidFilterFormat  = errors.New("INVALID_FILTER_FORMAT")
	ErrInvalidProviderData  = errors.New("INVALID_PROVIDER_DATA")
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout         = errors.New("QUERY_TIMEOUT")
)

// ProviderLister loads ranking candidates; *repository.ProviderRepository
// satisfies it.
type ProviderLister interface {
	ListProviders(ctx context.Context, filter repository.ListFilter) ([]models.Provider, error)
}

type Handler struct {
	config    *Config
	engine    *scoring.Engine
	providers ProviderLister
	runtime   *camunda.Runtime
	logger    logger.Logger
}

// NewHandler builds the handler. providers may be nil when every job
// supplies its own candidates.
func NewHandler(config *Config, engine *scoring.Engine, providers ProviderLister, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		engine:    engine,
		providers: providers,
		runtime:   rt,
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	started := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	ctx, span := h.runtime.StartSpan(ctx, TaskType, job)
	defer span.End()

	var input Input
	if err := h.runtime.Decode(TaskType, job, &input); err != nil {
		h.runtime.Fail(ctx, client, job, TaskType, started, err, h.logger)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.runtime.Fail(ctx, client, job, TaskType, started, err, h.logger)
		return
	}

	h.runtime.Complete(ctx, client, job, TaskType, started, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	criteria := models.DefaultFilterCriteria()
	if input.Criteria != nil {
		criteria = *input.Criteria
	}
	criteria, err := scoring.NormalizeCriteria(criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilterFormat, err)
	}

	candidates := input.Providers
	if len(candidates) == 0 {
		candidates, err = h.loadCandidates(ctx, criteria)
		if err != nil {
			return nil, err
		}
	}

	for _, p := range candidates {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProviderData, err)
		}
	}

	enriched := h.engine.EnrichAll(candidates)
	for _, p := range enriched {
		metrics.ObserveProvider(p)
	}

	ranked := scoring.RankProviders(enriched, criteria)
	metrics.RankingResults.Observe(float64(len(ranked)))

	rankingID := uuid.New().String()
	h.logger.Info("providers ranked", map[string]interface{}{
		"rankingId":     rankingID,
		"totalCount":    len(enriched),
		"returnedCount": len(ranked),
		"sortKey":       criteria.SortKey,
	})

	return &Output{
		RankingID:     rankingID,
		Criteria:      criteria,
		Providers:     ranked,
		TotalCount:    len(enriched),
		ReturnedCount: len(ranked),
	}, nil
}

func (h *Handler) loadCandidates(ctx context.Context, criteria models.FilterCriteria) ([]models.Provider, error) {
	if h.providers == nil {
		return []models.Provider{}, nil
	}

	providers, err := h.providers.ListProviders(ctx, repository.ListFilter{State: criteria.State})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrQueryTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	h.logger.Debug("loaded ranking candidates", map[string]interface{}{
		"count": len(providers),
		"state": criteria.State,
	})
	return providers, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
