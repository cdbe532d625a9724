// internal/workers/analytics/compute-dashboard-analytics/handler.go
package computedashboardanalytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"provider-ranking-workers/internal/analytics"
	"provider-ranking-workers/internal/common/camunda"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/common/metrics"
	"provider-ranking-workers/internal/scoring"
)

const TaskType = "compute-dashboard-analytics"

var (
	ErrInvalidProviderData = errors.New("INVALID_PROVIDER_DATA")
	ErrInvalidFilterFormat = errors.New("INVALID_FILTER_FORMAT")
)

type Handler struct {
	config  *Config
	engine  *scoring.Engine
	runtime *camunda.Runtime
	logger  logger.Logger
}

func NewHandler(config *Config, engine *scoring.Engine, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		engine:  engine,
		runtime: rt,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	output, err := h.execute(&input)
	if err != nil {
		h.runtime.Fail(ctx, client, job, TaskType, started, err, h.logger)
		return
	}

	h.runtime.Complete(ctx, client, job, TaskType, started, output, h.logger)
}

func (h *Handler) execute(input *Input) (*Output, error) {
	for _, p := range input.Providers {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProviderData, err)
		}
	}

	all := h.engine.EnrichAll(input.Providers)
	filtered := all
	if input.Criteria != nil {
		criteria, err := scoring.NormalizeCriteria(*input.Criteria)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilterFormat, err)
		}
		filtered = scoring.RankProviders(all, criteria)
	}

	dashboard := analytics.ComputeDashboard(all, filtered)
	h.logger.Info("dashboard computed", map[string]interface{}{
		"total":          dashboard.Total,
		"filteredCount":  dashboard.FilteredCount,
		"averageScore":   dashboard.AverageScore,
		"needsAttention": len(dashboard.NeedsAttention),
	})
	return &Output{Dashboard: dashboard}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(input)
}
