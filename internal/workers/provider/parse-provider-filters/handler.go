// internal/workers/provider/parse-provider-filters/handler.go
package parseproviderfilters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"provider-ranking-workers/internal/common/camunda"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/common/metrics"
	"provider-ranking-workers/internal/scoring"
)

const TaskType = "parse-provider-filters"

var ErrInvalidFilterFormat = errors.New("INVALID_FILTER_FORMAT")

type Handler struct {
	config  *Config
	runtime *camunda.Runtime
	logger  logger.Logger
}

func NewHandler(config *Config, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
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
	raw := input.RawFilters
	if raw == nil {
		raw = map[string]interface{}{}
	}

	criteria, err := scoring.ParseCriteria(raw)
	if err != nil {
		h.logger.Warn("rejected filter input", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilterFormat, err)
	}

	h.logger.Debug("parsed filters", map[string]interface{}{
		"state":    criteria.State,
		"minScore": criteria.MinScore,
		"sortKey":  criteria.SortKey,
	})
	return &Output{Criteria: criteria}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(input)
}
