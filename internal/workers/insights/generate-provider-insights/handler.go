// internal/workers/insights/generate-provider-insights/handler.go
package generateproviderinsights

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
	"provider-ranking-workers/internal/insights"
	"provider-ranking-workers/internal/scoring"
)

const TaskType = "generate-provider-insights"

var ErrInvalidProviderData = errors.New("INVALID_PROVIDER_DATA")

type Handler struct {
	config  *Config
	engine  *scoring.Engine
	now     func() time.Time
	runtime *camunda.Runtime
	logger  logger.Logger
}

func NewHandler(config *Config, engine *scoring.Engine, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		engine:  engine,
		now:     time.Now,
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
	if err := input.Provider.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProviderData, err)
	}

	p := h.engine.Enrich(input.Provider)
	metrics.ObserveProvider(p)

	return &Output{
		ProviderInsights: insights.Generate(p, h.engine.Model()),
		TotalScore:       p.TotalScore,
		Confidence:       p.Confidence,
		Freshness:        scoring.ClassifyFreshnessString(p.UpdatedAt, h.now()),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(input)
}
