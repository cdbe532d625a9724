// internal/workers/analytics/analyze-utilization/handler.go
package analyzeutilization

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
	"provider-ranking-workers/internal/models"
)

const TaskType = "analyze-utilization"

var (
	ErrInputValidationFailed = errors.New("INPUT_VALIDATION_FAILED")
	ErrQueryExecutionFailed  = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout          = errors.New("QUERY_TIMEOUT")
)

// UsageSource loads monthly usage; *repository.ProviderRepository satisfies it.
type UsageSource interface {
	Utilization(ctx context.Context, providerID string) ([]models.UtilizationMonth, error)
}

type Handler struct {
	config  *Config
	usage   UsageSource
	runtime *camunda.Runtime
	logger  logger.Logger
}

func NewHandler(config *Config, usage UsageSource, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		usage:   usage,
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

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.runtime.Fail(ctx, client, job, TaskType, started, err, h.logger)
		return
	}

	h.runtime.Complete(ctx, client, job, TaskType, started, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	months := input.Months
	if months == nil {
		if input.ProviderID == "" {
			return nil, fmt.Errorf("%w: either months or providerId is required", ErrInputValidationFailed)
		}
		if h.usage == nil {
			return nil, fmt.Errorf("%w: no usage source configured", ErrQueryExecutionFailed)
		}
		loaded, err := h.usage.Utilization(ctx, input.ProviderID)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrQueryTimeout, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
		}
		months = loaded
	}

	for _, m := range months {
		if m.Intermittent < 0 || m.Indwelling < 0 {
			return nil, fmt.Errorf("%w: negative usage in month %q", ErrInputValidationFailed, m.Month)
		}
	}

	analysis := insights.AnalyzeUtilization(months)
	h.logger.Debug("utilization analyzed", map[string]interface{}{
		"providerId": input.ProviderID,
		"months":     len(months),
		"trend":      analysis.Trend,
		"volumeTier": analysis.VolumeTier,
	})
	return &Output{ProviderID: input.ProviderID, UtilizationAnalytics: analysis}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
