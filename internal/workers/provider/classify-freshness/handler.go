// internal/workers/provider/classify-freshness/handler.go
package classifyfreshness

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
	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

const TaskType = "classify-freshness"

var ErrInputValidationFailed = errors.New("INPUT_VALIDATION_FAILED")

type Handler struct {
	config  *Config
	now     func() time.Time
	runtime *camunda.Runtime
	logger  logger.Logger
}

func NewHandler(config *Config, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
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
	now := h.now()
	if input.Now != "" {
		ts, ok := scoring.ParseTimestamp(input.Now)
		if !ok {
			return nil, fmt.Errorf("%w: now %q is not a recognised timestamp", ErrInputValidationFailed, input.Now)
		}
		now = ts
	}

	output := &Output{
		Badges:  make(map[string]models.FreshnessBadge, len(input.Timestamps)),
		Summary: make(map[models.FreshnessLabel]int),
	}
	unparsed := 0
	for key, raw := range input.Timestamps {
		if _, ok := scoring.ParseTimestamp(raw); !ok {
			unparsed++
		}
		badge := scoring.ClassifyFreshnessString(raw, now)
		output.Badges[key] = badge
		output.Summary[badge.Label]++
	}

	if unparsed > 0 {
		h.logger.Warn("unparseable timestamps classified as stale", map[string]interface{}{
			"count": unparsed,
		})
	}
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(input)
}
