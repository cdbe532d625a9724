// internal/workers/provider/score-provider/handler.go
package scoreprovider

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

const TaskType = "score-provider"

var ErrInvalidProviderData = errors.New("INVALID_PROVIDER_DATA")

// ScoreCache memoizes scoring results; *cache.ScoreCache satisfies it.
type ScoreCache interface {
	Score(ctx context.Context, engine *scoring.Engine, values models.FactorValues) (scoring.Result, bool)
}

type Handler struct {
	config  *Config
	engine  *scoring.Engine
	cache   ScoreCache
	runtime *camunda.Runtime
	logger  logger.Logger
}

// NewHandler builds the handler. scoreCache may be nil, in which case every
// job is scored directly.
func NewHandler(config *Config, engine *scoring.Engine, scoreCache ScoreCache, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		engine:  engine,
		cache:   scoreCache,
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
	if err := input.Provider.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProviderData, err)
	}

	var (
		result scoring.Result
		cached bool
	)
	if h.cache != nil {
		result, cached = h.cache.Score(ctx, h.engine, input.Provider.FactorValues)
	} else {
		result = h.engine.Score(input.Provider.FactorValues)
	}

	enriched := scoring.Apply(input.Provider, result)
	metrics.ObserveProvider(enriched)

	if len(enriched.MissingFactors) > 0 {
		h.logger.Warn("provider has missing factor values", map[string]interface{}{
			"providerId":     enriched.ID,
			"missingFactors": enriched.MissingFactors,
		})
	}

	return &Output{
		ProviderID:     enriched.ID,
		TotalScore:     enriched.TotalScore,
		Confidence:     enriched.Confidence,
		Signals:        enriched.Signals,
		MissingFactors: nonNil(enriched.MissingFactors),
		ScoreTier:      scoring.ScoreTier(enriched.TotalScore),
		Cached:         cached,
	}, nil
}

func nonNil(codes []models.FactorCode) []models.FactorCode {
	if codes == nil {
		return []models.FactorCode{}
	}
	return codes
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
