// internal/workers/insights/summarize-trip-notes/handler.go
package summarizetripnotes

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

const TaskType = "summarize-trip-notes"

var (
	ErrInputValidationFailed = errors.New("INPUT_VALIDATION_FAILED")
	ErrQueryExecutionFailed  = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout          = errors.New("QUERY_TIMEOUT")
)

// NoteSource loads visit notes, newest first; *repository.ProviderRepository
// satisfies it.
type NoteSource interface {
	TripNotes(ctx context.Context, providerID string) ([]models.TripNote, error)
}

type Handler struct {
	config  *Config
	notes   NoteSource
	runtime *camunda.Runtime
	logger  logger.Logger
}

func NewHandler(config *Config, notes NoteSource, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		notes:   notes,
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
	notes := input.Notes
	if notes == nil {
		if input.ProviderID == "" {
			return nil, fmt.Errorf("%w: either notes or providerId is required", ErrInputValidationFailed)
		}
		loaded, err := h.load(ctx, input.ProviderID)
		if err != nil {
			return nil, err
		}
		notes = loaded
	}

	summary := insights.SummarizeTripNotes(notes)
	h.logger.Debug("trip notes summarized", map[string]interface{}{
		"providerId": input.ProviderID,
		"notes":      len(notes),
		"keywords":   summary.Keywords,
	})

	return &Output{ProviderID: input.ProviderID, TripNoteSummary: summary}, nil
}

func (h *Handler) load(ctx context.Context, providerID string) ([]models.TripNote, error) {
	if h.notes == nil {
		return nil, fmt.Errorf("%w: no note source configured", ErrQueryExecutionFailed)
	}
	notes, err := h.notes.TripNotes(ctx, providerID)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrQueryTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	return notes, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
