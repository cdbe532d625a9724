// internal/workers/data-access/query-postgresql/handler.go
package querypostgresql

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"provider-ranking-workers/internal/common/camunda"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/common/metrics"
	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/repository"
	"provider-ranking-workers/internal/workers/data-access/query-postgresql/queries"
)

const (
	TaskType = "query-postgresql"
)

var (
	ErrDatabaseConnectionFailed = errors.New("DATABASE_CONNECTION_FAILED")
	ErrQueryExecutionFailed     = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout             = errors.New("QUERY_TIMEOUT")
	ErrInvalidQueryType         = errors.New("INVALID_QUERY_TYPE")
	ErrInputValidationFailed    = errors.New("INPUT_VALIDATION_FAILED")
)

type Handler struct {
	config  *Config
	repo    *repository.ProviderRepository
	runtime *camunda.Runtime
	logger  logger.Logger
}

func NewHandler(config *Config, repo *repository.ProviderRepository, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		repo:    repo,
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
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	queryType := models.QueryType(input.QueryType)
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQueryType, input.QueryType)
	}

	params, err := buildParams(input)
	if err != nil {
		return nil, err
	}

	data, rowCount, execTime, err := queries.Execute(ctx, h.repo, queryType, params)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: %v", ErrQueryTimeout, err)
		case errors.Is(err, repository.ErrProviderNotFound):
			return nil, err
		case errors.Is(err, queries.ErrMissingParam):
			return nil, fmt.Errorf("%w: %v", ErrInputValidationFailed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	h.logger.Debug("query executed", map[string]interface{}{
		"queryType": queryType,
		"rowCount":  rowCount,
		"execTime":  execTime,
	})

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}, nil
}

func buildParams(input *Input) (queries.Params, error) {
	params := queries.Params{
		ProviderID:  strings.TrimSpace(input.ProviderID),
		ProviderIDs: input.ProviderIDs,
	}

	if v, ok := input.Filters["state"]; ok && v != nil {
		state, ok := v.(string)
		if !ok {
			return params, fmt.Errorf("%w: filters.state must be a string", ErrInputValidationFailed)
		}
		params.State = strings.ToUpper(strings.TrimSpace(state))
	}
	if v, ok := input.Filters["limit"]; ok && v != nil {
		limit, ok := v.(float64)
		if !ok || limit < 0 || limit != math.Trunc(limit) {
			return params, fmt.Errorf("%w: filters.limit must be a non-negative integer", ErrInputValidationFailed)
		}
		params.Limit = int(limit)
	}
	return params, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
