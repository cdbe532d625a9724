// internal/workers/data-access/query-elasticsearch/handler.go
package queryelasticsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"provider-ranking-workers/internal/common/camunda"
	"provider-ranking-workers/internal/common/database"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/common/metrics"
	"provider-ranking-workers/internal/scoring"
	"provider-ranking-workers/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	TaskType = "query-elasticsearch"
)

var (
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrSearchQueryFailed             = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout                 = errors.New("SEARCH_TIMEOUT")
	ErrIndexNotFound                 = errors.New("INDEX_NOT_FOUND")
	ErrInvalidQueryType              = errors.New("INVALID_QUERY_TYPE")
	ErrInvalidFilterFormat           = errors.New("INVALID_FILTER_FORMAT")
)

type Handler struct {
	config  *Config
	client  *database.ElasticsearchClient
	runtime *camunda.Runtime
	logger  logger.Logger
}

func NewHandler(config *Config, client *database.ElasticsearchClient, rt *camunda.Runtime, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		client:  client,
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
		return nil, errors.New("input cannot be nil")
	}

	sq, err := h.buildSearch(input)
	if err != nil {
		return nil, err
	}

	exists, err := h.client.IndexExists(ctx, sq.Index)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrSearchTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, sq.Index)
	}

	result, err := queries.Execute(ctx, h.client.Client, sq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrSearchTimeout, err)
		}
		var statusErr *queries.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, sq.Index)
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	h.logger.Debug("search completed", map[string]interface{}{
		"index":     sq.Index,
		"queryType": sq.QueryType,
		"totalHits": result.TotalHits,
		"took":      result.Took,
	})

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
	}, nil
}

func (h *Handler) buildSearch(input *Input) (queries.SearchQuery, error) {
	sq := queries.SearchQuery{
		Index:     input.IndexName,
		QueryType: input.QueryType,
		From:      input.Pagination.From,
		Size:      input.Pagination.Size,
	}
	if sq.Index == "" {
		sq.Index = h.config.Index
	}

	filters := input.Filters
	if filters == nil {
		filters = map[string]interface{}{}
	}

	switch sq.QueryType {
	case queries.QueryTypeProviderSearch:
		criteria, err := scoring.ParseCriteria(filters)
		if err != nil {
			return sq, fmt.Errorf("%w: %v", ErrInvalidFilterFormat, err)
		}
		sq.Criteria = criteria
	case queries.QueryTypeProviderByIDs:
		ids, err := stringList(filters["ids"])
		if err != nil || len(ids) == 0 {
			return sq, fmt.Errorf("%w: filters.ids must be a non-empty list of strings", ErrInvalidFilterFormat)
		}
		sq.IDs = ids
	default:
		return sq, fmt.Errorf("%w: %s", ErrInvalidQueryType, sq.QueryType)
	}
	return sq, nil
}

func stringList(v interface{}) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return list, nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("id %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("ids must be a list, got %T", v)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
