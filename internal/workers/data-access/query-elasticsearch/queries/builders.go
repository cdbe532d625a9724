// internal/workers/data-access/query-elasticsearch/queries/builders.go
package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"provider-ranking-workers/internal/models"
)

const (
	QueryTypeProviderSearch = "provider_search"
	QueryTypeProviderByIDs  = "provider_by_ids"

	DefaultSize = 20
	MaxSize     = 100
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
	ErrMissingIDs       = errors.New("ids are required")
)

// ProviderIndexMapping is the mapping the provider index is created with.
// Documents are enriched providers serialized as JSON.
const ProviderIndexMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "npi":        {"type": "keyword"},
      "name":       {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "specialty":  {"type": "keyword"},
      "setting":    {"type": "keyword"},
      "city":       {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
      "state":      {"type": "keyword"},
      "factors":    {"type": "object"},
      "totalScore": {"type": "integer"},
      "confidence": {"properties": {"label": {"type": "keyword"}, "tone": {"type": "keyword"}}},
      "signals":    {"type": "keyword"},
      "updatedAt":  {"type": "date"}
    }
  }
}`

type SearchQuery struct {
	Index     string
	QueryType string
	Criteria  models.FilterCriteria
	IDs       []string
	From      int
	Size      int
}

func BuildQuery(sq SearchQuery) (*esapi.SearchRequest, error) {
	if sq.Index == "" {
		return nil, ErrMissingIndex
	}

	var body map[string]interface{}
	switch sq.QueryType {
	case QueryTypeProviderSearch:
		body = buildProviderSearchQuery(sq.Criteria)
	case QueryTypeProviderByIDs:
		if len(sq.IDs) == 0 {
			return nil, ErrMissingIDs
		}
		body = buildProviderByIDsQuery(sq.IDs)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, sq.QueryType)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	from, size := paginate(sq.From, sq.Size)
	return &esapi.SearchRequest{
		Index:          []string{sq.Index},
		Body:           bytes.NewReader(encoded),
		From:           &from,
		Size:           &size,
		TrackTotalHits: true,
	}, nil
}

func paginate(from, size int) (int, int) {
	if from < 0 {
		from = 0
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return from, size
}

// buildProviderSearchQuery mirrors the in-memory ranking filter: free text
// over name and npi, city substring, exact state, and a score floor.
func buildProviderSearchQuery(c models.FilterCriteria) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if c.Query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  c.Query,
				"fields": []string{"name^3", "npi"},
				"type":   "best_fields",
			},
		})
	}
	if c.City != "" {
		filter = append(filter, map[string]interface{}{
			"wildcard": map[string]interface{}{
				"city.keyword": map[string]interface{}{
					"value":            "*" + c.City + "*",
					"case_insensitive": true,
				},
			},
		})
	}
	if c.State != "" && c.State != models.AllStates {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"state": strings.ToUpper(c.State)},
		})
	}
	if c.MinScore > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{
				"totalScore": map[string]interface{}{"gte": c.MinScore},
			},
		})
	}

	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if len(must) > 0 || len(filter) > 0 {
		query = map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		}
	}

	return map[string]interface{}{
		"query": query,
		"sort":  buildSort(c.SortKey),
	}
}

func buildSort(key models.SortKey) []interface{} {
	if key == models.SortByName {
		return []interface{}{
			map[string]interface{}{"name.keyword": "asc"},
			map[string]interface{}{"id": "asc"},
		}
	}
	return []interface{}{
		map[string]interface{}{"totalScore": "desc"},
		map[string]interface{}{"name.keyword": "asc"},
		map[string]interface{}{"id": "asc"},
	}
}

func buildProviderByIDsQuery(ids []string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"terms": map[string]interface{}{"id": ids},
		},
		"sort": []interface{}{
			map[string]interface{}{"id": "asc"},
		},
	}
}
