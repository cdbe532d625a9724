// internal/workers/provider/parse-provider-filters/handler_test.go
package parseproviderfilters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/models"
)

// ==========================
// Test Helpers
// ==========================

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(&Config{Timeout: 5 * time.Second}, nil, logger.NewTestLogger(t))
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]interface{}
		expected models.FilterCriteria
	}{
		{
			name:     "nil filters default",
			raw:      nil,
			expected: models.DefaultFilterCriteria(),
		},
		{
			name: "form style input",
			raw: map[string]interface{}{
				"query":    " cardio ",
				"state":    "tx",
				"minScore": "60",
				"sortKey":  "name",
			},
			expected: models.FilterCriteria{Query: "cardio", State: "TX", MinScore: 60, SortKey: models.SortByName},
		},
		{
			name:     "numeric min score",
			raw:      map[string]interface{}{"minScore": 72.0, "city": "Austin"},
			expected: models.FilterCriteria{City: "Austin", State: models.AllStates, MinScore: 72, SortKey: models.SortByScore},
		},
	}

	h := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), &Input{RawFilters: tt.raw})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output.Criteria)
		})
	}
}

func TestHandler_Execute_InvalidFilters(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
	}{
		{"bad sort key", map[string]interface{}{"sortKey": "distance"}},
		{"bad min score", map[string]interface{}{"minScore": "lots"}},
		{"list state", map[string]interface{}{"state": []interface{}{"TX"}}},
	}

	h := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := h.Execute(context.Background(), &Input{RawFilters: tt.raw})
			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, errors.Is(err, ErrInvalidFilterFormat))
		})
	}
}
