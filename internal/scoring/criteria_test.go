// internal/scoring/criteria_test.go
package scoring

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-ranking-workers/internal/models"
)

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]interface{}
		expected models.FilterCriteria
	}{
		{
			name:     "empty means defaults",
			raw:      map[string]interface{}{},
			expected: models.DefaultFilterCriteria(),
		},
		{
			name: "trims and upper-cases",
			raw: map[string]interface{}{
				"query":   "  smith ",
				"city":    " Boston",
				"state":   " ma ",
				"sortKey": " Name ",
			},
			expected: models.FilterCriteria{Query: "smith", City: "Boston", State: "MA", SortKey: models.SortByName},
		},
		{
			name:     "numeric string min score",
			raw:      map[string]interface{}{"minScore": " 70 "},
			expected: models.FilterCriteria{State: models.AllStates, MinScore: 70, SortKey: models.SortByScore},
		},
		{
			name:     "fractional min score rounds up",
			raw:      map[string]interface{}{"minScore": 64.4},
			expected: models.FilterCriteria{State: models.AllStates, MinScore: 65, SortKey: models.SortByScore},
		},
		{
			name:     "fractional numeric string rounds up",
			raw:      map[string]interface{}{"minScore": "99.2"},
			expected: models.FilterCriteria{State: models.AllStates, MinScore: 100, SortKey: models.SortByScore},
		},
		{
			name:     "json number",
			raw:      map[string]interface{}{"minScore": json.Number("55")},
			expected: models.FilterCriteria{State: models.AllStates, MinScore: 55, SortKey: models.SortByScore},
		},
		{
			name:     "clamped above 100",
			raw:      map[string]interface{}{"minScore": 250.0},
			expected: models.FilterCriteria{State: models.AllStates, MinScore: 100, SortKey: models.SortByScore},
		},
		{
			name:     "clamped below 0",
			raw:      map[string]interface{}{"minScore": "-5"},
			expected: models.FilterCriteria{State: models.AllStates, MinScore: 0, SortKey: models.SortByScore},
		},
		{
			name:     "null fields ignored",
			raw:      map[string]interface{}{"state": nil, "minScore": nil},
			expected: models.DefaultFilterCriteria(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCriteria(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCriteria_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
	}{
		{"unknown sort key", map[string]interface{}{"sortKey": "rating"}},
		{"non-numeric min score", map[string]interface{}{"minScore": "high"}},
		{"boolean min score", map[string]interface{}{"minScore": true}},
		{"non-string state", map[string]interface{}{"state": 12.0}},
		{"non-string sort key", map[string]interface{}{"sortKey": 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCriteria(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFilter))
		})
	}
}

func TestNormalizeCriteria(t *testing.T) {
	got, err := NormalizeCriteria(models.FilterCriteria{State: "all", MinScore: 120, SortKey: "SCORE"})
	require.NoError(t, err)
	assert.Equal(t, models.FilterCriteria{State: models.AllStates, MinScore: 100, SortKey: models.SortByScore}, got)

	_, err = NormalizeCriteria(models.FilterCriteria{SortKey: "npi"})
	assert.True(t, errors.Is(err, ErrInvalidFilter))
}

func TestParseCriteria_FractionalMinScoreStaysInclusive(t *testing.T) {
	providers := []models.Provider{
		{ID: "p64", Name: "Dr. Sixty Four", TotalScore: 64},
		{ID: "p65", Name: "Dr. Sixty Five", TotalScore: 65},
	}

	criteria, err := ParseCriteria(map[string]interface{}{"minScore": 64.4})
	require.NoError(t, err)

	ranked := RankProviders(providers, criteria)
	require.Len(t, ranked, 1)
	assert.Equal(t, "p65", ranked[0].ID)
}
