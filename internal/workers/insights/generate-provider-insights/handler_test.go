// internal/workers/insights/generate-provider-insights/handler_test.go
package generateproviderinsights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

func createTestHandler(t *testing.T, now time.Time) *Handler {
	t.Helper()
	h := NewHandler(&Config{Timeout: 5 * time.Second}, scoring.NewEngine(nil), nil, logger.NewTestLogger(t))
	h.now = func() time.Time { return now }
	return h
}

func TestHandler_Execute(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	h := createTestHandler(t, now)

	output, err := h.Execute(context.Background(), &Input{Provider: models.Provider{
		ID:           "p1",
		Name:         "Dr. Alice Smith",
		UpdatedAt:    "2025-06-13T09:30:00Z",
		FactorValues: models.FactorValues{"A": 0.9, "B": 0.85, "C": 0.8, "D": 0.7, "E": 0.75, "F": 0.6},
	}})
	require.NoError(t, err)

	assert.Equal(t, "p1", output.ProviderID)
	assert.Equal(t, scoring.RelationshipStrong, output.RelationshipStatus)
	assert.Equal(t, string(scoring.TierHigh), output.ScoreTier)
	assert.Equal(t, models.ConfidenceHigh, output.Confidence.Label)
	assert.GreaterOrEqual(t, output.TotalScore, scoring.HighPerformerScore)
	assert.Len(t, output.RecommendedActions, 4)
	assert.Equal(t, "Evidence-based practice", output.TopSignals[0])
	assert.Equal(t, models.FreshnessThisWeek, output.Freshness.Label)
}

func TestHandler_Execute_NoTimestamp(t *testing.T) {
	h := createTestHandler(t, time.Now())

	output, err := h.Execute(context.Background(), &Input{Provider: models.Provider{
		ID:           "p2",
		FactorValues: models.FactorValues{"A": 0.2, "E": 0.9},
	}})
	require.NoError(t, err)

	assert.Equal(t, scoring.RelationshipNeedsAttention, output.RelationshipStatus)
	assert.Equal(t, []string{"Engagement level"}, output.TopSignals)
	assert.Equal(t, models.FreshnessOver30Days, output.Freshness.Label)
}

func TestHandler_Execute_InvalidProvider(t *testing.T) {
	h := createTestHandler(t, time.Now())

	output, err := h.Execute(context.Background(), &Input{Provider: models.Provider{ID: ""}})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrInvalidProviderData))
}
