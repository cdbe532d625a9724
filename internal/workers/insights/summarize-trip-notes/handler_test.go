// internal/workers/insights/summarize-trip-notes/handler_test.go
package summarizetripnotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/insights"
	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/repository"
)

func createTestHandler(t *testing.T, notes NoteSource) *Handler {
	t.Helper()
	return NewHandler(&Config{Timeout: 5 * time.Second}, notes, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_InlineNotes(t *testing.T) {
	h := createTestHandler(t, nil)

	output, err := h.Execute(context.Background(), &Input{Notes: []models.TripNote{
		{Date: "2025-05-02", Summary: "Asked about a trial of the hydrophilic kit", Sentiment: models.SentimentPositive, FollowUp: models.FollowUpNone},
		{Date: "2025-04-10", Summary: "Intermittent technique review", Sentiment: models.SentimentNeutral, FollowUp: "Send teach-back sheet"},
	}})
	require.NoError(t, err)

	assert.Equal(t, "Last 2 visits highlight: pilot/trial, intermittent education.", output.Summary)
	assert.Equal(t, insights.ActionMicroTrial, output.NextBestAction)
	assert.Equal(t, 2, output.Stats.Count)
	assert.Equal(t, 1, output.Stats.FollowUps)
	assert.Equal(t, "2025-05-02", output.Stats.LastVisit)
	assert.Equal(t, models.SentimentPositive, output.Stats.OverallSentiment)
}

func TestHandler_Execute_LoadsNotes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM trip_notes WHERE provider_id = \$1 ORDER BY visit_date DESC`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"provider_id", "visit_date", "summary", "sentiment", "follow_up"}).
			AddRow("p1", "2025-05-02", "CAUTI bundle review", "neutral", ""))

	h := createTestHandler(t, repository.NewProviderRepository(sqlx.NewDb(db, "postgres")))

	output, err := h.Execute(context.Background(), &Input{ProviderID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "p1", output.ProviderID)
	assert.Equal(t, []string{insights.KeywordCAUTI}, output.Keywords)
	assert.Equal(t, insights.ActionDecisionAid, output.NextBestAction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_LoadFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM trip_notes`).WillReturnError(errors.New("relation does not exist"))

	h := createTestHandler(t, repository.NewProviderRepository(sqlx.NewDb(db, "postgres")))

	output, err := h.Execute(context.Background(), &Input{ProviderID: "p1"})
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, ErrQueryExecutionFailed))
}

func TestHandler_Execute_MissingInput(t *testing.T) {
	h := createTestHandler(t, nil)

	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputValidationFailed))
}

func TestHandler_Execute_EmptyNotes(t *testing.T) {
	h := createTestHandler(t, nil)

	output, err := h.Execute(context.Background(), &Input{Notes: []models.TripNote{}})
	require.NoError(t, err)
	assert.Equal(t, "Last 0 visits highlight: general interest.", output.Summary)
	assert.Equal(t, insights.ActionDecisionAid, output.NextBestAction)
}
