// internal/common/metrics/metrics_test.go
package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"provider-ranking-workers/internal/models"
)

func TestObserveProvider(t *testing.T) {
	before := testutil.ToFloat64(ProvidersScored.WithLabelValues("Medium"))
	missingBefore := testutil.ToFloat64(ProviderMissingFactors.WithLabelValues("B"))

	ObserveProvider(models.Provider{
		ID:             "p1",
		TotalScore:     38,
		Confidence:     models.Confidence{Label: models.ConfidenceMedium, Tone: models.ToneWarning},
		MissingFactors: []models.FactorCode{models.FactorB, models.FactorD},
	})

	assert.Equal(t, before+1, testutil.ToFloat64(ProvidersScored.WithLabelValues("Medium")))
	assert.Equal(t, missingBefore+1, testutil.ToFloat64(ProviderMissingFactors.WithLabelValues("B")))
}

func TestObserveJob(t *testing.T) {
	completed := testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("test-task"))
	failed := testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("test-task", "QUERY_TIMEOUT"))

	ObserveJob("test-task", time.Now(), "")
	ObserveJob("test-task", time.Now(), "QUERY_TIMEOUT")

	assert.Equal(t, completed+1, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("test-task")))
	assert.Equal(t, failed+1, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("test-task", "QUERY_TIMEOUT")))
}
