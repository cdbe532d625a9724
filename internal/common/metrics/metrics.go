// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"provider-ranking-workers/internal/models"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	ProvidersScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "providers_scored_total",
			Help: "Providers enriched, by confidence label",
		},
		[]string{"confidence"},
	)

	ProviderScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "provider_score",
			Help:    "Distribution of computed provider total scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	ProviderMissingFactors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_missing_factors_total",
			Help: "Factor values absent from scored providers",
		},
		[]string{"factor"},
	)

	RankingResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_results",
			Help:    "Number of providers returned by a ranking",
			Buckets: prometheus.ExponentialBuckets(1, 4, 7),
		},
	)

	ScoreCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_cache_requests_total",
			Help: "Score cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// ObserveJob records the outcome of one job. An empty errorCode counts as
// completed.
func ObserveJob(taskType string, started time.Time, errorCode string) {
	if errorCode != "" {
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
		return
	}
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(started).Seconds())
}

// ObserveProvider records the derived fields of one enriched provider.
func ObserveProvider(p models.Provider) {
	ProvidersScored.WithLabelValues(string(p.Confidence.Label)).Inc()
	ProviderScore.Observe(float64(p.TotalScore))
	for _, code := range p.MissingFactors {
		ProviderMissingFactors.WithLabelValues(string(code)).Inc()
	}
}
