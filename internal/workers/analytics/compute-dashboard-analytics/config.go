// internal/workers/analytics/compute-dashboard-analytics/config.go
package computedashboardanalytics

import (
	"time"

	"provider-ranking-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func NewConfig(wcfg config.WorkerConfig) *Config {
	return &Config{Timeout: config.GetDuration(wcfg.Timeout)}
}
