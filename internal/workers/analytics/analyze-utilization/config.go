// internal/workers/analytics/analyze-utilization/config.go
package analyzeutilization

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
