// internal/workers/insights/generate-provider-insights/config.go
package generateproviderinsights

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
