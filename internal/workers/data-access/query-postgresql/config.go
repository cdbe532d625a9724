// internal/workers/data-access/query-postgresql/config.go
package querypostgresql

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
