// internal/workers/data-access/query-elasticsearch/config.go
package queryelasticsearch

import (
	"time"

	"provider-ranking-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// Index is searched when a job does not name one.
	Index string
}

func NewConfig(wcfg config.WorkerConfig, search config.SearchConfig) *Config {
	return &Config{
		Timeout: config.GetDuration(wcfg.Timeout),
		Index:   search.ProviderIndex,
	}
}
