// internal/cache/score_cache.go
package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"provider-ranking-workers/internal/common/errors"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/common/metrics"
	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/internal/scoring"
)

// Entry is one memoized scoring result.
type Entry struct {
	ID        string         `json:"id"`
	Result    scoring.Result `json:"result"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ScoreCache memoizes scoring results in Redis, keyed by the engine
// fingerprint of the factor values. The fingerprint covers weights and
// thresholds, so a config change never serves stale results.
type ScoreCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
	logger logger.Logger
}

func NewScoreCache(client redis.Cmdable, ttl time.Duration, prefix string, log logger.Logger) *ScoreCache {
	return &ScoreCache{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		logger: log.WithFields(map[string]interface{}{"component": "score-cache"}),
	}
}

func (c *ScoreCache) key(fingerprint string) string {
	return c.prefix + fingerprint
}

// Get returns the cached entry. A miss is (nil, nil); Redis failures come
// back as CACHE_UNAVAILABLE.
func (c *ScoreCache) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	raw, err := c.client.Get(ctx, c.key(fingerprint)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// corrupt entries are treated as misses and overwritten
		c.logger.Warn("discarding unreadable cache entry", map[string]interface{}{
			"key":   c.key(fingerprint),
			"error": err,
		})
		return nil, nil
	}
	return &entry, nil
}

func (c *ScoreCache) Set(ctx context.Context, fingerprint string, result scoring.Result) (*Entry, error) {
	entry := &Entry{
		ID:        uuid.NewString(),
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, c.key(fingerprint), raw, c.ttl).Err(); err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}
	return entry, nil
}

// Score returns the engine's result for values, serving it from the cache
// when present. Cache failures are logged and the result is computed
// directly. The boolean reports a cache hit.
func (c *ScoreCache) Score(ctx context.Context, engine *scoring.Engine, values models.FactorValues) (scoring.Result, bool) {
	fingerprint := engine.Fingerprint(values)

	entry, err := c.Get(ctx, fingerprint)
	switch {
	case err != nil:
		metrics.ScoreCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("score cache read failed", map[string]interface{}{"error": err})
	case entry != nil:
		metrics.ScoreCacheRequests.WithLabelValues("hit").Inc()
		return entry.Result, true
	default:
		metrics.ScoreCacheRequests.WithLabelValues("miss").Inc()
	}

	result := engine.Score(values)
	if err == nil {
		if _, err := c.Set(ctx, fingerprint, result); err != nil {
			c.logger.Warn("score cache write failed", map[string]interface{}{"error": err})
		}
	}
	return result, false
}
