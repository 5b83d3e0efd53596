// internal/common/genai/cache.go
package genai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"autotrader-workers/internal/common/database"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/common/metrics"
)

// DefaultEmbeddingTTL keeps cached vectors around long enough to serve a
// browsing session without pinning stale catalog text forever.
const DefaultEmbeddingTTL = 24 * time.Hour

// CachedEmbedder memoizes embedding lookups in Redis. Identical profile text
// produces identical vectors, so repeat searches skip the provider round trip.
type CachedEmbedder struct {
	inner  Embedder
	redis  *database.RedisClient
	model  string
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedEmbedder(inner Embedder, redis *database.RedisClient, model string, ttl time.Duration, log logger.Logger) *CachedEmbedder {
	if ttl <= 0 {
		ttl = DefaultEmbeddingTTL
	}
	return &CachedEmbedder{
		inner:  inner,
		redis:  redis,
		model:  model,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "embedding-cache"}),
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := c.cacheKey(text)

	if cached, err := c.redis.Get(ctx, key); err == nil {
		var vector []float64
		if err := json.Unmarshal([]byte(cached), &vector); err == nil {
			metrics.EmbeddingCacheLookups.WithLabelValues("hit").Inc()
			return vector, nil
		}
		// Corrupt entry, fall through and overwrite
	}
	metrics.EmbeddingCacheLookups.WithLabelValues("miss").Inc()

	vector, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(vector); err == nil {
		if err := c.redis.Set(ctx, key, string(encoded), c.ttl); err != nil {
			c.logger.Warn("failed to cache embedding", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return vector, nil
}

func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + c.model + ":" + hex.EncodeToString(sum[:])
}
