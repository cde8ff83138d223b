package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedEmbedder wraps an EmbedderClient with a TTL-bounded in-memory cache.
// Discovery runs revisit the same titles and card summaries often enough
// that caching pays for itself within a run. The cache is owned by whoever
// constructs it, never shared process-wide.
type CachedEmbedder struct {
	inner EmbedderClient
	cache *gocache.Cache
	ttl   time.Duration
}

func NewCachedEmbedder(inner EmbedderClient, ttl, cleanupInterval time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := embedCacheKey(text)
	if val, found := c.cache.Get(key); found {
		return val.([]float32), nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, vec, c.ttl)
	return vec, nil
}

// embedCacheKey hashes the (already truncated) text so cache keys stay small.
func embedCacheKey(text string) string {
	hash := sha256.Sum256([]byte(truncate(text)))
	return "embed:v1:" + hex.EncodeToString(hash[:])
}
