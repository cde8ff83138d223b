package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.vector, nil
}

func TestCachedEmbedderHitsProviderOnce(t *testing.T) {
	inner := &countingEmbedder{vector: []float32{0.1, 0.2}}
	cached := NewCachedEmbedder(inner, time.Minute, time.Minute)

	first, err := cached.Embed(context.Background(), "solar grants")
	assert.NoError(t, err)
	second, err := cached.Embed(context.Background(), "solar grants")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedEmbedderDoesNotCacheErrors(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("timeout")}
	cached := NewCachedEmbedder(inner, time.Minute, time.Minute)

	_, err := cached.Embed(context.Background(), "solar grants")
	assert.Error(t, err)

	inner.err = nil
	inner.vector = []float32{0.3}
	vec, err := cached.Embed(context.Background(), "solar grants")
	assert.NoError(t, err)
	assert.Equal(t, []float32{0.3}, vec)
	assert.Equal(t, 2, inner.calls)
}

func TestCacheKeyTruncatesLongText(t *testing.T) {
	long := make([]byte, embedMaxChars+500)
	for i := range long {
		long[i] = 'a'
	}
	// Texts identical within the truncation window share a key.
	assert.Equal(t, embedCacheKey(string(long)), embedCacheKey(string(long[:embedMaxChars])))
}
