package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedEmbedder throttles outbound embedding calls so concurrent
// pillar groups cannot exhaust the provider's rate limit between them.
type RateLimitedEmbedder struct {
	inner   EmbedderClient
	limiter *rate.Limiter
}

func NewRateLimitedEmbedder(inner EmbedderClient, requestsPerSecond float64, burst int) *RateLimitedEmbedder {
	if burst <= 0 {
		burst = 5
	}
	return &RateLimitedEmbedder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (r *RateLimitedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Embed(ctx, text)
}
