package core

import (
	"context"
	"time"

	"github.com/signalworks/grantradar/internal/config"
	"github.com/signalworks/grantradar/internal/core/cluster"
	"github.com/signalworks/grantradar/internal/core/dedup"
	"github.com/signalworks/grantradar/internal/llm"
	"github.com/signalworks/grantradar/internal/model"
	"github.com/signalworks/grantradar/internal/store"
)

// Signals is the facade the discovery pipeline talks to: duplicate checks
// for single sources and clustering runs for whole batches. It owns the
// shared embedder decoration (TTL cache, rate limit) so both engines see
// the same provider behavior.
type Signals struct {
	Store    store.VectorStore
	LLM      llm.LLMClient
	Embedder llm.EmbedderClient
	Checker  *dedup.Checker
	Cluster  *cluster.Engine
}

func NewSignals(vs store.VectorStore, llmClient llm.LLMClient, embedder llm.EmbedderClient, cfg *config.Config) (*Signals, error) {
	if embedder != nil {
		embedder = llm.NewRateLimitedEmbedder(embedder, cfg.Concurrency.EmbedRatePerSec, cfg.Concurrency.EmbedBurst)
		embedder = llm.NewCachedEmbedder(embedder,
			time.Duration(cfg.Cache.EmbeddingTTLMinutes)*time.Minute,
			time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute)
	}

	checker, err := dedup.NewChecker(vs, embedder, cfg.Dedup)
	if err != nil {
		return nil, err
	}

	clusterEngine, err := cluster.NewEngine(vs, embedder, llmClient, cfg.Dedup, cfg.Clustering, cfg.Concurrency.PillarGroups)
	if err != nil {
		return nil, err
	}

	return &Signals{
		Store:    vs,
		LLM:      llmClient,
		Embedder: embedder,
		Checker:  checker,
		Cluster:  clusterEngine,
	}, nil
}

func (s *Signals) BuildIndices(ctx context.Context) error {
	return s.Store.BuildIndices(ctx)
}

// CheckDuplicate decides skip / store_as_related / store for one candidate
// source against one card's existing sources.
func (s *Signals) CheckDuplicate(ctx context.Context, cardID, content, url string, embedding []float32) (model.DedupResult, error) {
	return s.Checker.Check(ctx, cardID, content, url, embedding)
}

// RunSignalClustering assigns one discovery batch to existing or new cards.
func (s *Signals) RunSignalClustering(ctx context.Context, sources []model.ProcessedSource, opts cluster.Options) (*model.RunResult, []model.AuditEntry, error) {
	return s.Cluster.Run(ctx, sources, opts)
}
