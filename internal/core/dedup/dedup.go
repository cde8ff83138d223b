package dedup

import (
	"context"
	"fmt"
	"log"

	"github.com/signalworks/grantradar/internal/config"
	"github.com/signalworks/grantradar/internal/llm"
	"github.com/signalworks/grantradar/internal/model"
	"github.com/signalworks/grantradar/internal/store"
)

// Checker decides whether a candidate source duplicates, relates to, or is
// distinct from one card's existing sources. Two tiers: an exact URL match
// scoped to the card, then an embedding similarity search against the card's
// primary sources.
//
// Above DuplicateThreshold the source is a duplicate (skip); between
// RelatedThreshold and DuplicateThreshold inclusive it is related (store
// with a back-reference); below, it is distinct.
type Checker struct {
	Store              store.VectorStore
	Embedder           llm.EmbedderClient
	RelatedThreshold   float64
	DuplicateThreshold float64
	SearchLimit        int
}

// NewChecker validates the threshold configuration up front: a bad config is
// a wiring bug, not a runtime condition, so it fails construction.
func NewChecker(vs store.VectorStore, embedder llm.EmbedderClient, cfg config.DedupConfig) (*Checker, error) {
	if cfg.RelatedThreshold <= 0 || cfg.RelatedThreshold > 1 {
		return nil, fmt.Errorf("invalid related threshold %v: must be in (0, 1]", cfg.RelatedThreshold)
	}
	if cfg.DuplicateThreshold <= 0 || cfg.DuplicateThreshold > 1 {
		return nil, fmt.Errorf("invalid duplicate threshold %v: must be in (0, 1]", cfg.DuplicateThreshold)
	}
	if cfg.RelatedThreshold > cfg.DuplicateThreshold {
		return nil, fmt.Errorf("related threshold %v exceeds duplicate threshold %v", cfg.RelatedThreshold, cfg.DuplicateThreshold)
	}
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = 5
	}

	return &Checker{
		Store:              vs,
		Embedder:           embedder,
		RelatedThreshold:   cfg.RelatedThreshold,
		DuplicateThreshold: cfg.DuplicateThreshold,
		SearchLimit:        limit,
	}, nil
}

// Check runs the duplicate decision for one candidate against one card.
// The check is best-effort: provider or store failures degrade to the
// no-match result so a source is never lost to a dedup outage. Only an
// empty cardID surfaces as an error.
func (c *Checker) Check(ctx context.Context, cardID, content, url string, embedding []float32) (model.DedupResult, error) {
	if cardID == "" {
		return model.DedupResult{}, fmt.Errorf("dedup check requires a card id")
	}

	// Tier 1: exact URL match. A lookup failure falls through to the
	// similarity tier rather than failing the check.
	if url != "" {
		existing, err := c.Store.FindSourceByURL(ctx, cardID, url)
		if err != nil {
			log.Printf("Warning: url lookup failed for card %s: %v", cardID, err)
		} else if existing != nil {
			return model.DedupResult{
				IsDuplicate: true,
				DuplicateOf: existing.ID,
				Similarity:  1.0,
				Action:      model.ActionSkip,
			}, nil
		}
	}

	// Tier 2: embedding similarity. Without an embedding the check
	// degrades to URL-only.
	vector := embedding
	if len(vector) == 0 && content != "" {
		if c.Embedder == nil {
			return model.NoMatch(), nil
		}
		vec, err := c.Embedder.Embed(ctx, content)
		if err != nil {
			log.Printf("Warning: embedding generation failed for card %s: %v", cardID, err)
			return model.NoMatch(), nil
		}
		vector = vec
	}
	if len(vector) == 0 {
		return model.NoMatch(), nil
	}

	matches, err := c.Store.SearchSimilarSources(ctx, cardID, vector, c.RelatedThreshold, c.SearchLimit)
	if err != nil {
		log.Printf("Warning: similarity search failed for card %s: %v", cardID, err)
		return model.NoMatch(), nil
	}
	if len(matches) == 0 {
		return model.NoMatch(), nil
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.Similarity > best.Similarity {
			best = m
		}
	}

	switch {
	case best.Similarity > c.DuplicateThreshold:
		return model.DedupResult{
			IsDuplicate: true,
			DuplicateOf: best.ID,
			Similarity:  best.Similarity,
			Action:      model.ActionSkip,
		}, nil
	case best.Similarity >= c.RelatedThreshold:
		return model.DedupResult{
			IsRelated:   true,
			DuplicateOf: best.ID,
			Similarity:  best.Similarity,
			Action:      model.ActionStoreRelated,
		}, nil
	default:
		return model.NoMatch(), nil
	}
}
