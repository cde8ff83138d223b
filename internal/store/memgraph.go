package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/signalworks/grantradar/internal/model"
)

// embeddingDims matches the output dimensionality of the configured
// embedding models (text-embedding-3-small and text-embedding-004).
const embeddingDims = 1536

// MemgraphStore persists cards and sources in Memgraph and serves similarity
// queries through its vector_search module.
type MemgraphStore struct {
	Driver neo4j.DriverWithContext
}

func NewMemgraphStore(uri, username, password string) (*MemgraphStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Connected to Memgraph")
	return &MemgraphStore{Driver: driver}, nil
}

func (s *MemgraphStore) Close(ctx context.Context) error {
	return s.Driver.Close(ctx)
}

func (s *MemgraphStore) executeQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (s *MemgraphStore) BuildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :Source(id);",
		"CREATE INDEX ON :Card(id);",
		"CREATE INDEX ON :Source(card_id);",
		"CREATE INDEX ON :Source(url);",
		"CREATE INDEX ON :Card(pillar);",

		fmt.Sprintf(`CALL vector_search.create_index("source_embedding_index", "Source", "embedding", %d, "COSINE");`, embeddingDims),
		fmt.Sprintf(`CALL vector_search.create_index("card_embedding_index", "Card", "embedding", %d, "COSINE");`, embeddingDims),
	}

	for _, q := range queries {
		_, err := s.executeQuery(ctx, q, nil)
		if err != nil {
			// Index may already exist.
			log.Printf("Warning: failed to create index '%s': %v", q, err)
		}
	}

	return nil
}

func (s *MemgraphStore) FindSourceByURL(ctx context.Context, cardID, url string) (*model.Source, error) {
	result, err := s.executeQuery(ctx, FindSourceByURLQuery, map[string]interface{}{
		"card_id": cardID,
		"url":     url,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, nil
	}

	rec := result.Records[0]
	src := &model.Source{}
	if v, ok := rec.Get("id"); ok && v != nil {
		src.ID = v.(string)
	}
	if v, ok := rec.Get("card_id"); ok && v != nil {
		src.CardID = v.(string)
	}
	if v, ok := rec.Get("url"); ok && v != nil {
		src.URL = v.(string)
	}
	if v, ok := rec.Get("title"); ok && v != nil {
		src.Title = v.(string)
	}
	if v, ok := rec.Get("duplicate_of"); ok && v != nil {
		src.DuplicateOf = v.(string)
	}
	if v, ok := rec.Get("is_related"); ok && v != nil {
		src.IsRelated = v.(bool)
	}
	return src, nil
}

func (s *MemgraphStore) SearchSimilarSources(ctx context.Context, cardID string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error) {
	result, err := s.executeQuery(ctx, SearchSimilarSourcesQuery, map[string]interface{}{
		"card_id": cardID,
		"vector":  vector,
		// Over-fetch from the index so scope filtering still leaves
		// enough candidates.
		"search_limit":   limit * 4,
		"min_similarity": minSimilarity,
		"limit":          limit,
	})
	if err != nil {
		return nil, err
	}
	return parseMatches(result), nil
}

func (s *MemgraphStore) SearchSimilarCards(ctx context.Context, pillar string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error) {
	result, err := s.executeQuery(ctx, SearchSimilarCardsQuery, map[string]interface{}{
		"pillar":         pillar,
		"status":         model.StatusActive,
		"vector":         vector,
		"search_limit":   limit * 4,
		"min_similarity": minSimilarity,
		"limit":          limit,
	})
	if err != nil {
		return nil, err
	}
	return parseMatches(result), nil
}

func (s *MemgraphStore) SaveSource(ctx context.Context, src *model.Source) error {
	if src.CreatedAt.IsZero() {
		src.CreatedAt = time.Now().UTC()
	}
	_, err := s.executeQuery(ctx, SaveSourceQuery, map[string]interface{}{
		"id":           src.ID,
		"card_id":      src.CardID,
		"url":          src.URL,
		"title":        src.Title,
		"content":      src.Content,
		"embedding":    src.Embedding,
		"duplicate_of": src.DuplicateOf,
		"is_related":   src.IsRelated,
		"created_at":   src.CreatedAt.Format(time.RFC3339),
	})
	return err
}

func (s *MemgraphStore) SaveCard(ctx context.Context, card *model.Card) error {
	now := time.Now().UTC()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now
	_, err := s.executeQuery(ctx, SaveCardQuery, map[string]interface{}{
		"id":           card.ID,
		"name":         card.Name,
		"summary":      card.Summary,
		"pillar":       card.Pillar,
		"confidence":   card.Confidence,
		"status":       card.Status,
		"source_count": card.SourceCount,
		"embedding":    card.Embedding,
		"created_at":   card.CreatedAt.Format(time.RFC3339),
		"updated_at":   card.UpdatedAt.Format(time.RFC3339),
	})
	return err
}

// AttachSource saves the source scoped to the card and links it. The card's
// source_count and updated_at move in the same statement so freshness
// tracking cannot drift from the link itself.
func (s *MemgraphStore) AttachSource(ctx context.Context, cardID string, src *model.Source) error {
	src.CardID = cardID
	if err := s.SaveSource(ctx, src); err != nil {
		return fmt.Errorf("failed to save source: %w", err)
	}

	_, err := s.executeQuery(ctx, AttachSourceQuery, map[string]interface{}{
		"card_id":    cardID,
		"source_id":  src.ID,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to link source to card: %w", err)
	}
	return nil
}

func parseMatches(result neo4j.EagerResult) []model.SimilarityMatch {
	var matches []model.SimilarityMatch
	for _, rec := range result.Records {
		var m model.SimilarityMatch
		if v, ok := rec.Get("id"); ok && v != nil {
			m.ID = v.(string)
		}
		if v, ok := rec.Get("similarity"); ok && v != nil {
			m.Similarity = v.(float64)
		}
		matches = append(matches, m)
	}
	return matches
}
