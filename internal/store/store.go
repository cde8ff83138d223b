package store

import (
	"context"

	"github.com/signalworks/grantradar/internal/model"
)

// VectorStore is the persistence and similarity-index surface the engines
// depend on. Searches are scoped: source searches to one card, card searches
// to one pillar. Both return matches ordered by similarity descending and
// never include sources that already carry a duplicate_of back-reference.
type VectorStore interface {
	FindSourceByURL(ctx context.Context, cardID, url string) (*model.Source, error)
	SearchSimilarSources(ctx context.Context, cardID string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error)
	SearchSimilarCards(ctx context.Context, pillar string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error)
	SaveSource(ctx context.Context, src *model.Source) error
	SaveCard(ctx context.Context, card *model.Card) error
	AttachSource(ctx context.Context, cardID string, src *model.Source) error
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
