package dedup

import (
	"context"

	"github.com/signalworks/grantradar/internal/model"
)

type MockStore struct {
	URLSource *model.Source
	URLErr    error
	Matches   []model.SimilarityMatch
	SearchErr error

	URLQueries    int
	SearchQueries int
	LastCardID    string
	LastMin       float64
	LastLimit     int
}

func (m *MockStore) FindSourceByURL(ctx context.Context, cardID, url string) (*model.Source, error) {
	m.URLQueries++
	m.LastCardID = cardID
	if m.URLErr != nil {
		return nil, m.URLErr
	}
	return m.URLSource, nil
}

func (m *MockStore) SearchSimilarSources(ctx context.Context, cardID string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error) {
	m.SearchQueries++
	m.LastCardID = cardID
	m.LastMin = minSimilarity
	m.LastLimit = limit
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Matches, nil
}

func (m *MockStore) SearchSimilarCards(ctx context.Context, pillar string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error) {
	return nil, nil
}

func (m *MockStore) SaveSource(ctx context.Context, src *model.Source) error { return nil }

func (m *MockStore) SaveCard(ctx context.Context, card *model.Card) error { return nil }

func (m *MockStore) AttachSource(ctx context.Context, cardID string, src *model.Source) error {
	return nil
}

func (m *MockStore) BuildIndices(ctx context.Context) error { return nil }

func (m *MockStore) Close(ctx context.Context) error { return nil }

type MockEmbedder struct {
	Vector []float32
	Err    error
	Calls  int
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}
