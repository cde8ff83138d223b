package cluster

import (
	"context"
	"sync"

	"github.com/signalworks/grantradar/internal/model"
)

type attachCall struct {
	CardID string
	Source *model.Source
}

type MockStore struct {
	mu sync.Mutex

	// CardMatches is returned from SearchSimilarCards keyed by pillar.
	CardMatches map[string][]model.SimilarityMatch
	SearchErr   error
	SaveCardErr error
	AttachErr   error

	SavedCards []*model.Card
	Attached   []attachCall
}

func (m *MockStore) FindSourceByURL(ctx context.Context, cardID, url string) (*model.Source, error) {
	return nil, nil
}

func (m *MockStore) SearchSimilarSources(ctx context.Context, cardID string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error) {
	return nil, nil
}

func (m *MockStore) SearchSimilarCards(ctx context.Context, pillar string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.CardMatches[pillar], nil
}

func (m *MockStore) SaveSource(ctx context.Context, src *model.Source) error { return nil }

func (m *MockStore) SaveCard(ctx context.Context, card *model.Card) error {
	if m.SaveCardErr != nil {
		return m.SaveCardErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavedCards = append(m.SavedCards, card)
	return nil
}

func (m *MockStore) AttachSource(ctx context.Context, cardID string, src *model.Source) error {
	if m.AttachErr != nil {
		return m.AttachErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attached = append(m.Attached, attachCall{CardID: cardID, Source: src})
	return nil
}

func (m *MockStore) BuildIndices(ctx context.Context) error { return nil }

func (m *MockStore) Close(ctx context.Context) error { return nil }

type MockEmbedder struct {
	mu     sync.Mutex
	Vector []float32
	Err    error
	Calls  int
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}

type MockLLM struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
