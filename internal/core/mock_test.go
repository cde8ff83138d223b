package core

import (
	"context"

	"github.com/signalworks/grantradar/internal/model"
)

type MockStore struct {
	URLSource   *model.Source
	Matches     []model.SimilarityMatch
	CardMatches []model.SimilarityMatch

	SavedSources []*model.Source
	SavedCards   []*model.Card
	IndicesBuilt bool
}

func (m *MockStore) FindSourceByURL(ctx context.Context, cardID, url string) (*model.Source, error) {
	return m.URLSource, nil
}

func (m *MockStore) SearchSimilarSources(ctx context.Context, cardID string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error) {
	return m.Matches, nil
}

func (m *MockStore) SearchSimilarCards(ctx context.Context, pillar string, vector []float32, minSimilarity float64, limit int) ([]model.SimilarityMatch, error) {
	return m.CardMatches, nil
}

func (m *MockStore) SaveSource(ctx context.Context, src *model.Source) error {
	m.SavedSources = append(m.SavedSources, src)
	return nil
}

func (m *MockStore) SaveCard(ctx context.Context, card *model.Card) error {
	m.SavedCards = append(m.SavedCards, card)
	return nil
}

func (m *MockStore) AttachSource(ctx context.Context, cardID string, src *model.Source) error {
	src.CardID = cardID
	m.SavedSources = append(m.SavedSources, src)
	return nil
}

func (m *MockStore) BuildIndices(ctx context.Context) error {
	m.IndicesBuilt = true
	return nil
}

func (m *MockStore) Close(ctx context.Context) error { return nil }

type MockEmbedder struct {
	Vector []float32
	Err    error
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}

type MockLLM struct {
	Response string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return m.Response, nil
}
