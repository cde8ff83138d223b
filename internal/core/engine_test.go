package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalworks/grantradar/internal/config"
	"github.com/signalworks/grantradar/internal/core/cluster"
	"github.com/signalworks/grantradar/internal/model"
)

func TestNewSignalsRejectsBadThresholds(t *testing.T) {
	cfg := config.Default()
	cfg.Dedup.RelatedThreshold = 0.99
	cfg.Dedup.DuplicateThreshold = 0.90

	_, err := NewSignals(&MockStore{}, &MockLLM{}, &MockEmbedder{}, cfg)
	assert.Error(t, err)
}

func TestCheckDuplicateEndToEnd(t *testing.T) {
	// The threshold walk from the dedup contract: url hit, near-duplicate,
	// related, distinct.
	st := &MockStore{URLSource: &model.Source{ID: "src-url", URL: "https://example.com/a"}}
	signals, err := NewSignals(st, &MockLLM{}, &MockEmbedder{Vector: []float32{1, 0}}, config.Default())
	require.NoError(t, err)

	ctx := context.Background()

	result, err := signals.CheckDuplicate(ctx, "card-1", "full text...", "https://example.com/a", nil)
	require.NoError(t, err)
	assert.Equal(t, model.ActionSkip, result.Action)
	assert.Equal(t, 1.0, result.Similarity)

	st.URLSource = nil
	st.Matches = []model.SimilarityMatch{{ID: "src-a", Similarity: 0.97}}
	result, err = signals.CheckDuplicate(ctx, "card-1", "full text...", "https://example.com/b", nil)
	require.NoError(t, err)
	assert.Equal(t, model.ActionSkip, result.Action)
	assert.Equal(t, 0.97, result.Similarity)

	st.Matches = []model.SimilarityMatch{{ID: "src-a", Similarity: 0.90}}
	result, err = signals.CheckDuplicate(ctx, "card-1", "full text...", "https://example.com/c", nil)
	require.NoError(t, err)
	assert.Equal(t, model.ActionStoreRelated, result.Action)
	assert.Equal(t, 0.90, result.Similarity)

	st.Matches = nil
	result, err = signals.CheckDuplicate(ctx, "card-1", "full text...", "https://example.com/d", nil)
	require.NoError(t, err)
	assert.Equal(t, model.ActionStore, result.Action)
	assert.Equal(t, 0.0, result.Similarity)
}

func TestRunSignalClusteringThroughFacade(t *testing.T) {
	st := &MockStore{}
	signals, err := NewSignals(st, &MockLLM{}, &MockEmbedder{Vector: []float32{1, 0}}, config.Default())
	require.NoError(t, err)

	sources := []model.ProcessedSource{
		{
			URL:       "https://example.com/1",
			Title:     "Grant program announced",
			Triage:    model.TriageResult{Relevant: true, Pillar: "climate", Confidence: 0.9},
			Analysis:  model.AnalysisResult{Summary: "a program", SuggestedCardName: "Program X"},
			Embedding: []float32{1, 0},
		},
	}

	result, audit, err := signals.RunSignalClustering(context.Background(), sources, cluster.Options{UseClustering: true})
	require.NoError(t, err)

	assert.Len(t, result.CardsCreated, 1)
	assert.Equal(t, 1, result.SourcesLinked)
	require.NotEmpty(t, st.SavedCards)
	assert.Equal(t, "Program X", st.SavedCards[0].Name)
	assert.NotEmpty(t, audit)
}
