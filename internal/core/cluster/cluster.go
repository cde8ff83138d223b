package cluster

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/signalworks/grantradar/internal/config"
	"github.com/signalworks/grantradar/internal/core/common"
	"github.com/signalworks/grantradar/internal/llm"
	"github.com/signalworks/grantradar/internal/model"
	"github.com/signalworks/grantradar/internal/store"
)

// Rough per-call cost accounting for the run summary. Not billing-grade;
// the surrounding application only needs an order of magnitude.
const (
	costPerEmbedding = 0.00002
	costPerLLMCall   = 0.002
)

// Engine assigns a batch of freshly discovered sources to existing signal
// cards or founds new ones. Batches are partitioned by triage pillar first;
// pillar groups are independent and run concurrently up to a bounded limit,
// while sources within a group are processed sequentially in presentation
// order. Order sensitivity within a group is accepted behavior: which source
// seeds a new card depends on batch order.
type Engine struct {
	Store              store.VectorStore
	Embedder           llm.EmbedderClient
	LLM                llm.LLMClient
	RelatedThreshold   float64
	DuplicateThreshold float64
	MaxNewCardsPerRun  int
	UseLLMGrouping     bool
	GroupConcurrency   int
}

// Options carries the per-run knobs the discovery pipeline controls.
type Options struct {
	MaxNewCards   int
	UseClustering bool
}

func NewEngine(vs store.VectorStore, embedder llm.EmbedderClient, llmClient llm.LLMClient, dedupCfg config.DedupConfig, cfg config.ClusteringConfig, concurrency int) (*Engine, error) {
	if dedupCfg.RelatedThreshold <= 0 || dedupCfg.RelatedThreshold > 1 ||
		dedupCfg.DuplicateThreshold <= 0 || dedupCfg.DuplicateThreshold > 1 ||
		dedupCfg.RelatedThreshold > dedupCfg.DuplicateThreshold {
		return nil, fmt.Errorf("invalid similarity thresholds: related=%v duplicate=%v", dedupCfg.RelatedThreshold, dedupCfg.DuplicateThreshold)
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Engine{
		Store:              vs,
		Embedder:           embedder,
		LLM:                llmClient,
		RelatedThreshold:   dedupCfg.RelatedThreshold,
		DuplicateThreshold: dedupCfg.DuplicateThreshold,
		MaxNewCardsPerRun:  cfg.MaxNewCardsPerRun,
		UseLLMGrouping:     cfg.UseLLMGrouping,
		GroupConcurrency:   concurrency,
	}, nil
}

// runState aggregates counters across concurrently running pillar groups and
// arbitrates the run-wide new-card budget.
type runState struct {
	mu        sync.Mutex
	result    model.RunResult
	audit     []model.AuditEntry
	cardsLeft int
}

func (rs *runState) reserveCard() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.cardsLeft <= 0 {
		return false
	}
	rs.cardsLeft--
	return true
}

func (rs *runState) addCost(c float64) {
	rs.mu.Lock()
	rs.result.CostEstimate += c
	rs.mu.Unlock()
}

func (rs *runState) recordCreate(cardID, sourceURL string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.result.CardsCreated = append(rs.result.CardsCreated, cardID)
	rs.audit = append(rs.audit, model.AuditEntry{Action: "create", CardID: cardID, SourceURL: sourceURL})
}

func (rs *runState) recordAttach(cardID, sourceURL string, similarity float64, related bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	seen := false
	for _, id := range rs.result.CardsEnriched {
		if id == cardID {
			seen = true
			break
		}
	}
	if !seen {
		rs.result.CardsEnriched = append(rs.result.CardsEnriched, cardID)
	}
	rs.audit = append(rs.audit, model.AuditEntry{Action: "attach", CardID: cardID, SourceURL: sourceURL, Similarity: similarity, Related: related})
}

func (rs *runState) addLinked(n int) {
	rs.mu.Lock()
	rs.result.SourcesLinked += n
	rs.mu.Unlock()
}

func (rs *runState) addSkipped(n int) {
	rs.mu.Lock()
	rs.result.SourcesSkipped += n
	rs.mu.Unlock()
}

// Run clusters one discovery batch. Failures on individual sources are
// logged and counted, never propagated: a clustering outage degrades
// precision, not availability. The returned result is valid even when the
// context is cancelled mid-run; groups not yet started are counted skipped.
func (e *Engine) Run(ctx context.Context, sources []model.ProcessedSource, opts Options) (*model.RunResult, []model.AuditEntry, error) {
	maxNew := opts.MaxNewCards
	if maxNew <= 0 {
		maxNew = e.MaxNewCardsPerRun
	}

	rs := &runState{cardsLeft: maxNew}

	// Phase 1: cheap grouping by pillar bounds the search space before any
	// embedding comparison.
	groups := make(map[string][]model.ProcessedSource)
	var order []string
	for _, src := range sources {
		if !src.Triage.Relevant {
			rs.addSkipped(1)
			continue
		}
		pillar := src.Triage.Pillar
		if _, ok := groups[pillar]; !ok {
			order = append(order, pillar)
		}
		groups[pillar] = append(groups[pillar], src)
	}

	// Phase 2: pillar groups are independent; fan out under a bounded
	// concurrency. Cancellation is coarse-grained: a group already started
	// runs to completion, groups not yet started are skipped.
	g := new(errgroup.Group)
	g.SetLimit(e.GroupConcurrency)

	for _, pillar := range order {
		pillar := pillar
		items := groups[pillar]
		g.Go(func() error {
			if ctx.Err() != nil {
				rs.addSkipped(len(items))
				return nil
			}
			e.processGroup(ctx, pillar, items, opts, rs)
			return nil
		})
	}

	_ = g.Wait()

	return &rs.result, rs.audit, nil
}

// processGroup runs the per-pillar assignment loop: attach to the best
// matching existing card, or park the source in the new-card pool.
func (e *Engine) processGroup(ctx context.Context, pillar string, items []model.ProcessedSource, opts Options, rs *runState) {
	type pooled struct {
		src model.ProcessedSource
		vec []float32
	}
	var pool []pooled

	for _, src := range items {
		vec, err := e.resolveEmbedding(ctx, src, rs)
		if err != nil {
			log.Printf("Warning: skipping source %s: %v", src.URL, err)
			rs.addSkipped(1)
			continue
		}

		matches, err := e.Store.SearchSimilarCards(ctx, pillar, vec, e.RelatedThreshold, 5)
		if err != nil {
			log.Printf("Warning: card search failed for pillar %s: %v", pillar, err)
			matches = nil
		}

		// A source qualifying against several cards attaches to the single
		// highest-similarity one; the store returns matches ordered
		// descending.
		if len(matches) > 0 {
			best := matches[0]
			for _, m := range matches[1:] {
				if m.Similarity > best.Similarity {
					best = m
				}
			}
			related := best.Similarity < e.DuplicateThreshold
			if err := e.attach(ctx, best.ID, src, vec, related); err != nil {
				log.Printf("Warning: failed to attach source %s to card %s: %v", src.URL, best.ID, err)
				rs.addSkipped(1)
				continue
			}
			rs.recordAttach(best.ID, src.URL, best.Similarity, related)
			rs.addLinked(1)
			continue
		}

		pool = append(pool, pooled{src: src, vec: vec})
	}

	if len(pool) == 0 {
		return
	}

	// Finalize card creation: merge mutually similar pool members so
	// corroborating coverage founds one card, not one card per article.
	poolSrcs := make([]model.ProcessedSource, len(pool))
	poolVecs := make([][]float32, len(pool))
	for i, p := range pool {
		poolSrcs[i] = p.src
		poolVecs[i] = p.vec
	}

	var clusters [][]int
	if opts.UseClustering {
		clusters = e.groupPool(ctx, poolSrcs, poolVecs, rs)
	} else {
		for i := range pool {
			clusters = append(clusters, []int{i})
		}
	}

	for _, cluster := range clusters {
		if len(cluster) == 0 {
			continue
		}
		if !rs.reserveCard() {
			// Run-wide budget exhausted; these sources wait for the
			// next run.
			rs.addSkipped(len(cluster))
			continue
		}

		seed := poolSrcs[cluster[0]]
		card, err := e.createCard(ctx, pillar, seed, poolVecs[cluster[0]], rs)
		if err != nil {
			log.Printf("Warning: failed to create card for source %s: %v", seed.URL, err)
			rs.addSkipped(len(cluster))
			continue
		}
		rs.recordCreate(card.ID, seed.URL)

		for _, idx := range cluster {
			src := poolSrcs[idx]
			if err := e.attach(ctx, card.ID, src, poolVecs[idx], false); err != nil {
				log.Printf("Warning: failed to attach source %s to new card %s: %v", src.URL, card.ID, err)
				rs.addSkipped(1)
				continue
			}
			rs.addLinked(1)
		}
	}
}

// resolveEmbedding returns the source's embedding, generating one from
// title+summary when the discovery pipeline did not supply it.
func (e *Engine) resolveEmbedding(ctx context.Context, src model.ProcessedSource, rs *runState) ([]float32, error) {
	if len(src.Embedding) > 0 {
		return src.Embedding, nil
	}
	if e.Embedder == nil {
		return nil, fmt.Errorf("no embedding available and no embedder configured")
	}
	text := src.Title
	if src.Analysis.Summary != "" {
		text += "\n\n" + src.Analysis.Summary
	}
	if text == "" {
		return nil, fmt.Errorf("no embedding available and no text to embed")
	}
	vec, err := e.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	rs.addCost(costPerEmbedding)
	return vec, nil
}

func (e *Engine) attach(ctx context.Context, cardID string, src model.ProcessedSource, vec []float32, related bool) error {
	row := &model.Source{
		ID:        uuid.New().String(),
		URL:       src.URL,
		Title:     src.Title,
		Content:   src.Content,
		Embedding: vec,
		IsRelated: related,
		CreatedAt: time.Now().UTC(),
	}
	return e.Store.AttachSource(ctx, cardID, row)
}

// createCard founds a new card seeded from the pool cluster's first member.
// The representative embedding comes from name+summary when the embedder
// cooperates, otherwise from the seed source itself.
func (e *Engine) createCard(ctx context.Context, pillar string, seed model.ProcessedSource, seedVec []float32, rs *runState) (*model.Card, error) {
	name := seed.Analysis.SuggestedCardName
	if name == "" {
		name = seed.Title
	}

	cardVec := seedVec
	if e.Embedder != nil {
		if vec, err := e.Embedder.Embed(ctx, name+"\n\n"+seed.Analysis.Summary); err == nil {
			cardVec = vec
			rs.addCost(costPerEmbedding)
		}
	}

	card := &model.Card{
		ID:         uuid.New().String(),
		Name:       name,
		Summary:    seed.Analysis.Summary,
		Pillar:     pillar,
		Confidence: seed.Triage.Confidence,
		Status:     model.StatusActive,
		Embedding:  cardVec,
		CreatedAt:  time.Now().UTC(),
	}

	if err := e.Store.SaveCard(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// groupPool partitions the unmatched pool into clusters of mutually similar
// sources. The LLM grouping pass runs first when configured; any failure
// there falls back to the deterministic similarity merge.
func (e *Engine) groupPool(ctx context.Context, pool []model.ProcessedSource, vecs [][]float32, rs *runState) [][]int {
	if e.UseLLMGrouping && e.LLM != nil {
		clusters, err := e.llmGroupPool(ctx, pool, rs)
		if err == nil {
			return clusters
		}
		log.Printf("Warning: LLM grouping failed, falling back to similarity merge: %v", err)
	}
	return mergeBySimilarity(vecs, e.RelatedThreshold)
}

// mergeBySimilarity builds a similarity graph over the pool (edges at or
// above threshold) and returns its connected components as index clusters,
// ordered by each component's first member so batch order decides seeds.
func mergeBySimilarity(vecs [][]float32, threshold float64) [][]int {
	n := len(vecs)
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if common.CosineSimilarity(vecs[i], vecs[j]) >= threshold {
				adj[i] = append(adj[i], j)
				adj[j] = append(adj[j], i)
			}
		}
	}

	visited := make([]bool, n)
	var clusters [][]int
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		var component []int
		stack := []int{i}
		visited[i] = true
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, u)
			for _, v := range adj[u] {
				if !visited[v] {
					visited[v] = true
					stack = append(stack, v)
				}
			}
		}
		clusters = append(clusters, component)
	}
	return clusters
}
