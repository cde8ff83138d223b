package model

// RunResult summarizes one signal clustering run for observability: which
// cards were created or enriched, how many sources were linked or skipped,
// and a rough cost estimate for the provider calls made.
type RunResult struct {
	CardsCreated   []string `json:"cards_created"`
	CardsEnriched  []string `json:"cards_enriched"`
	SourcesLinked  int      `json:"sources_linked"`
	SourcesSkipped int      `json:"sources_skipped"`
	CostEstimate   float64  `json:"cost_estimate"`
}

// AuditEntry records one card creation or attachment during a run.
type AuditEntry struct {
	Action     string  `json:"action"` // "create" or "attach"
	CardID     string  `json:"card_id"`
	SourceURL  string  `json:"source_url"`
	Similarity float64 `json:"similarity,omitempty"`
	Related    bool    `json:"related,omitempty"`
}
