package model

// Dedup actions. The caller persists the incoming source for every action
// except ActionSkip; ActionStoreRelated additionally sets the DuplicateOf
// back-reference on the stored row.
const (
	ActionSkip         = "skip"
	ActionStoreRelated = "store_as_related"
	ActionStore        = "store"
)

// DedupResult is the outcome of one duplicate check. Pure computation
// result: no identity, no lifecycle beyond the call that produced it.
type DedupResult struct {
	IsDuplicate bool    `json:"is_duplicate"`
	IsRelated   bool    `json:"is_related"`
	DuplicateOf string  `json:"duplicate_of,omitempty"`
	Similarity  float64 `json:"similarity"`
	Action      string  `json:"action"`
}

// NoMatch is the result used when no duplicate or related source is found,
// and the fallback whenever the check degrades. Dedup never prevents a
// source from being stored.
func NoMatch() DedupResult {
	return DedupResult{Action: ActionStore}
}

// SimilarityMatch is one hit from a vector similarity search, ordered by
// similarity descending by the store.
type SimilarityMatch struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}
