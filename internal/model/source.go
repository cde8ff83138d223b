package model

import "time"

// Source is one discovered item of content (article, grant listing, document).
// A Source with DuplicateOf set is a one-hop back-reference to the source it
// was judged a duplicate or near-duplicate of; such sources are never used as
// dedup targets themselves.
type Source struct {
	ID          string    `json:"id"`
	CardID      string    `json:"card_id,omitempty"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Embedding   []float32 `json:"embedding,omitempty"`
	DuplicateOf string    `json:"duplicate_of,omitempty"`
	IsRelated   bool      `json:"is_related,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
