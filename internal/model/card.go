package model

import "time"

// Card (signal) is a cluster of sources representing one coherent topic or
// trend. The embedding is a representative vector computed from name+summary
// when the card is created.
type Card struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Summary     string    `json:"summary"`
	Pillar      string    `json:"pillar"`
	Confidence  float64   `json:"confidence"`
	Status      string    `json:"status"`
	SourceCount int       `json:"source_count"`
	Embedding   []float32 `json:"embedding,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Card statuses. New cards start as StatusActive; the surrounding application
// moves them through review states this core does not touch.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)
