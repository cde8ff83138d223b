package model

// TriageResult is the upstream relevance verdict for a fetched item.
type TriageResult struct {
	Relevant   bool    `json:"relevant"`
	Pillar     string  `json:"pillar"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is the upstream structured analysis of a fetched item.
type AnalysisResult struct {
	Summary           string   `json:"summary"`
	SuggestedCardName string   `json:"suggested_card_name"`
	Entities          []string `json:"entities,omitempty"`
	Score             float64  `json:"score"`
}

// ProcessedSource is the unit the clustering engine operates on: a raw
// fetched item plus its triage verdict, analysis, and embedding. It exists
// only for the duration of one discovery run; its fields are distributed
// into Source and Card rows on commit.
type ProcessedSource struct {
	URL       string         `json:"url"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Triage    TriageResult   `json:"triage"`
	Analysis  AnalysisResult `json:"analysis"`
	Embedding []float32      `json:"embedding,omitempty"`
}
