package llm

import (
	"context"
)

// embedMaxChars bounds the text sent to embedding providers. Longer content
// adds cost without improving the similarity signal for dedup purposes.
const embedMaxChars = 8000

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// truncate trims text to embedMaxChars before it is sent to a provider.
func truncate(text string) string {
	if len(text) > embedMaxChars {
		return text[:embedMaxChars]
	}
	return text
}
