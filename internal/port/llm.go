package port

import (
	"context"

	"bookrag/internal/domain"
)

// GenerationParams bound a completion call. They apply uniformly
// regardless of which provider serves the request.
type GenerationParams struct {
	Temperature     float64
	MaxOutputTokens int
}

// LLM represents a language model for text generation.
type LLM interface {
	// Complete generates text for the assembled prompt.
	Complete(ctx context.Context, prompt domain.Prompt, params GenerationParams) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
