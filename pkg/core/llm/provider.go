// Package llm wraps the hosted completion and embedding providers behind
// small interfaces so the engine core stays provider-agnostic.
package llm

import (
	"context"
	"fmt"
)

// Provider is the interface for all completion providers.
//
// Recognized options:
//
//	"model"              string  - override the provider's default model
//	"temperature"        float64 - sampling temperature
//	"response_mime_type" string  - "application/json" requests JSON-only output
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// EmbeddingTaskType selects the asymmetric embedding mode. Queries and corpus
// documents must be embedded with matching task types or similarity scores
// are meaningless.
type EmbeddingTaskType string

const (
	TaskRetrievalQuery    EmbeddingTaskType = "RETRIEVAL_QUERY"
	TaskRetrievalDocument EmbeddingTaskType = "RETRIEVAL_DOCUMENT"
)

// Embedder is the interface for embedding providers.
type Embedder interface {
	Embed(ctx context.Context, text string, taskType EmbeddingTaskType) ([]float32, error)
}

// NewProvider builds a completion provider by name (see config/models.yaml).
func NewProvider(ctx context.Context, name string, model string) (Provider, error) {
	switch name {
	case "gemini", "":
		return NewGeminiProvider(ctx, model)
	case "deepseek":
		return NewDeepSeekProvider(model), nil
	default:
		return nil, fmt.Errorf("unknown completion provider %q", name)
	}
}
