package llm

import (
	"context"
	"fmt"
	"os"

	gai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder implements Embedder using Gemini's embedding models.
// The task type distinction matters: knowledge-table rows are embedded with
// RETRIEVAL_DOCUMENT at ingest time while queries use RETRIEVAL_QUERY.
type GeminiEmbedder struct {
	Model  string // e.g. "text-embedding-004"
	client *gai.Client
}

var _ Embedder = (*GeminiEmbedder)(nil)

func NewGeminiEmbedder(ctx context.Context, model string) (*GeminiEmbedder, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := gai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini embedding client: %w", err)
	}

	return &GeminiEmbedder{Model: model, client: client}, nil
}

// Embed returns the embedding vector for text under the given task type.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string, taskType EmbeddingTaskType) ([]float32, error) {
	model := e.Model
	if model == "" {
		model = "text-embedding-004"
	}

	em := e.client.EmbeddingModel(model)
	switch taskType {
	case TaskRetrievalQuery:
		em.TaskType = gai.TaskTypeRetrievalQuery
	case TaskRetrievalDocument:
		em.TaskType = gai.TaskTypeRetrievalDocument
	default:
		em.TaskType = gai.TaskTypeUnspecified
	}

	res, err := em.EmbedContent(ctx, gai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("embedding response contained no vector")
	}

	return res.Embedding.Values, nil
}

// Close releases the underlying client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
