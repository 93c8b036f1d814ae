// Package rag implements retrieval-augmented generation over vector-embedded
// knowledge tables. Similarity is computed in-process rather than delegated
// to the storage layer's vector-distance operator so the scoring stays
// portable across storage backends.
package rag

import "context"

// RetrievalResult is one retrieved chunk. Score is cosine similarity in
// [-1, 1], or nil when unknown. Results live only for the duration of a
// single engine run.
type RetrievalResult struct {
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Score    *float64               `json:"score,omitempty"`
}

// Retriever is the retrieval strategy contract. Implementations must degrade
// to an empty result set on failure; retrieval must never abort the
// enclosing generation request.
type Retriever interface {
	Retrieve(ctx context.Context, query string, userID string, topK int) ([]RetrievalResult, error)
}

// CandidateRow is a raw knowledge-table row as handed over by the store.
// Embedding is the pre-computed document vector; rows with empty embeddings
// are skipped during scoring.
type CandidateRow struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  map[string]interface{}
}

// CandidateSource fetches raw candidate rows from a named knowledge table.
// No similarity filtering is delegated to the source; it returns rows up to
// the limit as stored.
type CandidateSource interface {
	FetchCandidates(ctx context.Context, table string, limit int) ([]CandidateRow, error)
}

// NoOpRetriever returns no results. Used when RAG is disabled or in tests.
type NoOpRetriever struct{}

var _ Retriever = (*NoOpRetriever)(nil)

func (NoOpRetriever) Retrieve(ctx context.Context, query string, userID string, topK int) ([]RetrievalResult, error) {
	return nil, nil
}
