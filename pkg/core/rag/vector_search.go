package rag

import (
	"context"
	"log"
	"sort"

	"gonum.org/v1/gonum/floats"

	"cocktail_agent/pkg/core/llm"
)

// VectorSearch retrieves the globally top-K most similar chunks across one
// or more knowledge tables.
//
// Flow:
//  1. Embed the incoming query with the RETRIEVAL_QUERY task type.
//  2. Fetch candidate rows from each configured table.
//  3. Compute cosine similarity between the query and each row's embedding.
//  4. Return the globally top-K results across all tables.
//
// Every failure path degrades to an empty result set with a log line.
type VectorSearch struct {
	embedder llm.Embedder
	source   CandidateSource
	tables   []string

	// MaxCandidatesPerTable caps raw rows pulled per table before local
	// re-ranking. Zero means max(topK*10, topK).
	MaxCandidatesPerTable int
}

var _ Retriever = (*VectorSearch)(nil)

func NewVectorSearch(embedder llm.Embedder, source CandidateSource, tables []string) *VectorSearch {
	return &VectorSearch{
		embedder: embedder,
		source:   source,
		tables:   tables,
	}
}

// Retrieve returns up to topK results sorted by descending similarity.
// The error return is always nil; retrieval failure never propagates.
func (s *VectorSearch) Retrieve(ctx context.Context, query string, userID string, topK int) ([]RetrievalResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query, llm.TaskRetrievalQuery)
	if err != nil {
		log.Printf("[RAG] query embedding failed, returning no results: %v", err)
		return nil, nil
	}
	if len(queryEmbedding) == 0 {
		log.Printf("[RAG] query embedding is empty, returning no results")
		return nil, nil
	}

	queryVec := toFloat64(queryEmbedding)
	// A zero-norm query cannot be normalized; left as-is every similarity is
	// zero rather than NaN.
	if norm := floats.Norm(queryVec, 2); norm > 0 {
		floats.Scale(1/norm, queryVec)
	}

	maxCandidates := s.MaxCandidatesPerTable
	if maxCandidates <= 0 {
		maxCandidates = topK * 10
		if maxCandidates < topK {
			maxCandidates = topK
		}
	}

	var allResults []RetrievalResult
	for _, table := range s.tables {
		rows, err := s.source.FetchCandidates(ctx, table, maxCandidates)
		if err != nil {
			log.Printf("[RAG] fetch from table %s failed: %v", table, err)
			continue
		}
		if len(rows) == 0 {
			log.Printf("[RAG] no rows returned from table %s", table)
			continue
		}

		for _, row := range rows {
			if len(row.Embedding) != len(queryEmbedding) || len(row.Embedding) == 0 {
				continue
			}

			docVec := toFloat64(row.Embedding)
			docNorm := floats.Norm(docVec, 2)
			if docNorm == 0 {
				continue
			}
			floats.Scale(1/docNorm, docVec)

			score := floats.Dot(queryVec, docVec)
			allResults = append(allResults, RetrievalResult{
				Content:  row.Content,
				Metadata: row.Metadata,
				Score:    &score,
			})
		}
	}

	if len(allResults) == 0 {
		log.Printf("[RAG] search returned no candidates across %d table(s)", len(s.tables))
		return nil, nil
	}

	// Global top-K across tables: a single highly relevant table may supply
	// the entire result set.
	sort.SliceStable(allResults, func(i, j int) bool {
		return scoreOf(allResults[i]) > scoreOf(allResults[j])
	})
	if len(allResults) > topK {
		allResults = allResults[:topK]
	}

	return allResults, nil
}

func scoreOf(r RetrievalResult) float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
