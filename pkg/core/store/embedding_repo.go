package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cocktail_agent/pkg/core/rag"
)

// allowedEmbeddingTables guards every query that interpolates a table name.
// Table names arrive from configuration, never from user input, but the
// allowlist keeps the SQL injection surface closed regardless.
var allowedEmbeddingTables = map[string]bool{
	"saq_product_embedding": true,
	"ingredient_embedding":  true,
	"cocktail_embedding":    true,
}

// EmbeddingRepo reads and writes the per-corpus embedding tables. Each table
// shares the same shape: id, content, embedding (pgvector), metadata (jsonb).
type EmbeddingRepo struct {
	pool *pgxpool.Pool
}

func NewEmbeddingRepo(pool *pgxpool.Pool) *EmbeddingRepo {
	return &EmbeddingRepo{pool: pool}
}

var _ rag.CandidateSource = (*EmbeddingRepo)(nil)

// FetchCandidates loads up to limit rows from one embedding table. Rows whose
// vector literal fails to parse are skipped rather than failing the batch.
func (r *EmbeddingRepo) FetchCandidates(ctx context.Context, table string, limit int) ([]rag.CandidateRow, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}
	if !allowedEmbeddingTables[table] {
		return nil, fmt.Errorf("unknown embedding table %q", table)
	}

	query := fmt.Sprintf(`
		SELECT id, content, embedding::text, metadata
		FROM %s
		ORDER BY id
		LIMIT $1
	`, table)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var candidates []rag.CandidateRow
	for rows.Next() {
		var (
			id           string
			content      string
			vectorText   string
			metadataJSON []byte
		)
		if err := rows.Scan(&id, &content, &vectorText, &metadataJSON); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}

		embedding, err := ParseVectorLiteral(vectorText)
		if err != nil {
			fmt.Printf("[store] skipping row %s in %s: %v\n", id, table, err)
			continue
		}

		var metadata map[string]interface{}
		if len(metadataJSON) > 0 {
			json.Unmarshal(metadataJSON, &metadata)
		}

		candidates = append(candidates, rag.CandidateRow{
			ID:        id,
			Content:   content,
			Embedding: embedding,
			Metadata:  metadata,
		})
	}
	return candidates, rows.Err()
}

// UpsertEmbedding writes one embedded document, keyed by id. Used by the
// offline indexer; the serving path only reads.
func (r *EmbeddingRepo) UpsertEmbedding(ctx context.Context, table string, id string, content string, embedding []float32, metadata map[string]interface{}) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	if !allowedEmbeddingTables[table] {
		return fmt.Errorf("unknown embedding table %q", table)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, content, embedding, metadata)
		VALUES ($1, $2, $3::vector, $4)
		ON CONFLICT (id)
		DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()
	`, table)

	_, err = r.pool.Exec(ctx, query, id, content, FormatVectorLiteral(embedding), metadataJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert embedding into %s: %w", table, err)
	}
	return nil
}
