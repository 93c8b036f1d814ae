// Command indexer rebuilds the retrieval corpus: it embeds cocktails,
// ingredients and SAQ catalog matches with the document task type and writes
// them into the per-corpus embedding tables.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cocktail_agent/pkg/core/config"
	"cocktail_agent/pkg/core/llm"
	"cocktail_agent/pkg/core/store"
)

func main() {
	ctx := context.Background()

	settings, err := config.Load()
	if err != nil {
		fmt.Printf("[FATAL] Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if settings.DatabaseURL == "" {
		fmt.Println("[FATAL] DATABASE_URL not set")
		os.Exit(1)
	}

	pool, err := store.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		fmt.Printf("[FATAL] Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	embedder, err := llm.NewGeminiEmbedder(ctx, settings.EmbeddingModel)
	if err != nil {
		fmt.Printf("[FATAL] Failed to initialize embedder: %v\n", err)
		os.Exit(1)
	}
	defer embedder.Close()

	embeddings := store.NewEmbeddingRepo(pool)
	cocktails := store.NewCocktailRepo(pool)
	saqRepo := store.NewSAQRepo(pool)

	total := 0
	total += indexCocktails(ctx, embedder, embeddings, cocktails)
	total += indexIngredients(ctx, embedder, embeddings, saqRepo)
	total += indexSAQProducts(ctx, embedder, embeddings, saqRepo)

	fmt.Printf("[INDEXER] Done, %d documents indexed\n", total)
}

func indexCocktails(ctx context.Context, embedder *llm.GeminiEmbedder, embeddings *store.EmbeddingRepo, cocktails *store.CocktailRepo) int {
	all, err := cocktails.ListAll(ctx)
	if err != nil {
		fmt.Printf("[INDEXER] Failed to list cocktails: %v\n", err)
		return 0
	}
	fmt.Printf("[INDEXER] Indexing %d cocktails\n", len(all))

	indexed := 0
	for _, c := range all {
		content := describeCocktail(c)
		metadata := map[string]interface{}{
			"cocktail_id": c.ID,
			"name":        c.Recipe.Name,
		}
		if indexDocument(ctx, embedder, embeddings, "cocktail_embedding", "cocktail:"+c.ID, content, metadata) {
			indexed++
		}
	}
	return indexed
}

func indexIngredients(ctx context.Context, embedder *llm.GeminiEmbedder, embeddings *store.EmbeddingRepo, saqRepo *store.SAQRepo) int {
	names, err := saqRepo.ListIngredients(ctx)
	if err != nil {
		fmt.Printf("[INDEXER] Failed to list ingredients: %v\n", err)
		return 0
	}
	fmt.Printf("[INDEXER] Indexing %d ingredients\n", len(names))

	indexed := 0
	for _, name := range names {
		metadata := map[string]interface{}{"name": name}
		if indexDocument(ctx, embedder, embeddings, "ingredient_embedding", "ingredient:"+name, name, metadata) {
			indexed++
		}
	}
	return indexed
}

func indexSAQProducts(ctx context.Context, embedder *llm.GeminiEmbedder, embeddings *store.EmbeddingRepo, saqRepo *store.SAQRepo) int {
	lookups, err := saqRepo.ListLookups(ctx)
	if err != nil {
		fmt.Printf("[INDEXER] Failed to list SAQ lookups: %v\n", err)
		return 0
	}
	fmt.Printf("[INDEXER] Indexing %d SAQ products\n", len(lookups))

	indexed := 0
	for _, lookup := range lookups {
		metadata := map[string]interface{}{
			"phrase": lookup.Phrase,
			"url":    lookup.URL,
		}
		if indexDocument(ctx, embedder, embeddings, "saq_product_embedding", "saq:"+lookup.Phrase, lookup.Describe(), metadata) {
			indexed++
		}
	}
	return indexed
}

func indexDocument(ctx context.Context, embedder *llm.GeminiEmbedder, embeddings *store.EmbeddingRepo, table string, id string, content string, metadata map[string]interface{}) bool {
	embedding, err := embedder.Embed(ctx, content, llm.TaskRetrievalDocument)
	if err != nil {
		fmt.Printf("[INDEXER] Failed to embed %s: %v\n", id, err)
		return false
	}
	if err := embeddings.UpsertEmbedding(ctx, table, id, content, embedding, metadata); err != nil {
		fmt.Printf("[INDEXER] Failed to store %s: %v\n", id, err)
		return false
	}
	return true
}

func describeCocktail(c *store.Cocktail) string {
	var parts []string
	parts = append(parts, c.Recipe.Name)
	if c.Recipe.Description != "" {
		parts = append(parts, c.Recipe.Description)
	}

	if len(c.Recipe.Ingredients) > 0 {
		names := make([]string, len(c.Recipe.Ingredients))
		for i, ing := range c.Recipe.Ingredients {
			names[i] = fmt.Sprintf("%g %s %s", ing.Amount, ing.Unit, ing.Name)
		}
		parts = append(parts, "Ingredients: "+strings.Join(names, ", "))
	}
	if len(c.Recipe.Instructions) > 0 {
		parts = append(parts, "Instructions: "+strings.Join(c.Recipe.Instructions, " "))
	}
	parts = append(parts, "Served in a "+c.Recipe.GlassType)
	return strings.Join(parts, ". ")
}
