package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"cocktail_agent/pkg/api/auth"
	"cocktail_agent/pkg/api/chat"
	cocktailapi "cocktail_agent/pkg/api/cocktail"
	"cocktail_agent/pkg/core/agent"
	"cocktail_agent/pkg/core/config"
	"cocktail_agent/pkg/core/llm"
	"cocktail_agent/pkg/core/prompt"
	"cocktail_agent/pkg/core/rag"
	"cocktail_agent/pkg/core/store"
)

func main() {
	ctx := context.Background()

	settings, err := config.Load()
	if err != nil {
		fmt.Printf("[FATAL] Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	manifest, err := config.LoadModelManifest("config/models.yaml")
	if err != nil {
		fmt.Printf("[FATAL] Failed to load model manifest: %v\n", err)
		os.Exit(1)
	}
	manifest.Apply(settings)
	fmt.Printf("[CONFIG] provider=%s model=%s embedding=%s rag=%v\n",
		settings.Provider, settings.Model, settings.EmbeddingModel, settings.RAGEnabled)

	// Completion provider.
	provider, err := llm.NewProvider(ctx, settings.Provider, settings.Model)
	if err != nil {
		fmt.Printf("[FATAL] Failed to initialize completion provider: %v\n", err)
		os.Exit(1)
	}
	invoker := agent.NewInvoker(provider, settings.Model, settings.Temperature)
	invoker.Debug = settings.Debug

	// Retrieval stack. Missing credentials degrade to no retrieval rather
	// than refusing to start.
	var retriever rag.Retriever = rag.NoOpRetriever{}
	var cocktailRepo *store.CocktailRepo
	if settings.DatabaseURL != "" {
		pool, err := store.Connect(ctx, settings.DatabaseURL)
		if err != nil {
			fmt.Printf("[FATAL] Failed to connect to database: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		cocktailRepo = store.NewCocktailRepo(pool)

		embedder, err := llm.NewGeminiEmbedder(ctx, settings.EmbeddingModel)
		if err != nil {
			fmt.Printf("[WARNING] Embedding provider unavailable, retrieval disabled: %v\n", err)
		} else {
			defer embedder.Close()
			search := rag.NewVectorSearch(embedder, store.NewEmbeddingRepo(pool), settings.RAGTables)
			if settings.MaxCandidatesPerTable > 0 {
				search.MaxCandidatesPerTable = settings.MaxCandidatesPerTable
			}
			retriever = search
			fmt.Printf("[RAG] Vector search over tables %v\n", settings.RAGTables)
		}
	} else {
		fmt.Println("[WARNING] DATABASE_URL not set, running without retrieval or persistence")
	}

	examples := prompt.NewExampleLoader(settings.ResourcesDir)
	engine := agent.New(nil, retriever, examples, invoker, settings.Persona)

	verifier, err := auth.NewVerifier(settings.JWTSecret)
	if err != nil {
		fmt.Printf("[FATAL] Failed to initialize auth: %v\n", err)
		os.Exit(1)
	}

	var creator chat.CocktailCreator
	var cocktailStore cocktailapi.Store
	if cocktailRepo != nil {
		creator = cocktailRepo
		cocktailStore = cocktailRepo
	}

	chatHandler := chat.NewHandler(engine, verifier, creator, settings.TopK, settings.RAGEnabled)
	http.HandleFunc("/chat/ws", chatHandler.HandleWS)

	if cocktailStore != nil {
		cocktailHandler := cocktailapi.NewHandler(cocktailStore, verifier)
		http.HandleFunc("/cocktails", cocktailHandler.HandleCocktails)
		http.HandleFunc("/cocktails/", cocktailHandler.HandleCocktail)
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"status": "healthy", "service": "cocktail_agent"}`)
	})

	fmt.Printf("API server starting on %s...\n", settings.Addr)
	fmt.Println("  - WS   /chat/ws?token=<access_token>")
	fmt.Println("  - GET  /cocktails")
	fmt.Println("  - POST /cocktails")
	fmt.Println("  - GET  /cocktails/{id}")
	fmt.Println("  - DEL  /cocktails/{id}")
	fmt.Println("  - GET  /health")

	if err := http.ListenAndServe(settings.Addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
