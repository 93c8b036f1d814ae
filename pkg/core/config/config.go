// Package config loads runtime settings from the environment and the
// models.yaml provider manifest. Everything is resolved once at startup and
// passed down explicitly; no package reads os.Getenv after boot.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds every knob the process needs. Zero values are replaced by
// the documented defaults in Load.
type Settings struct {
	// Completion provider.
	Provider    string
	Model       string
	Temperature float64

	// Embedding provider.
	EmbeddingModel string

	// Retrieval.
	RAGEnabled            bool
	RAGTables             []string
	TopK                  int
	MaxCandidatesPerTable int

	// Persona used as the system instruction on every turn.
	Persona string

	// Storage and transport.
	DatabaseURL string
	JWTSecret   string
	Addr        string

	// Static few-shot resources.
	ResourcesDir string

	Debug bool
}

const (
	defaultModel          = "gemini-2.0-flash"
	defaultEmbeddingModel = "text-embedding-004"
	defaultPersona        = "You are Arthur, a warm and knowledgeable bartender. You speak casually, keep replies short, and always steer the conversation toward drinks you can actually make."
	defaultAddr           = ":8080"
	defaultResourcesDir   = "resources/examples"
	defaultTopK           = 5
	defaultTemperature    = 0.7
)

var defaultRAGTables = []string{"saq_product_embedding", "ingredient_embedding", "cocktail_embedding"}

// Load reads .env (if present) and the process environment into Settings.
// A missing .env file is not an error; explicit environment always wins.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("[config] no .env file loaded: %v\n", err)
	}

	s := &Settings{
		Provider:       getEnv("LLM_PROVIDER", "gemini"),
		Model:          getEnv("LLM_MODEL", defaultModel),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", defaultEmbeddingModel),
		Persona:        getEnv("AGENT_PERSONA", defaultPersona),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("SUPABASE_JWT_SECRET"),
		Addr:           getEnv("LISTEN_ADDR", defaultAddr),
		ResourcesDir:   getEnv("RESOURCES_DIR", defaultResourcesDir),
		RAGEnabled:     getEnvBool("RAG_ENABLED", true),
		Debug:          getEnvBool("DEBUG", false),
	}

	var err error
	if s.Temperature, err = getEnvFloat("LLM_TEMPERATURE", defaultTemperature); err != nil {
		return nil, err
	}
	if s.TopK, err = getEnvInt("RAG_TOP_K", defaultTopK); err != nil {
		return nil, err
	}
	if s.MaxCandidatesPerTable, err = getEnvInt("RAG_MAX_CANDIDATES", 0); err != nil {
		return nil, err
	}

	if raw := os.Getenv("RAG_TABLES"); raw != "" {
		s.RAGTables = splitTables(raw)
	} else {
		s.RAGTables = append([]string(nil), defaultRAGTables...)
	}

	return s, nil
}

func splitTables(raw string) []string {
	parts := strings.Split(raw, ",")
	tables := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			tables = append(tables, trimmed)
		}
	}
	return tables
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float for %s: %w", key, err)
	}
	return parsed, nil
}
