package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cocktail_agent/pkg/core/prompt"
	"cocktail_agent/pkg/core/rag"
)

type scriptedRetriever struct {
	results []rag.RetrievalResult
	err     error

	lastQuery  string
	lastUserID string
	lastTopK   int
	calls      int
}

func (r *scriptedRetriever) Retrieve(ctx context.Context, query string, userID string, topK int) ([]rag.RetrievalResult, error) {
	r.calls++
	r.lastQuery = query
	r.lastUserID = userID
	r.lastTopK = topK
	return r.results, r.err
}

func writeExampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"create_drink_example.txt":       "User: make me a paloma\nAssistant: {\"action_type\": \"create_drink\"}",
		"suggest_drink_example.txt":      "User: surprise me\nAssistant: {\"action_type\": \"suggest_drink\"}",
		"search_drink_example.txt":       "User: find a negroni\nAssistant: {\"action_type\": \"search_drink\"}",
		"classic_completion_example.txt": "User: hi\nAssistant: {\"action_type\": null}",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestEngine(t *testing.T, provider *scriptedProvider, retriever rag.Retriever) *Engine {
	t.Helper()
	loader := prompt.NewExampleLoader(writeExampleDir(t))
	invoker := NewInvoker(provider, "test-model", 0.4)
	return New(nil, retriever, loader, invoker, "Arthur the bartender")
}

func TestEngineRunDrinkRequest(t *testing.T) {
	provider := &scriptedProvider{reply: validActionJSON()}
	retriever := &scriptedRetriever{results: []rag.RetrievalResult{
		{Content: "Tequila Blanco, 40% ABV, agave-forward."},
		{Content: "Paloma: tequila, grapefruit soda, lime."},
	}}
	engine := newTestEngine(t, provider, retriever)

	result, err := engine.Run(context.Background(), "Make me something with tequila", "user-1", 3, true)
	if err != nil {
		t.Fatalf("expected completion, got error: %v", err)
	}

	if result.TemplateName != prompt.ActionGeneration {
		t.Errorf("expected template %s, got %s", prompt.ActionGeneration, result.TemplateName)
	}
	if result.Completion == nil || result.Completion.ActionType == nil || *result.Completion.ActionType != ActionCreateDrink {
		t.Errorf("unexpected completion %+v", result.Completion)
	}
	if len(result.RetrievedChunks) != 2 {
		t.Errorf("expected 2 retrieved chunks, got %d", len(result.RetrievedChunks))
	}

	if retriever.lastQuery != "Make me something with tequila" {
		t.Errorf("retriever saw query %q", retriever.lastQuery)
	}
	if retriever.lastUserID != "user-1" || retriever.lastTopK != 3 {
		t.Errorf("retriever saw userID=%q topK=%d", retriever.lastUserID, retriever.lastTopK)
	}

	p := result.Prompt
	for _, marker := range []string{
		"[TASK DESCRIPTION]",
		"[FEW-SHOT EXAMPLES]",
		"[END EXAMPLES]",
		"[CONTEXT FETCHED FROM ONLINE RAG DATABASE]",
		"[END CONTEXT FETCHED FROM ONLINE RAG DATABASE]",
		"[CONVERSATION]\nMake me something with tequila",
	} {
		if !strings.Contains(p, marker) {
			t.Errorf("rendered prompt missing %q", marker)
		}
	}

	// Examples before context, context before conversation, conversation last.
	idxExamples := strings.Index(p, "[FEW-SHOT EXAMPLES]")
	idxContext := strings.Index(p, "[CONTEXT FETCHED FROM ONLINE RAG DATABASE]")
	idxConversation := strings.Index(p, "[CONVERSATION]")
	if !(idxExamples < idxContext && idxContext < idxConversation) {
		t.Errorf("block order wrong: examples=%d context=%d conversation=%d", idxExamples, idxContext, idxConversation)
	}
	if idx := strings.LastIndex(p, "[CONVERSATION]"); p[idx:] != "[CONVERSATION]\nMake me something with tequila" {
		t.Errorf("conversation block is not the final segment: %q", p[idx:])
	}

	if provider.lastSystem != "Arthur the bartender" {
		t.Errorf("expected persona as system prompt, got %q", provider.lastSystem)
	}
}

func TestEngineRunRetrievalDisabled(t *testing.T) {
	provider := &scriptedProvider{reply: validActionJSON()}
	retriever := &scriptedRetriever{results: []rag.RetrievalResult{{Content: "should not appear"}}}
	engine := newTestEngine(t, provider, retriever)

	result, err := engine.Run(context.Background(), "Make me a daiquiri", "user-1", 3, false)
	if err != nil {
		t.Fatalf("expected completion, got error: %v", err)
	}
	if retriever.calls != 0 {
		t.Errorf("expected no retrieval calls, got %d", retriever.calls)
	}
	if strings.Contains(result.Prompt, "[CONTEXT FETCHED FROM ONLINE RAG DATABASE]") {
		t.Error("context block must be absent when retrieval is disabled")
	}
	if len(result.RetrievedChunks) != 0 {
		t.Errorf("expected no retrieved chunks, got %d", len(result.RetrievedChunks))
	}
}

func TestEngineRunRetrievalDegrades(t *testing.T) {
	provider := &scriptedProvider{reply: validActionJSON()}
	retriever := &scriptedRetriever{err: errors.New("embedding service down")}
	engine := newTestEngine(t, provider, retriever)

	result, err := engine.Run(context.Background(), "Make me a mojito", "user-1", 3, true)
	if err != nil {
		t.Fatalf("retrieval failure must not abort generation, got error: %v", err)
	}
	if strings.Contains(result.Prompt, "[CONTEXT FETCHED FROM ONLINE RAG DATABASE]") {
		t.Error("context block must be absent when retrieval fails")
	}
	if result.Completion == nil {
		t.Error("expected completion despite retrieval failure")
	}
}

func TestEngineRunEmptyRetrievalOmitsBlock(t *testing.T) {
	provider := &scriptedProvider{reply: validActionJSON()}
	retriever := &scriptedRetriever{}
	engine := newTestEngine(t, provider, retriever)

	result, err := engine.Run(context.Background(), "Make me a spritz", "user-1", 3, true)
	if err != nil {
		t.Fatalf("expected completion, got error: %v", err)
	}
	if strings.Contains(result.Prompt, "[CONTEXT FETCHED FROM ONLINE RAG DATABASE]") {
		t.Error("context block must be absent when nothing was retrieved")
	}
}

func TestEngineRunRetrievalForNonRetrievalTemplate(t *testing.T) {
	provider := &scriptedProvider{reply: `{
		"action_type": null,
		"confidence": 0.6,
		"reasoning": "Casual greeting.",
		"conversation": "Evening! What are you in the mood for?"
	}`}
	retriever := &scriptedRetriever{results: []rag.RetrievalResult{{Content: "House special: smoked old fashioned."}}}
	engine := newTestEngine(t, provider, retriever)

	result, err := engine.Run(context.Background(), "good evening", "user-1", 2, true)
	if err != nil {
		t.Fatalf("expected completion, got error: %v", err)
	}
	if result.TemplateName != prompt.ClassicCompletion {
		t.Errorf("expected template %s, got %s", prompt.ClassicCompletion, result.TemplateName)
	}
	// Retrieval is keyed on the enabled flag, not on the selected template.
	if retriever.calls != 1 {
		t.Errorf("expected retrieval even for classic_completion, got %d calls", retriever.calls)
	}
	if !strings.Contains(result.Prompt, "House special: smoked old fashioned.") {
		t.Error("expected retrieved chunk in rendered prompt")
	}
	if result.Completion.ActionType != nil {
		t.Errorf("expected nil action_type, got %v", *result.Completion.ActionType)
	}
}

func TestEngineRunUserInputNotEmbeddedInPrototype(t *testing.T) {
	provider := &scriptedProvider{reply: validActionJSON()}
	engine := newTestEngine(t, provider, &scriptedRetriever{})

	input := "Make me a one-of-a-kind mezcal drink"
	result, err := engine.Run(context.Background(), input, "user-1", 0, false)
	if err != nil {
		t.Fatalf("expected completion, got error: %v", err)
	}
	if strings.Count(result.Prompt, input) != 1 {
		t.Errorf("user input must appear exactly once, found %d occurrences", strings.Count(result.Prompt, input))
	}
}

func TestEngineRunProviderError(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("rate limited")}
	engine := newTestEngine(t, provider, &scriptedRetriever{})

	_, err := engine.Run(context.Background(), "Make me a martini", "user-1", 0, false)
	var unavailable *ProviderUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ProviderUnavailableError, got %v", err)
	}
}

func TestEngineRunFewShotOrderPreserved(t *testing.T) {
	provider := &scriptedProvider{reply: validActionJSON()}
	engine := newTestEngine(t, provider, &scriptedRetriever{})

	result, err := engine.Run(context.Background(), "Make me a sazerac", "user-1", 0, false)
	if err != nil {
		t.Fatalf("expected completion, got error: %v", err)
	}
	idxCreate := strings.Index(result.Prompt, "make me a paloma")
	idxSuggest := strings.Index(result.Prompt, "surprise me")
	idxSearch := strings.Index(result.Prompt, "find a negroni")
	if idxCreate == -1 || idxSuggest == -1 || idxSearch == -1 {
		t.Fatal("expected all three action examples in prompt")
	}
	if !(idxCreate < idxSuggest && idxSuggest < idxSearch) {
		t.Errorf("example order wrong: create=%d suggest=%d search=%d", idxCreate, idxSuggest, idxSearch)
	}
}
