package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func writeExample(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExampleLoaderLoadsOrdered(t *testing.T) {
	dir := t.TempDir()
	writeExample(t, dir, "create_drink_example.txt", "## Example\nUSER: Make me a Margarita")
	writeExample(t, dir, "suggest_drink_example.txt", "## Example\nUSER: Something tropical")
	writeExample(t, dir, "search_drink_example.txt", "## Example\nUSER: What uses tequila?")

	loader := NewExampleLoader(dir)
	examples := loader.Load(ActionGeneration)

	if len(examples) != 3 {
		t.Fatalf("expected 3 examples, got %d", len(examples))
	}
	if examples[0] != "## Example\nUSER: Make me a Margarita" {
		t.Errorf("examples out of order, first was: %q", examples[0])
	}
}

func TestExampleLoaderSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	writeExample(t, dir, "create_drink_example.txt", "## Example\nUSER: Make me a Mojito")
	// suggest/search files intentionally absent

	loader := NewExampleLoader(dir)
	examples := loader.Load(ActionGeneration)

	if len(examples) != 1 {
		t.Fatalf("expected 1 example with missing files skipped, got %d", len(examples))
	}
}

func TestExampleLoaderNeverFails(t *testing.T) {
	loader := NewExampleLoader("/nonexistent/path")
	examples := loader.Load(ActionGeneration)

	if len(examples) != 0 {
		t.Errorf("expected no examples from missing directory, got %d", len(examples))
	}
}

func TestExampleLoaderCaches(t *testing.T) {
	dir := t.TempDir()
	writeExample(t, dir, "chat_style_example.txt", "## Example\nUSER: hello")

	loader := NewExampleLoader(dir)
	first := loader.Load(ChatStyle)
	if len(first) != 1 {
		t.Fatalf("expected 1 example, got %d", len(first))
	}

	// Remove the file; the cached result must survive.
	os.Remove(filepath.Join(dir, "chat_style_example.txt"))
	second := loader.Load(ChatStyle)
	if len(second) != 1 {
		t.Errorf("expected cached example after source removal, got %d", len(second))
	}
}

func TestExampleLoaderUnknownTemplate(t *testing.T) {
	loader := NewExampleLoader(t.TempDir())
	if got := loader.Load(Summarization); len(got) != 0 {
		t.Errorf("expected no examples for template without resources, got %d", len(got))
	}
}
