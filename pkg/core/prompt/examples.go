package prompt

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"cocktail_agent/pkg/core/utils"
)

// exampleFiles maps each template to its ordered list of example resources.
// Each file holds one worked input -> structured-output transcript.
var exampleFiles = map[TemplateName][]string{
	ActionGeneration:   {"create_drink_example.txt", "suggest_drink_example.txt", "search_drink_example.txt"},
	RetrievalAugmented: {"retrieval_augmented_example.txt"},
	QuestionAnswering:  {"question_answering_example.txt"},
	ChatStyle:          {"chat_style_example.txt"},
	ClassicCompletion:  {"classic_completion_example.txt"},
}

// ExampleLoader loads static few-shot example transcripts from a resources
// directory. Results are memoized per template for the process lifetime;
// source files are immutable at runtime, so a race to populate is harmless.
type ExampleLoader struct {
	dir string

	mu    sync.Mutex
	cache map[TemplateName][]string
}

// NewExampleLoader creates a loader rooted at dir (e.g. "resources/examples").
func NewExampleLoader(dir string) *ExampleLoader {
	return &ExampleLoader{
		dir:   dir,
		cache: make(map[TemplateName][]string),
	}
}

// Load returns the ordered example transcripts for a template. Missing or
// unreadable resources are logged and skipped; Load never fails the request.
func (l *ExampleLoader) Load(name TemplateName) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache[name]; ok {
		return cached
	}

	files := exampleFiles[name]
	examples := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(l.dir, file)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[prompt.Examples] skipping example %s: %v", path, err)
			continue
		}
		content := string(data)
		if !utils.ValidateMarkdown(content) {
			log.Printf("[prompt.Examples] skipping empty or unparseable example %s", path)
			continue
		}
		examples = append(examples, content)
	}

	l.cache[name] = examples
	return examples
}
