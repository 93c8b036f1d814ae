package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// StripCodeFences removes an outer markdown code block (e.g. ```json ... ```)
// that models often wrap around structured output, plus surrounding whitespace.
func StripCodeFences(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}

// ValidateMarkdown checks if the string parses as Markdown using Goldmark.
// Goldmark is very permissive, so this only catches empty/broken resources.
func ValidateMarkdown(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
