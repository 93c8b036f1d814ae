package agent

import (
	"strings"

	"cocktail_agent/pkg/core/prompt"
)

// TemplateSelector maps raw user text to a template name. Implementations
// must be total: every input yields a valid registered name. A model-based
// selector can replace the heuristic one without changing downstream
// contracts.
type TemplateSelector interface {
	Select(userInput string) prompt.TemplateName
}

// HeuristicSelector is the rule-based selector. Rules are evaluated in
// order, first match wins; the order is deliberate (drink-creation verbs
// outrank the question rule, so "What can you make me?" is an action).
type HeuristicSelector struct{}

var _ TemplateSelector = (*HeuristicSelector)(nil)

var creationVerbs = []string{
	"make me",
	"create",
	"mix",
	"build",
	"recommend",
	"i want",
	"i'd like",
	"pour me",
	"whip up",
	"fix me",
}

var retrievalKeywords = []string{"context", "docs", "document", "retrieve", "reference"}

var questionWords = []string{"how", "why", "what", "who", "where"}

func (HeuristicSelector) Select(userInput string) prompt.TemplateName {
	lower := strings.ToLower(userInput)

	if containsAny(lower, creationVerbs) {
		return prompt.ActionGeneration
	}
	if strings.Contains(lower, "summarize") {
		return prompt.Summarization
	}
	if strings.Contains(lower, "action") || strings.Contains(lower, "do this") {
		return prompt.ActionGeneration
	}
	if containsAny(lower, retrievalKeywords) {
		return prompt.RetrievalAugmented
	}
	if containsAny(lower, questionWords) || strings.HasSuffix(strings.TrimSpace(lower), "?") {
		return prompt.QuestionAnswering
	}
	return prompt.ClassicCompletion
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
