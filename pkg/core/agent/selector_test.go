package agent

import (
	"testing"

	"cocktail_agent/pkg/core/prompt"
)

func TestHeuristicSelectorRules(t *testing.T) {
	cases := []struct {
		input string
		want  prompt.TemplateName
	}{
		{"Make me something tropical", prompt.ActionGeneration},
		{"create a drink with gin", prompt.ActionGeneration},
		{"Can you mix a negroni for me", prompt.ActionGeneration},
		{"recommend something smoky", prompt.ActionGeneration},
		{"I want a margarita", prompt.ActionGeneration},
		{"I'd like something sweet", prompt.ActionGeneration},
		{"pour me a stiff one", prompt.ActionGeneration},
		{"whip up something fruity", prompt.ActionGeneration},
		{"summarize my tab for tonight", prompt.Summarization},
		{"take action on my order", prompt.ActionGeneration},
		{"do this for me", prompt.ActionGeneration},
		{"check the docs about amari", prompt.RetrievalAugmented},
		{"use the context from earlier", prompt.RetrievalAugmented},
		{"retrieve the house specials", prompt.RetrievalAugmented},
		{"how is a sour balanced", prompt.QuestionAnswering},
		{"why does vermouth oxidize", prompt.QuestionAnswering},
		{"is the bar open late?", prompt.QuestionAnswering},
		{"hello there", prompt.ClassicCompletion},
		{"", prompt.ClassicCompletion},
		{"zzz", prompt.ClassicCompletion},
	}

	s := HeuristicSelector{}
	for _, tc := range cases {
		got := s.Select(tc.input)
		if got != tc.want {
			t.Errorf("Select(%q): expected %s, got %s", tc.input, tc.want, got)
		}
	}
}

// Drink verbs outrank the question rule, so a question phrased around a
// creation verb is still an action request.
func TestHeuristicSelectorVerbBeatsQuestion(t *testing.T) {
	s := HeuristicSelector{}
	got := s.Select("What can you make me?")
	if got != prompt.ActionGeneration {
		t.Errorf("expected %s, got %s", prompt.ActionGeneration, got)
	}
}

func TestHeuristicSelectorSummarizeBeatsQuestionMark(t *testing.T) {
	s := HeuristicSelector{}
	got := s.Select("Could you summarize that?")
	if got != prompt.Summarization {
		t.Errorf("expected %s, got %s", prompt.Summarization, got)
	}
}

func TestHeuristicSelectorCaseInsensitive(t *testing.T) {
	s := HeuristicSelector{}
	if got := s.Select("CREATE A DRINK"); got != prompt.ActionGeneration {
		t.Errorf("expected %s, got %s", prompt.ActionGeneration, got)
	}
	if got := s.Select("SUMMARIZE THIS"); got != prompt.Summarization {
		t.Errorf("expected %s, got %s", prompt.Summarization, got)
	}
}
