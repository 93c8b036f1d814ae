package utils

import (
	"testing"
)

type sampleOutput struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func TestSmartParse_ValidJSON(t *testing.T) {
	var out sampleOutput
	parsed, err := SmartParse(`{"name": "Negroni", "amount": 30}`, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed == "" {
		t.Error("expected parsed JSON string")
	}
	if out.Name != "Negroni" || out.Amount != 30 {
		t.Errorf("unexpected result: %+v", out)
	}
}

func TestSmartParse_RepairsSingleQuotes(t *testing.T) {
	var out sampleOutput
	_, err := SmartParse(`{'name': 'Old Fashioned', 'amount': 60,}`, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "Old Fashioned" {
		t.Errorf("expected 'Old Fashioned', got '%s'", out.Name)
	}
}

func TestSmartParse_HjsonFallback(t *testing.T) {
	var out sampleOutput
	input := `{
  # hjson-style comment
  name: Daiquiri
  amount: 45
}`
	_, err := SmartParse(input, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Name != "Daiquiri" {
		t.Errorf("expected 'Daiquiri', got '%s'", out.Name)
	}
}

func TestSmartParse_Garbage(t *testing.T) {
	var out sampleOutput
	_, err := SmartParse("I am sorry, I cannot help with that.", &out)
	if err == nil {
		t.Fatal("expected error for non-JSON input")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, c := range cases {
		if got := StripCodeFences(c.in); got != c.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("## Example\n\nUSER: Make me a drink") {
		t.Error("expected valid markdown to pass")
	}
	if ValidateMarkdown("   ") {
		t.Error("expected blank input to fail")
	}
}
