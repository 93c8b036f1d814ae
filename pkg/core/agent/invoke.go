package agent

import (
	"context"
	"log"

	"cocktail_agent/pkg/core/llm"
	"cocktail_agent/pkg/core/utils"
)

// actionSchemaJSON is the JSON Schema for AgentAction, appended verbatim to
// every structured-mode prompt so the model sees the exact contract the
// response is validated against.
const actionSchemaJSON = `{
  "type": "object",
  "required": ["action_type", "confidence", "reasoning", "conversation"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string"},
    "created_at": {"type": "string"},
    "updated_at": {"type": "string"},
    "action_type": {"enum": ["create_drink", "search_drink", "suggest_drink", null]},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "reasoning": {"type": "string", "maxLength": 1000},
    "conversation": {"type": "string", "maxLength": 1000},
    "drink_recipe": {"$ref": "#/definitions/drink_recipe"},
    "suggest_drink": {"$ref": "#/definitions/drink_recipe"}
  },
  "definitions": {
    "drink_recipe": {
      "type": ["object", "null"],
      "required": ["name", "description", "ingredients", "instructions"],
      "properties": {
        "name": {"type": "string", "minLength": 1, "maxLength": 100},
        "description": {"type": "string", "maxLength": 500},
        "ingredients": {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object",
            "required": ["name", "amount", "color", "unit"],
            "properties": {
              "name": {"type": "string", "minLength": 1, "maxLength": 100},
              "amount": {"type": "number", "exclusiveMinimum": 0},
              "color": {"type": "string", "pattern": "^#(?:[0-9a-fA-F]{3}){1,2}$"},
              "unit": {"type": "string", "minLength": 1, "maxLength": 20}
            }
          }
        },
        "instructions": {"type": "array", "minItems": 1, "items": {"type": "string"}},
        "glass_type": {"type": "string", "default": "rocks glass"},
        "garnish": {"type": ["string", "null"], "maxLength": 100},
        "has_ice": {"type": "boolean", "default": true}
      }
    }
  }
}`

const structuredDirective = "[OUTPUT FORMAT]\n" +
	"Your entire reply MUST be a single JSON object conforming to the JSON Schema below. " +
	"No prose, no explanations, no code fences.\n"

// Invoker is the LLM invocation adapter. It owns the two invocation modes
// (raw text vs. schema-constrained JSON) and the defensive parsing of
// structured output.
type Invoker struct {
	provider    llm.Provider
	model       string
	temperature float64

	// Debug dumps the fully rendered prompt before each call. Contains no
	// user secrets beyond the user's own utterance.
	Debug bool
}

func NewInvoker(provider llm.Provider, model string, temperature float64) *Invoker {
	return &Invoker{provider: provider, model: model, temperature: temperature}
}

// Invoke runs unconstrained mode: the prompt is sent as-is with the persona
// as system instruction and the raw text comes back.
func (i *Invoker) Invoke(ctx context.Context, promptText string, persona string) (string, error) {
	if i.Debug {
		log.Printf("[LLM] rendered prompt:\n%s", promptText)
	}

	text, err := i.provider.GenerateResponse(ctx, promptText, persona, i.options())
	if err != nil {
		return "", &ProviderUnavailableError{Err: err}
	}
	return text, nil
}

// InvokeStructured runs structured mode: the action schema and a JSON-only
// directive are appended to the prompt, the provider's JSON output mode is
// requested, and the reply is parsed and validated into an AgentAction.
func (i *Invoker) InvokeStructured(ctx context.Context, promptText string, persona string) (*AgentAction, error) {
	fullPrompt := promptText + "\n" + structuredDirective + actionSchemaJSON

	if i.Debug {
		log.Printf("[LLM] rendered prompt:\n%s", fullPrompt)
	}

	opts := i.options()
	opts["response_mime_type"] = "application/json"

	text, err := i.provider.GenerateResponse(ctx, fullPrompt, persona, opts)
	if err != nil {
		return nil, &ProviderUnavailableError{Err: err}
	}

	cleaned := utils.StripCodeFences(text)

	// Repair ladder first: strict JSON, then json-repair, then hjson. Only
	// when all three fail is the output considered malformed.
	var probe map[string]interface{}
	normalized, err := utils.SmartParse(cleaned, &probe)
	if err != nil {
		return nil, &MalformedOutputError{Raw: text, Err: err}
	}

	return ParseAction(normalized)
}

func (i *Invoker) options() map[string]interface{} {
	return map[string]interface{}{
		"model":       i.model,
		"temperature": i.temperature,
	}
}
