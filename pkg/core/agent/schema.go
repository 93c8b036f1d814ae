package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ActionType classifies what the backend should do with a completion.
type ActionType string

const (
	ActionCreateDrink  ActionType = "create_drink"
	ActionSearchDrink  ActionType = "search_drink"
	ActionSuggestDrink ActionType = "suggest_drink"
)

// GlassTypes is the fixed set of renderable glass names. The default when
// the model omits one is "rocks glass".
var GlassTypes = []string{
	"zombie glass", "cocktail glass", "rocks glass", "hurricane glass",
	"pint glass", "seidel glass", "shot glass", "highball glass",
	"margarita glass", "martini glass",
}

// Garnishes is the fixed set of renderable garnish names; nil means no garnish.
var Garnishes = []string{"lemon", "lime", "orange", "cherry", "olive", "salt_rim", "mint"}

const (
	DefaultGlassType = "rocks glass"

	maxTextLen        = 1000
	maxNameLen        = 100
	maxDescriptionLen = 500
	maxUnitLen        = 20
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// DrinkIngredient is one ingredient line of a recipe.
type DrinkIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Color  string  `json:"color"`
	Unit   string  `json:"unit"`
}

// DrinkRecipe is a complete, renderable cocktail recipe.
type DrinkRecipe struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Ingredients  []DrinkIngredient `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	GlassType    string            `json:"glass_type"`
	Garnish      *string           `json:"garnish"`
	HasIce       bool              `json:"has_ice"`
}

// AgentAction is the structured output contract every completion must honor.
// Constructed fresh per LLM call, never mutated after validation.
type AgentAction struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	ActionType   *ActionType `json:"action_type"`
	Confidence   float64     `json:"confidence"`
	Reasoning    string      `json:"reasoning"`
	Conversation string      `json:"conversation"`

	DrinkRecipe  *DrinkRecipe `json:"drink_recipe"`
	SuggestDrink *DrinkRecipe `json:"suggest_drink"`
}

// FlattenReasoning normalizes the reasoning field to a flat string. Some
// model snapshots return a nested object of reasoning steps instead of a
// string; values are concatenated in key-sorted order, recursing into nested
// mappings. Flattening an already-flat string is a no-op.
func FlattenReasoning(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := ""
		for _, k := range keys {
			part := FlattenReasoning(val[k])
			if part == "" {
				continue
			}
			if out != "" {
				out += " "
			}
			out += part
		}
		return out
	case []interface{}:
		out := ""
		for _, item := range val {
			part := FlattenReasoning(item)
			if part == "" {
				continue
			}
			if out != "" {
				out += " "
			}
			out += part
		}
		return out
	default:
		return fmt.Sprintf("%v", val)
	}
}

// normalize fills server-side defaults the model is allowed to omit.
// Mutation happens strictly before Validate; a validated action is final.
func (a *AgentAction) normalize() {
	now := time.Now().UTC().Format(time.RFC3339)
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Name == "" {
		a.Name = "agent_action"
	}
	if a.CreatedAt == "" {
		a.CreatedAt = now
	}
	if a.UpdatedAt == "" {
		a.UpdatedAt = now
	}
	for _, recipe := range []*DrinkRecipe{a.DrinkRecipe, a.SuggestDrink} {
		if recipe != nil && recipe.GlassType == "" {
			recipe.GlassType = DefaultGlassType
		}
	}
}

// Validate checks the action against the schema constraints. Validation is
// all-or-nothing: a structurally invalid action is never partially returned.
func (a *AgentAction) Validate() error {
	if a.Confidence < 0 || a.Confidence > 1 {
		return &SchemaValidationError{Field: "confidence", Reason: fmt.Sprintf("must be in [0,1], got %v", a.Confidence)}
	}
	if a.Reasoning == "" {
		return &SchemaValidationError{Field: "reasoning", Reason: "is required"}
	}
	if len(a.Reasoning) > maxTextLen {
		return &SchemaValidationError{Field: "reasoning", Reason: fmt.Sprintf("exceeds %d characters", maxTextLen)}
	}
	if a.Conversation == "" {
		return &SchemaValidationError{Field: "conversation", Reason: "is required"}
	}
	if len(a.Conversation) > maxTextLen {
		return &SchemaValidationError{Field: "conversation", Reason: fmt.Sprintf("exceeds %d characters", maxTextLen)}
	}

	if a.ActionType != nil {
		switch *a.ActionType {
		case ActionCreateDrink, ActionSearchDrink, ActionSuggestDrink:
		default:
			return &SchemaValidationError{Field: "action_type", Reason: fmt.Sprintf("unknown value '%s'", *a.ActionType)}
		}
	}

	if a.DrinkRecipe != nil {
		if err := a.DrinkRecipe.validate("drink_recipe"); err != nil {
			return err
		}
	}
	if a.SuggestDrink != nil {
		if err := a.SuggestDrink.validate("suggest_drink"); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRecipe checks a standalone recipe against the same constraints
// applied to model output.
func (r *DrinkRecipe) ValidateRecipe() error {
	return r.validate("recipe")
}

func (r *DrinkRecipe) validate(field string) error {
	if r.Name == "" || len(r.Name) > maxNameLen {
		return &SchemaValidationError{Field: field + ".name", Reason: "must be 1-100 characters"}
	}
	if len(r.Description) > maxDescriptionLen {
		return &SchemaValidationError{Field: field + ".description", Reason: fmt.Sprintf("exceeds %d characters", maxDescriptionLen)}
	}
	if len(r.Ingredients) == 0 {
		return &SchemaValidationError{Field: field + ".ingredients", Reason: "must not be empty"}
	}
	for i, ing := range r.Ingredients {
		prefix := fmt.Sprintf("%s.ingredients[%d]", field, i)
		if ing.Name == "" || len(ing.Name) > maxNameLen {
			return &SchemaValidationError{Field: prefix + ".name", Reason: "must be 1-100 characters"}
		}
		if ing.Amount <= 0 {
			return &SchemaValidationError{Field: prefix + ".amount", Reason: "must be greater than zero"}
		}
		if !hexColorPattern.MatchString(ing.Color) {
			return &SchemaValidationError{Field: prefix + ".color", Reason: fmt.Sprintf("'%s' is not a hex color", ing.Color)}
		}
		if ing.Unit == "" || len(ing.Unit) > maxUnitLen {
			return &SchemaValidationError{Field: prefix + ".unit", Reason: "must be 1-20 characters"}
		}
	}
	if len(r.Instructions) == 0 {
		return &SchemaValidationError{Field: field + ".instructions", Reason: "must not be empty"}
	}
	if !contains(GlassTypes, r.GlassType) {
		return &SchemaValidationError{Field: field + ".glass_type", Reason: fmt.Sprintf("'%s' is not a known glass", r.GlassType)}
	}
	if r.Garnish != nil && !contains(Garnishes, *r.Garnish) {
		return &SchemaValidationError{Field: field + ".garnish", Reason: fmt.Sprintf("'%s' is not a known garnish", *r.Garnish)}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ParseAction parses cleaned model output into a validated AgentAction.
// The reasoning-flattening normalization runs between parse and validation
// so a nested reasoning object never reaches the strict check.
func ParseAction(jsonText string) (*AgentAction, error) {
	var generic map[string]interface{}
	if err := json.Unmarshal([]byte(jsonText), &generic); err != nil {
		return nil, &MalformedOutputError{Raw: jsonText, Err: err}
	}

	if reasoning, ok := generic["reasoning"]; ok {
		generic["reasoning"] = FlattenReasoning(reasoning)
	}

	normalized, err := json.Marshal(generic)
	if err != nil {
		return nil, &MalformedOutputError{Raw: jsonText, Err: err}
	}

	var action AgentAction
	if err := json.Unmarshal(normalized, &action); err != nil {
		return nil, &SchemaValidationError{Field: "(root)", Reason: err.Error()}
	}

	action.normalize()
	if err := action.Validate(); err != nil {
		return nil, err
	}
	return &action, nil
}
