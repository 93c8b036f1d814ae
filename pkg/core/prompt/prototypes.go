package prompt

import "fmt"

// TemplateName identifies a registered prompt prototype.
type TemplateName string

const (
	ClassicCompletion  TemplateName = "classic_completion"
	RetrievalAugmented TemplateName = "retrieval_augmented"
	QuestionAnswering  TemplateName = "question_answering"
	ActionGeneration   TemplateName = "action_generation"
	Summarization      TemplateName = "summarization"
	ChatStyle          TemplateName = "chat_style"
)

// UnknownTemplateError indicates a selector/registry desynchronization.
// This is a programming error, not a recoverable runtime condition.
type UnknownTemplateError struct {
	Name TemplateName
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("no prompt prototype registered under name '%s'", e.Name)
}

// FactoryFunc builds a fresh Prompt for the given user input. The raw user
// utterance is intentionally not embedded in the seeded template text; the
// orchestrator appends it later as a distinct [CONVERSATION] block so few-shot
// and retrieved content can be interleaved before it.
type FactoryFunc func(userInput string) *Prompt

// newPrototype seeds a Prompt with the three labeled blocks every template
// carries, in fixed order.
func newPrototype(description, systemMessage, instructions string) *Prompt {
	p := New("")
	if description != "" {
		p.Append("[TASK DESCRIPTION]\n" + description)
	}
	if systemMessage != "" {
		p.Append("[SYSTEM]\n" + systemMessage)
	}
	if instructions != "" {
		p.Append("[INSTRUCTIONS]\n" + instructions)
	}
	return p
}

func classicCompletionPrompt(_ string) *Prompt {
	return newPrototype(
		"Freeform completion of text based on user input.",
		"You are an intelligent assistant that thinks step-by-step. "+
			"Always consider what tools, data sources, and other resources are available in the current context "+
			"and how to use them effectively to produce the best possible answer.",
		"Let's approach this step by step:\n"+
			"1. First, analyze the user's request and identify key components\n"+
			"2. Think through the logical steps needed to address the request\n"+
			"3. Consider any relevant context or constraints\n"+
			"4. Formulate a clear and helpful response\n"+
			"Put your reasoning in the 'reasoning' field and your response in the 'conversation' field of the JSON output.",
	)
}

func retrievalAugmentedPrompt(_ string) *Prompt {
	return newPrototype(
		"Answer with retrieved context from knowledge base or documentation.",
		"You use external document retrieval to ground your answers and you are aware of all retrieval and "+
			"knowledge resources that are available in the current context. Think through your reasoning step-by-step, "+
			"explicitly considering which documents, tools, or APIs to use and why.",
		"Approach this systematically:\n"+
			"1. Identify the key information needed from the retrieved context\n"+
			"2. Analyze how the retrieved documents relate to the question\n"+
			"3. Extract relevant facts and determine their reliability\n"+
			"4. Synthesize the information into a coherent answer\n"+
			"5. Cite sources and provide references for all claims\n"+
			"Put your reasoning process in the 'reasoning' field and your final answer in the 'conversation' field of the JSON output.",
	)
}

func questionAnsweringPrompt(_ string) *Prompt {
	return newPrototype(
		"Question answering based on available data.",
		"You answer questions concisely and accurately by reasoning through them step-by-step. "+
			"Always inspect what contextual resources (retrieved documents, past interactions, tools, and APIs) are "+
			"available, and use them when they can improve the quality or reliability of the answer.",
		"Think through this question carefully:\n"+
			"1. What specifically is being asked?\n"+
			"2. What information do I have that's relevant?\n"+
			"3. What logical steps lead to the answer?\n"+
			"4. Am I certain about this answer based on available data?\n"+
			"If the answer is not known, explain your reasoning and state 'I don't know based on current data.'\n"+
			"Put your thought process in the 'reasoning' field and your final answer in the 'conversation' field of the JSON output.",
	)
}

func actionGenerationPrompt(_ string) *Prompt {
	return newPrototype(
		"Generate a structured action for an API call.",
		"Generate JSON to represent the user's intended action. Think through the requirements step-by-step, and "+
			"pay attention to what backend services, APIs, tools, and other resources are available so that the action "+
			"is executable in the current environment.",
		"Let's break down the drink request:\n"+
			"1. Analyze what the user wants:\n"+
			"   - Specific drink by name? -> action_type: 'create_drink' (populate drink_recipe)\n"+
			"   - Describe preferences/mood? -> action_type: 'suggest_drink' (populate suggest_drink)\n"+
			"   - Ask about ingredients? -> action_type: 'search_drink' (populate drink_recipe)\n\n"+
			"2. For CREATE_DRINK or SUGGEST_DRINK, provide COMPLETE recipe:\n"+
			"   - Name: The cocktail name\n"+
			"   - Description: Brief description of the drink's character\n"+
			"   - Ingredients: Each ingredient MUST have:\n"+
			"     * name: Ingredient name (e.g., 'Bourbon', 'Simple Syrup')\n"+
			"     * amount: Numeric amount (e.g., 60, 2, 0.5)\n"+
			"     * unit: Unit of measurement (e.g., 'ml', 'oz', 'dash', 'tsp')\n"+
			"     * color: Hex color code (e.g., '#D4A574' for bourbon, '#FFD700' for simple syrup)\n"+
			"   - Instructions: Array of step-by-step preparation instructions\n"+
			"   - Glass type: MUST be one of: 'zombie glass', 'cocktail glass', 'rocks glass', 'hurricane glass', 'pint glass', 'seidel glass', 'shot glass', 'highball glass', 'margarita glass', 'martini glass'\n"+
			"   - Garnish: MUST be one of: 'lemon', 'lime', 'orange', 'cherry', 'olive', 'salt_rim', 'mint', or null for no garnish\n"+
			"   - Has ice: true/false\n\n"+
			"3. Respond in character as Arthur the bartender in the 'conversation' field\n\n"+
			"4. Put your reasoning about which action_type to use in the 'reasoning' field\n\n"+
			"CRITICAL: NEVER leave action_type as null. ALWAYS choose create_drink, suggest_drink, or search_drink.",
	)
}

func summarizationPrompt(_ string) *Prompt {
	return newPrototype(
		"Summarize user-provided content.",
		"You summarize and rephrase user input for clarity by thinking through the content systematically. "+
			"When helpful, take into account any available context, metadata, or other resources that can make the "+
			"summary more accurate or useful.",
		"Follow this systematic approach:\n"+
			"1. Read through the entire content to understand the main topic\n"+
			"2. Identify the key points, themes, and critical information\n"+
			"3. Determine what details are essential vs. supplementary\n"+
			"4. Consider the intended audience and purpose\n"+
			"5. Synthesize the information into a concise summary\n"+
			"Put your analysis of key points in the 'reasoning' field, then provide a concise summary in the 'conversation' field of the JSON output.",
	)
}

func chatStylePrompt(_ string) *Prompt {
	return newPrototype(
		"Multi-turn conversational assistant.",
		"Respond in a friendly, helpful chat style. Think through your responses step-by-step. "+
			"Continuously consider what contextual resources (conversation history, tools, APIs, and retrieved data) "+
			"are available and how to use them to provide the most helpful, grounded reply.",
		"Let's think through this conversation carefully:\n"+
			"1. What is the user asking or trying to accomplish?\n"+
			"2. What context from previous turns is relevant?\n"+
			"3. Are there any ambiguities that need clarification?\n"+
			"4. What would be the most helpful response?\n"+
			"5. How can I respond in a friendly and clear manner?\n"+
			"Put your analysis in the 'reasoning' field, then provide a helpful and contextually appropriate response in the 'conversation' field of the JSON output.",
	)
}

// prototypeRegistry maps template names to factories. The map is populated at
// init and read-only afterwards, so concurrent lookups need no locking.
var prototypeRegistry = map[TemplateName]FactoryFunc{
	ClassicCompletion:  classicCompletionPrompt,
	RetrievalAugmented: retrievalAugmentedPrompt,
	QuestionAnswering:  questionAnsweringPrompt,
	ActionGeneration:   actionGenerationPrompt,
	Summarization:      summarizationPrompt,
	ChatStyle:          chatStylePrompt,
}

// TemplateNames returns every registered template name.
func TemplateNames() []TemplateName {
	names := make([]TemplateName, 0, len(prototypeRegistry))
	for name := range prototypeRegistry {
		names = append(names, name)
	}
	return names
}

// GetPrototype returns a fresh Prompt seeded for the named template.
// Every call constructs a new Prompt; prototypes are never shared across
// requests. Returns UnknownTemplateError for unregistered names.
func GetPrototype(name TemplateName, userInput string) (*Prompt, error) {
	fn, ok := prototypeRegistry[name]
	if !ok {
		return nil, &UnknownTemplateError{Name: name}
	}
	return fn(userInput), nil
}
