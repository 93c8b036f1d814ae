// Package agent implements the prompt orchestration engine: intent
// selection, prompt assembly from prototypes plus few-shot examples and
// retrieved context, and schema-constrained LLM invocation.
package agent

import (
	"context"
	"log"

	"cocktail_agent/pkg/core/prompt"
	"cocktail_agent/pkg/core/rag"
)

const (
	fewShotOpen  = "[FEW-SHOT EXAMPLES]"
	fewShotClose = "[END EXAMPLES]"
	contextOpen  = "[CONTEXT FETCHED FROM ONLINE RAG DATABASE]"
	contextClose = "[END CONTEXT FETCHED FROM ONLINE RAG DATABASE]"
)

// Engine drives one generation turn per call. It holds no per-request state:
// the instance is constructed once at process start with all collaborators
// injected and is safely shared across concurrent sessions.
type Engine struct {
	selector  TemplateSelector
	retriever rag.Retriever
	examples  *prompt.ExampleLoader
	invoker   *Invoker
	persona   string
}

// New wires the engine from its collaborators. A nil selector falls back to
// the heuristic rules; a nil retriever disables retrieval.
func New(selector TemplateSelector, retriever rag.Retriever, examples *prompt.ExampleLoader, invoker *Invoker, persona string) *Engine {
	if selector == nil {
		selector = HeuristicSelector{}
	}
	if retriever == nil {
		retriever = rag.NoOpRetriever{}
	}
	return &Engine{
		selector:  selector,
		retriever: retriever,
		examples:  examples,
		invoker:   invoker,
		persona:   persona,
	}
}

// RunResult carries both the raw rendered prompt and the validated
// completion so callers can log and replay turns offline.
type RunResult struct {
	TemplateName    prompt.TemplateName `json:"template_name"`
	Prompt          string              `json:"prompt"`
	Completion      *AgentAction        `json:"completion"`
	RetrievedChunks []string            `json:"retrieved_chunks"`
}

// Run executes one generation turn: select template, seed the prompt,
// interleave few-shot examples and retrieved context, append the user
// utterance as the final [CONVERSATION] block, then invoke the model in
// structured mode. Retrieval runs for every template when enabled.
func (e *Engine) Run(ctx context.Context, userInput string, userID string, topK int, ragEnabled bool) (*RunResult, error) {
	templateName := e.selector.Select(userInput)

	p, err := prompt.GetPrototype(templateName, userInput)
	if err != nil {
		return nil, err
	}

	if e.examples != nil {
		if examples := e.examples.Load(templateName); len(examples) > 0 {
			p.Append(fewShotOpen)
			for _, example := range examples {
				p.Append(example)
			}
			p.Append(fewShotClose)
		}
	}

	retrievedChunks := []string{}
	if ragEnabled {
		results, err := e.retriever.Retrieve(ctx, userInput, userID, topK)
		if err != nil {
			// Retrievers degrade internally; a hard error here still must
			// not abort generation.
			log.Printf("[Engine] retrieval error ignored: %v", err)
			results = nil
		}
		if len(results) > 0 {
			p.Append(contextOpen)
			for _, result := range results {
				retrievedChunks = append(retrievedChunks, result.Content)
				p.Append(result.Content)
			}
			p.Append(contextClose)
		}
	}

	p.Append("[CONVERSATION]\n" + userInput)

	rendered := p.String()
	completion, err := e.invoker.InvokeStructured(ctx, rendered, e.persona)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		TemplateName:    templateName,
		Prompt:          rendered,
		Completion:      completion,
		RetrievedChunks: retrievedChunks,
	}, nil
}
