package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google's Gemini models using the
// official GenAI SDK.
type GeminiProvider struct {
	Model  string // e.g. "gemini-2.5-flash"
	client *genai.Client
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates the provider once at process start. The client is
// safe for concurrent use and shared by all requests.
func NewGeminiProvider(ctx context.Context, model string) (*GeminiProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiProvider{Model: model, client: client}, nil
}

// GenerateResponse sends a generateContent request to the Gemini API.
func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	model := p.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	temperature := float32(0.1)
	if val, ok := options["temperature"].(float64); ok {
		temperature = float32(val)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}

	if val, ok := options["response_mime_type"].(string); ok && val != "" {
		config.ResponseMIMEType = val
	}

	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		}
	}

	result, err := p.client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return result.Text(), nil
}
