package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// DeepSeekProvider implements Provider against the DeepSeek chat completions
// API. Kept as an alternative backend selectable via config/models.yaml.
type DeepSeekProvider struct {
	Model  string
	client *http.Client
}

var _ Provider = (*DeepSeekProvider)(nil)

func NewDeepSeekProvider(model string) *DeepSeekProvider {
	return &DeepSeekProvider{Model: model, client: &http.Client{}}
}

type deepSeekMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type deepSeekResponseFormat struct {
	Type string `json:"type"`
}

type deepSeekRequest struct {
	Messages       []deepSeekMessage      `json:"messages"`
	Model          string                 `json:"model"`
	MaxTokens      int                    `json:"max_tokens"`
	ResponseFormat deepSeekResponseFormat `json:"response_format"`
	Stream         bool                   `json:"stream"`
	Temperature    float64                `json:"temperature"`
}

type deepSeekResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *DeepSeekProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey := os.Getenv("DEEPSEEK_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("DEEPSEEK_API_KEY environment variable not set")
	}

	model := p.Model
	if model == "" {
		model = "deepseek-chat"
	}
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	temperature := 0.1
	if val, ok := options["temperature"].(float64); ok {
		temperature = val
	}

	// DeepSeek's JSON mode is "json_object" rather than a MIME type.
	format := deepSeekResponseFormat{Type: "text"}
	if val, ok := options["response_mime_type"].(string); ok && val == "application/json" {
		format.Type = "json_object"
	}

	reqBody := deepSeekRequest{
		Messages: []deepSeekMessage{
			{Content: systemPrompt, Role: "system"},
			{Content: prompt, Role: "user"},
		},
		Model:          model,
		MaxTokens:      4096,
		ResponseFormat: format,
		Stream:         false,
		Temperature:    temperature,
	}

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("deepseek marshal error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.deepseek.com/chat/completions", bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", fmt.Errorf("deepseek request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek api call error: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("deepseek read body error: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepseek api error: status=%d body=%s", res.StatusCode, string(body))
	}

	var response deepSeekResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("deepseek unmarshal error: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("deepseek returned no choices: %s", string(body))
	}

	return response.Choices[0].Message.Content, nil
}
