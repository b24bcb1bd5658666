package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OllamaConfig holds configuration for the local Ollama provider.
type OllamaConfig struct {
	BaseURL string        // default: http://localhost:11434
	Model   string        // default: qwen2.5:7b
	Timeout time.Duration // default: 60s
}

// OllamaClient implements TextGenerator against a local Ollama instance.
// There is no official client; the generate endpoint is called directly.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
	breaker *CircuitBreaker
}

// NewOllamaClient creates an Ollama provider.
func NewOllamaClient(cfg OllamaConfig) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "qwen2.5:7b"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OllamaClient{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: NewCircuitBreaker(),
	}
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends one system-framed user turn and returns the reply text.
func (c *OllamaClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	result, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		return c.generate(ctx, systemPrompt, userText)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *OllamaClient) generate(ctx context.Context, systemPrompt, userText string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  c.model,
		Prompt: userText,
		System: systemPrompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("llm: ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm: ollama returned status %d: %s", resp.StatusCode, string(data))
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("llm: ollama: decode response: %w", err)
	}
	if out.Response == "" {
		return "", fmt.Errorf("llm: ollama returned an empty response")
	}
	return out.Response, nil
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.model
}

var _ TextGenerator = (*OllamaClient)(nil)
