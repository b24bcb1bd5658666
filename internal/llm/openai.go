package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey    string
	Model     string // default: gpt-4o-mini
	BaseURL   string // optional override for compatible endpoints
	MaxTokens int64  // default: 1024
}

// OpenAIClient implements TextGenerator using the official Chat Completions
// client.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int64
	breaker   *CircuitBreaker
}

// NewOpenAIClient creates an OpenAI provider.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	var clientOpts []option.RequestOption
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(clientOpts...)

	return &OpenAIClient{
		client:    &client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		breaker:   NewCircuitBreaker(),
	}
}

// Complete sends one system-framed user turn and returns the reply text.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	result, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		var messages []openai.ChatCompletionMessageParamUnion
		if systemPrompt != "" {
			messages = append(messages, openai.SystemMessage(systemPrompt))
		}
		messages = append(messages, openai.UserMessage(userText))

		resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:               c.model,
			Messages:            messages,
			MaxCompletionTokens: openai.Int(c.maxTokens),
		})
		if err != nil {
			return nil, fmt.Errorf("llm: openai: %w", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return nil, fmt.Errorf("llm: openai returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Model returns the configured model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

var _ TextGenerator = (*OpenAIClient)(nil)
