package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig holds configuration for the Anthropic provider.
type AnthropicConfig struct {
	APIKey    string
	Model     string // default: claude-3-5-sonnet-20241022
	MaxTokens int64  // default: 1024
}

// AnthropicClient implements TextGenerator using the official Messages API
// client.
type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
	breaker   *CircuitBreaker
}

// NewAnthropicClient creates an Anthropic provider.
func NewAnthropicClient(cfg AnthropicConfig) *AnthropicClient {
	if cfg.Model == "" {
		cfg.Model = string(anthropic.ModelClaude3_5Sonnet20241022)
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	var clientOpts []option.RequestOption
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &AnthropicClient{
		client:    &client,
		model:     anthropic.Model(cfg.Model),
		maxTokens: cfg.MaxTokens,
		breaker:   NewCircuitBreaker(),
	}
}

// Complete sends one system-framed user turn and returns the reply text.
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	result, err := c.breaker.Execute(ctx, func() (interface{}, error) {
		params := anthropic.MessageNewParams{
			Model:     c.model,
			MaxTokens: c.maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(userText)),
			},
		}
		if systemPrompt != "" {
			params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
		}

		resp, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("llm: anthropic: %w", err)
		}
		for _, block := range resp.Content {
			if block.Type == "text" {
				if text := block.AsText().Text; text != "" {
					return text, nil
				}
			}
		}
		return nil, fmt.Errorf("llm: anthropic returned no text content")
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string {
	return string(c.model)
}

var _ TextGenerator = (*AnthropicClient)(nil)
