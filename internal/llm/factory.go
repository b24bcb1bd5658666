package llm

import (
	"fmt"

	"github.com/avelines/vesper/internal/config"
)

// NewTextGenerator creates the provider selected by configuration.
func NewTextGenerator(cfg config.LLMConfig) (TextGenerator, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(AnthropicConfig{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AnthropicModel,
		}), nil
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
		}), nil
	case "ollama", "":
		return NewOllamaClient(OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaModel,
		}), nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider: %q", cfg.Provider)
	}
}
