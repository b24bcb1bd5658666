// Package config provides configuration management for Vesper. Settings are
// loaded from environment variables with the VESPER_ prefix, with sensible
// defaults for a single-user local deployment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the Vesper application.
type Config struct {
	Server    ServerConfig
	Archive   ArchiveConfig
	LLM       LLMConfig
	Speech    SpeechConfig
	Proactive ProactiveConfig
	Persona   PersonaConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 7171)
	Host string // Server host (default: 127.0.0.1)
}

// ArchiveConfig controls where memory fragments are loaded from and persisted.
type ArchiveConfig struct {
	Engine       string // Archive engine: document, sqlite (default: document)
	DataPath     string // Path to the data directory (default: ./data)
	DocumentPath string // Path to the archive JSON document (default: {DataPath}/archive.json)
	WatchEnabled bool   // Reload the document when it changes on disk (default: true)
}

// LLMConfig contains completion provider configuration.
type LLMConfig struct {
	Provider        string // anthropic, openai, ollama (default: ollama)
	OllamaURL       string // Ollama API URL (default: http://localhost:11434)
	OllamaModel     string // Ollama model name (default: qwen2.5:7b)
	OpenAIAPIKey    string
	OpenAIModel     string // default: gpt-4o-mini
	AnthropicAPIKey string
	AnthropicModel  string // default: claude-3-5-sonnet-20241022
}

// SpeechConfig contains the optional text-to-speech settings.
type SpeechConfig struct {
	Enabled bool   // Feature flag (default: false)
	APIKey  string // Speech provider API key
	VoiceID string // Voice profile identifier
}

// ProactiveConfig controls the initiation scheduler.
type ProactiveConfig struct {
	Enabled  bool          // Allow unprompted outbound messages (default: true)
	Interval time.Duration // Evaluation period (default: 30m)
}

// PersonaConfig points at the optional persona overlay file.
type PersonaConfig struct {
	Path string // YAML persona file; empty means built-in defaults
}

// LoadConfig loads configuration from environment variables with defaults.
func LoadConfig() (*Config, error) {
	dataPath := getEnv("VESPER_DATA_PATH", "./data")
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("VESPER_PORT", 7171),
			Host: getEnv("VESPER_HOST", "127.0.0.1"),
		},
		Archive: ArchiveConfig{
			Engine:       getEnv("VESPER_ARCHIVE_ENGINE", "document"),
			DataPath:     dataPath,
			DocumentPath: getEnv("VESPER_ARCHIVE_DOCUMENT", dataPath+"/archive.json"),
			WatchEnabled: getEnvBool("VESPER_ARCHIVE_WATCH", true),
		},
		LLM: LLMConfig{
			Provider:        getEnv("VESPER_LLM_PROVIDER", "ollama"),
			OllamaURL:       getEnv("VESPER_OLLAMA_URL", "http://localhost:11434"),
			OllamaModel:     getEnv("VESPER_OLLAMA_MODEL", "qwen2.5:7b"),
			OpenAIAPIKey:    getEnv("VESPER_OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("VESPER_OPENAI_MODEL", "gpt-4o-mini"),
			AnthropicAPIKey: getEnv("VESPER_ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("VESPER_ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		},
		Speech: SpeechConfig{
			Enabled: getEnvBool("VESPER_SPEECH_ENABLED", false),
			APIKey:  getEnv("VESPER_SPEECH_API_KEY", ""),
			VoiceID: getEnv("VESPER_SPEECH_VOICE", "river"),
		},
		Proactive: ProactiveConfig{
			Enabled:  getEnvBool("VESPER_PROACTIVE_ENABLED", true),
			Interval: getEnvDuration("VESPER_PROACTIVE_INTERVAL", 30*time.Minute),
		},
		Persona: PersonaConfig{
			Path: getEnv("VESPER_PERSONA_PATH", ""),
		},
	}, nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default
// value. It recognizes "true", "1", "yes" and "false", "0", "no".
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns a
// default value. Unparseable values fall back to the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
