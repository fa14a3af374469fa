package llm

import (
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openai", "anthropic", "mock"
	Provider string

	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Retry     RetryConfig

	// Timeout is the maximum duration for a single LLM request
	// including retries. Default: 60s (voice transcription is slow).
	Timeout time.Duration
}

// OpenAIConfig holds OpenAI-specific configuration. OpenAI serves both
// text generation and transcription.
type OpenAIConfig struct {
	APIKey string
	// Model is the fast chat model used for classification.
	// Default: "gpt-4o-mini".
	Model string
	// CleanModel is the heavier model used for final text cleaning.
	// Default: "gpt-4o".
	CleanModel string
	// TranscribeModel is the speech-to-text model.
	// Default: "gpt-4o-transcribe".
	TranscribeModel string
	// BaseURL overrides the API endpoint for compatible gateways.
	BaseURL string
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		OpenAI: OpenAIConfig{
			Model:           "gpt-4o-mini",
			CleanModel:      "gpt-4o",
			TranscribeModel: "gpt-4o-transcribe",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling
// back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("MEMORA_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if k := os.Getenv("MEMORA_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("MEMORA_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if m := os.Getenv("MEMORA_OPENAI_CLEAN_MODEL"); m != "" {
		cfg.OpenAI.CleanModel = m
	}
	if m := os.Getenv("MEMORA_OPENAI_TRANSCRIBE_MODEL"); m != "" {
		cfg.OpenAI.TranscribeModel = m
	}
	if u := os.Getenv("MEMORA_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("MEMORA_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("MEMORA_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if t := os.Getenv("MEMORA_LLM_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}
