package llm

import (
	"fmt"
)

// NewProvider creates a Provider from configuration, wrapped with
// retry middleware.
func NewProvider(cfg Config) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(base, cfg.Retry), nil
}

// NewCleanProvider creates the provider used for transcript cleaning,
// wrapped with retry middleware. For OpenAI this binds the heavier
// CleanModel; other providers have a single configured model and are
// built as usual.
func NewCleanProvider(cfg Config) (Provider, error) {
	if cfg.Provider != "openai" {
		return NewProvider(cfg)
	}
	ocfg := cfg.OpenAI
	ocfg.Model = ocfg.CleanModel
	base, err := NewOpenAIProvider(ocfg)
	if err != nil {
		return nil, fmt.Errorf("initializing openai clean provider: %w", err)
	}
	return WithRetry(base, cfg.Retry), nil
}

// NewTranscriber creates a Transcriber from configuration.
// Transcription always goes through OpenAI: it is the only configured
// provider with a speech-to-text endpoint.
func NewTranscriber(cfg Config) (Transcriber, error) {
	if cfg.Provider == "mock" {
		return NewMockTranscriber(), nil
	}
	return NewOpenAIProvider(cfg.OpenAI)
}
