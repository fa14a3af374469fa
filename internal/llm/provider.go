// Package llm abstracts the language-model providers behind two small
// interfaces: Provider for structured text generation (memory cleaning,
// classification) and Transcriber for voice-message transcription.
package llm

import (
	"context"
	"encoding/json"
	"io"
)

// Provider is the core abstraction for LLM text interaction.
type Provider interface {
	// Generate sends a prompt to the LLM and returns a structured
	// response. When the request carries a Schema the provider uses its
	// native structured output mechanism and the response Content is
	// the validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider uses.
	ModelID() string
}

// Transcriber converts recorded speech to text.
type Transcriber interface {
	// Transcribe reads audio (ogg/opus voice messages, mp3, wav) and
	// returns the raw transcript.
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. For the intake pipeline this is a
	// single user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. When
	// nil, Content is the raw text response.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero value means
	// deterministic.
	Temperature float64
}

// Message is a single conversation message.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "memory-classification".
	Name string

	// Description guides the model's generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output, validated JSON when a Schema
	// was requested.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
