// Package intake turns a raw user submission (voice recording or
// typed text) into a stored, classified memory: transcribe, clean,
// classify, persist, then record topic exposure.
package intake

import (
	"github.com/abhisek/memora/internal/store"
)

// Result is the outcome of one intake run.
type Result struct {
	// Memory is the stored record.
	Memory *store.Memory

	// Followup is the template follow-up offered for this memory,
	// empty when none was offered (free-form intake, or one was
	// already offered).
	Followup string
}

// Classification is the structured metadata extracted from a cleaned
// memory text.
type Classification struct {
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
	People   []string `json:"people"`
	Places   []string `json:"places"`
	TimeHint TimeHint `json:"time_hint"`
}

// TimeHint is the memory's dating, as precise as the text allows.
type TimeHint struct {
	// Type is one of "year", "range", "relative", "unknown".
	Type string `json:"type"`

	// Value is the raw hint, e.g. "1974", "1970-1975", "в детстве".
	// Empty when Type is "unknown".
	Value string `json:"value"`
}

// Config tunes the LLM calls of the pipeline.
type Config struct {
	CleanMaxTokens    int
	ClassifyMaxTokens int
	Temperature       float64
}

// DefaultConfig returns the production pipeline settings.
func DefaultConfig() Config {
	return Config{
		CleanMaxTokens:    2048,
		ClassifyMaxTokens: 512,
		Temperature:       0.2,
	}
}
