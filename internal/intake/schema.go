package intake

import "github.com/abhisek/memora/internal/llm"

// ClassificationSchema defines the JSON schema for memory metadata
// extraction.
var ClassificationSchema = &llm.Schema{
	Name:        "memory-classification",
	Description: "Structured metadata extracted from one life memory",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title for the memory in Russian (3-7 words)",
			},
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Topic tags in English snake_case, e.g. home, childhood, war",
				"minItems":    1,
				"maxItems":    6,
			},
			"people": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "People mentioned, as named in the text",
			},
			"places": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Places mentioned, as named in the text",
			},
			"time_hint": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{
						"type": "string",
						"enum": []any{"year", "range", "relative", "unknown"},
					},
					"value": map[string]any{
						"type":        "string",
						"description": "The dating as written, empty when unknown",
					},
				},
				"required":             []any{"type", "value"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"title", "tags", "people", "places", "time_hint"},
		"additionalProperties": false,
	},
}
