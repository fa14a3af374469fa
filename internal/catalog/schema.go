package catalog

// questionsSchema is the JSON Schema the embedded questions file must
// conform to. Structural checks the schema cannot express (duplicate
// ids, pack membership) are enforced by New.
var questionsSchema = map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": map[string]any{
		"type":     "object",
		"required": []any{"id", "pack", "text", "difficulty", "emotional_intensity", "tags", "followups"},
		"properties": map[string]any{
			"id":   map[string]any{"type": "string", "minLength": 1},
			"pack": map[string]any{"type": "string", "minLength": 1},
			"text": map[string]any{"type": "string", "minLength": 10},
			"difficulty": map[string]any{
				"type": "string",
				"enum": []any{"easy", "medium"},
			},
			"emotional_intensity": map[string]any{
				"type": "string",
				"enum": []any{"low", "medium"},
			},
			"tags": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
			"followups": map[string]any{
				"type":     "array",
				"maxItems": MaxFollowups,
				"items":    map[string]any{"type": "string", "minLength": 1},
			},
		},
		"additionalProperties": false,
	},
}
