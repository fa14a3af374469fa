package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/questions.json
var questionsJSON []byte

// Load parses and validates the embedded question data and builds the
// process-wide Catalog. Called once at startup; any error is fatal.
func Load() (*Catalog, error) {
	return load(questionsJSON)
}

func load(raw []byte) (*Catalog, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse questions file: %w", err)
	}

	compiled, err := compileQuestionsSchema()
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("questions file schema validation: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	return New(questions)
}

func compileQuestionsSchema() (*jsonschema.Schema, error) {
	// The jsonschema library expects a parsed JSON value (any), not raw
	// bytes. Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(questionsSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal questions schema: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse questions schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	const schemaURL = "schema://questions.json"
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile questions schema: %w", err)
	}
	return compiled, nil
}
