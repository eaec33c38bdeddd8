package gemini

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/devKanyanta/sambilila-worker/internal/generation"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// schemaValidator wraps a compiled JSON schema for model responses.
type schemaValidator struct {
	schema *jsonschema.Schema
}

// newSchemaValidator loads and compiles one of the embedded response schemas.
func newSchemaValidator(name string) (*schemaValidator, error) {
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: missing schema %s: %v", generation.ErrInvalidConfig, name, err)
	}
	schema, err := jsonschema.CompileString(name, string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: bad schema %s: %v", generation.ErrInvalidConfig, name, err)
	}
	return &schemaValidator{schema: schema}, nil
}

// Validate checks raw model output against the schema. A violation means
// the model produced a malformed payload, which is a permanent
// ErrInvalidResponse.
func (v *schemaValidator) Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: response is not valid JSON: %v", generation.ErrInvalidResponse, err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: response violates schema: %v", generation.ErrInvalidResponse, err)
	}
	return nil
}
