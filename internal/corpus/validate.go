// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// corpusFileSchema constrains the JSON form of a corpus file.
const corpusFileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["persona", "records"],
  "properties": {
    "persona": {"type": "string", "pattern": "^[a-z][a-z0-9_-]*$"},
    "record_type": {"enum": ["focus-origin", "realm-origin"]},
    "records": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["axis_value", "text"],
        "properties": {
          "persona": {"type": "string"},
          "axis_value": {"type": "integer", "minimum": 1},
          "record_type": {"enum": ["focus-origin", "realm-origin"]},
          "text": {"type": "string", "minLength": 1},
          "category": {"type": "string"},
          "support_tags": {"type": "array", "items": {"type": "string"}},
          "challenge_tags": {"type": "array", "items": {"type": "string"}},
          "source_id": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiledSchema, schemaErr = compiler.Compile([]byte(corpusFileSchema))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile corpus schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateJSON checks a corpus file in JSON form against the corpus schema.
func ValidateJSON(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}
