package menu

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// menuJSONSchema returns the JSON-Schema (draft 2020-12 subset) the menu
// reference file must satisfy, as a generic map.
func menuJSONSchema() map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"id":       map[string]any{"type": "integer", "minimum": 1},
				"name_zh":  map[string]any{"type": "string", "minLength": 1},
				"short_zh": map[string]any{"type": "string", "minLength": 1},
				"name_en":  map[string]any{"type": "string"},
			},
			"required": []string{"id", "name_zh", "short_zh", "name_en"},
		},
	}
}

// validateAgainstSchema validates raw menu JSON against menuJSONSchema.
func validateAgainstSchema(data []byte) error {
	b, err := json.Marshal(menuJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("menu.schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("menu.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
