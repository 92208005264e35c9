package modelcfg

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// fileSchema constrains the models file: every entry needs an id, a known
// usage style, and non-negative rates.
const fileSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "default_model": {"type": "string", "minLength": 1},
    "models": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["id"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "supports_temperature": {"type": "boolean"},
          "usage_style": {"enum": ["prompt_completion", "input_output"]},
          "input_per_million": {"type": "number", "minimum": 0},
          "cached_input_per_million": {"type": "number", "minimum": 0},
          "output_per_million": {"type": "number", "minimum": 0}
        }
      }
    }
  },
  "required": ["models"]
}`

// validate checks raw YAML against fileSchema. The YAML is round-tripped
// through encoding/json first so the validator only ever sees JSON types.
func validate(rawYAML []byte) error {
	var v any
	if err := yaml.Unmarshal(rawYAML, &v); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	jb, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("convert to json: %w", err)
	}
	var jv any
	if err := json.Unmarshal(jb, &jv); err != nil {
		return fmt.Errorf("reparse json: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("models.json", bytes.NewReader([]byte(fileSchema))); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("models.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := schema.Validate(jv); err != nil {
		return fmt.Errorf("models file does not match schema: %w", err)
	}
	return nil
}
