package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// schema constrains config files. Reserved message map keys cannot be seeded
// from variables.
const schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "variables": {
      "type": "object",
      "propertyNames": {
        "minLength": 1,
        "not": {"enum": ["uuid", "dynamic_uuid", "current_ts", "initial_ts", "timestamp"]}
      }
    },
    "envFile":   {"type": "string"},
    "envPrefix": {"type": "string", "pattern": "^[A-Za-z_][A-Za-z0-9_]*$"},
    "startTag":  {"type": "string", "minLength": 1},
    "endTag":    {"type": "string", "minLength": 1},
    "strict":    {"type": "boolean"},
    "noColor":   {"type": "boolean"},
    "verbose":   {"type": "boolean"}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schema)

// Validate checks c against the config schema. Violations are joined into a
// single error wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(c))
	if err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
