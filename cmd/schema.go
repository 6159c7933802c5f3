package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const scenarioSchemaURL = "mfsim://scenario.schema.json"

// scenarioSchema constrains the shape of a scenario file. Cross-field rules
// (end after start, policy semantics) live in ScenarioConfig.Validate.
const scenarioSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["start_time", "end_time", "mainframes_timeline", "players"],
  "additionalProperties": false,
  "properties": {
    "start_time": {"type": "string"},
    "end_time": {"type": "string"},
    "seed": {"type": "integer"},
    "mainframes_timeline": {"type": "string", "minLength": 1},
    "distinct_end_of_support": {"type": "boolean"},
    "players": {
      "type": "array",
      "items": {"$ref": "#/definitions/player"}
    }
  },
  "definitions": {
    "probability": {"type": "number", "minimum": 0, "maximum": 1},
    "player": {
      "type": "object",
      "required": ["ai"],
      "additionalProperties": false,
      "properties": {
        "ai": {"enum": ["SIMPLE_MARKOV", "GROWING_MARKOV"]},
        "ncopies": {"type": "integer", "minimum": 1},
        "ai_params": {"type": "object"}
      },
      "allOf": [
        {
          "if": {"properties": {"ai": {"const": "SIMPLE_MARKOV"}}},
          "then": {"properties": {"ai_params": {
            "additionalProperties": false,
            "properties": {
              "buy_first_probability": {"$ref": "#/definitions/probability"},
              "renew_probability": {"$ref": "#/definitions/probability"},
              "max_stagnancy": {"type": "integer", "minimum": 0}
            }
          }}}
        },
        {
          "if": {"properties": {"ai": {"const": "GROWING_MARKOV"}}},
          "then": {"properties": {"ai_params": {
            "additionalProperties": false,
            "properties": {
              "init_size": {"type": "integer", "minimum": 1},
              "growth": {"type": "integer", "minimum": 1},
              "p_engage": {"$ref": "#/definitions/probability"},
              "p_grow": {"$ref": "#/definitions/probability"},
              "p_renew": {"$ref": "#/definitions/probability"},
              "p_resign": {"$ref": "#/definitions/probability"},
              "mark_withdrawn": {"type": "boolean"}
            }
          }}}
        }
      ]
    }
  }
}`

var compiledScenarioSchema = jsonschema.MustCompileString(scenarioSchemaURL, scenarioSchema)

// validateSchema checks raw YAML against scenarioSchema. The document goes
// through JSON so the validator sees plain JSON values.
func validateSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing scenario config: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("parsing scenario config: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("parsing scenario config: %w", err)
	}
	if err := compiledScenarioSchema.Validate(v); err != nil {
		return fmt.Errorf("scenario config does not match schema: %w", err)
	}
	return nil
}
