package config

import (
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/urmzd/oag/pkg/errors"
)

// configSchema constrains the modern config shape. Generator entries stay
// open so unrecognised keys degrade to warnings instead of failures.
const configSchema = `{
  "type": "object",
  "properties": {
    "input": {"type": "string"},
    "naming": {
      "type": "object",
      "properties": {
        "strategy": {"enum": ["use_operation_id", "use_route_based"]},
        "aliases": {"type": "object", "additionalProperties": {"type": "string"}}
      },
      "additionalProperties": false
    },
    "generators": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "output": {"type": "string"},
          "layout": {"enum": ["bundled", "modular", "split"]},
          "split_by": {"enum": ["operation", "tag", "route"]},
          "source_dir": {"type": "string"},
          "base_url": {"type": "string"},
          "no_jsdoc": {"type": "boolean"},
          "scaffold": {
            "type": "object",
            "properties": {
              "package_name": {"type": "string"},
              "repository": {"type": "string"},
              "biome": {"type": "boolean"},
              "tsdown": {"type": "boolean"},
              "tests": {"type": "boolean"},
              "formatter": {"type": "boolean"},
              "bundler": {"type": "boolean"},
              "test_runner": {"type": "boolean"},
              "existing_repo": {"type": "boolean"}
            }
          }
        }
      }
    }
  },
  "additionalProperties": false
}`

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

// validateShape checks the document against the embedded JSON Schema before
// strict decoding, turning shape mistakes into precise config errors.
func validateShape(data []byte) error {
	compileSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
		if err != nil {
			compileSchemaError = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("oag.config.schema.json", doc); err != nil {
			compileSchemaError = err
			return
		}
		compiledSchema, compileSchemaError = compiler.Compile("oag.config.schema.json")
	})
	if compileSchemaError != nil {
		return &errors.ConfigError{Message: compileSchemaError.Error()}
	}

	var instance any
	if err := yaml.Unmarshal(data, &instance); err != nil {
		return &errors.ConfigError{Message: err.Error()}
	}
	if err := compiledSchema.Validate(instance); err != nil {
		return &errors.ConfigError{Message: err.Error()}
	}
	return nil
}
