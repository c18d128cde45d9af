package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// manifestSchema is the subset of the specs.json shape the toolkit relies on.
// Unknown keys are deliberately allowed so host configuration survives
// rewrites untouched.
const manifestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["specs"],
  "properties": {
    "specs": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["spec_directory", "markdown_paths"],
        "properties": {
          "spec_directory": {"type": "string", "minLength": 1},
          "markdown_paths": {
            "type": "array",
            "items": {"type": "string", "minLength": 1}
          },
          "spec_terms_directory": {"type": "string"}
        }
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("specs.schema.json", strings.NewReader(manifestSchema)); err != nil {
		panic(fmt.Sprintf("manifest: add schema resource: %v", err))
	}
	schema, err := compiler.Compile("specs.schema.json")
	if err != nil {
		panic(fmt.Sprintf("manifest: compile schema: %v", err))
	}
	return schema
}

// ValidateSchema checks a decoded manifest against the embedded schema and
// returns a readable list of issue locations on failure.
func ValidateSchema(raw map[string]any) error {
	if err := compiledSchema.Validate(normalize(raw)); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) && validationErr != nil {
			issues := collectIssues(validationErr)
			if len(issues) > 0 {
				return fmt.Errorf("%s", strings.Join(issues, "; "))
			}
		}
		return err
	}
	return nil
}

// normalize round-trips the value through JSON so numeric types match what
// the validator expects regardless of how the map was built.
func normalize(raw map[string]any) any {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return raw
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var out any
	if err := decoder.Decode(&out); err != nil {
		return raw
	}
	return out
}

func collectIssues(err *jsonschema.ValidationError) []string {
	if err == nil {
		return nil
	}
	issues := []string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			} else if !strings.HasPrefix(location, "#") {
				location = "#" + location
			}
			message := strings.TrimSpace(node.Message)
			if message == "" {
				issues = append(issues, location)
				return
			}
			issues = append(issues, fmt.Sprintf("%s: %s", location, message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
