// Package apischema validates the external JSON encoding of compiler
// options (the `{flavor, max_range_size, allowed_features, ...}` object a
// tool caller passes alongside source text), so malformed input produces a
// schema-validation error. This package only validates: patterncomp.Options
// carries no JSON tags, and of the wire fields only `flavor` decodes into it
// with encoding/json (flavor.Flavor implements encoding.TextUnmarshaler).
//
// The schema is compiled once with santhosh-tekuri/jsonschema/v5 (Draft
// 2020-12, no remote $ref resolution), cached, and a validation failure is
// translated into a plain error the caller reports as an Other-kind
// diagnostic. There is exactly one fixed, hand-written schema: this module
// has a single closed options shape, not an open registry of shapes.
package apischema

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// optionsSchema is the JSON Schema document for the wire form of
// compiler.Options / patterncomp.Options.
const optionsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "schema://patterncomp/options.json",
  "title": "patterncomp.Options",
  "type": "object",
  "properties": {
    "flavor": {
      "type": "string",
      "enum": ["pcre", "python", "java", "javascript", "dotnet", "ruby", "rust", "re2"]
    },
    "max_range_size": {
      "type": "integer",
      "minimum": 1,
      "maximum": 1000000
    },
    "allowed_features": {
      "type": "object",
      "additionalProperties": {
        "type": "string",
        "enum": ["unsupported", "supported", "supported_with_warning"]
      }
    },
    "suppress": {
      "type": "array",
      "items": {"type": "string", "enum": ["compat", "deprecated"]},
      "uniqueItems": true
    },
    "recursion_limit": {
      "type": "integer",
      "minimum": 1,
      "maximum": 100000
    }
  },
  "required": ["flavor"],
  "additionalProperties": false
}`

const schemaURL = "schema://patterncomp/options.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// blockRemoteRefs refuses to resolve any $ref this schema doesn't already
// carry as an embedded resource: validating caller input must never reach
// the network.
func blockRemoteRefs(url string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("apischema: remote $ref resolution is disabled: %s", url)
}

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		c.LoadURL = blockRemoteRefs
		if err := c.AddResource(schemaURL, strings.NewReader(optionsSchema)); err != nil {
			compileErr = fmt.Errorf("apischema: adding schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// ValidateOptions validates raw, the JSON-encoded external Options object,
// against the options schema, so a caller mistake (an unknown flavor
// string, a negative max_range_size, an unrecognised suppress key) surfaces
// as a single schema error.
func ValidateOptions(raw []byte) error {
	s, err := schema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("apischema: invalid JSON: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("apischema: %w", err)
	}
	return nil
}
