package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/fireflow/pkg/collection"
)

// formSchema describes a PUT /api/form body. Either field may be omitted
// but at least one must be present.
const formSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "string"}
  },
  "additionalProperties": false,
  "minProperties": 1
}`

func compileFormSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("form.json", strings.NewReader(formSchema)); err != nil {
		return nil, fmt.Errorf("add form schema: %w", err)
	}
	return compiler.Compile("form.json")
}

// validateForm checks body against the form schema and converts the first
// failure into a ValidationError.
func validateForm(schema *jsonschema.Schema, body map[string]any) error {
	err := schema.Validate(body)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &collection.ValidationError{Message: err.Error()}
	}
	leaf := firstLeaf(ve)
	return &collection.ValidationError{
		Field:   fieldFromPointer(leaf.InstanceLocation),
		Message: leaf.Message,
	}
}

func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

// fieldFromPointer converts a JSON Pointer to dot notation.
func fieldFromPointer(path string) string {
	path = strings.TrimPrefix(path, "/")
	return strings.ReplaceAll(path, "/", ".")
}
