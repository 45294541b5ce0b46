package parser

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const decisionSchemaJSON = `{
  "type": "object",
  "required": ["tool", "reason"],
  "properties": {
    "tool": {"type": "string"},
    "params": {"type": ["object", "null"]}
  }
}`

const planSchemaJSON = `{
  "type": "object",
  "required": ["reasoning", "operations"],
  "properties": {
    "operations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["start_line", "end_line", "replacement"],
        "properties": {
          "start_line": {"type": "integer"},
          "end_line": {"type": "integer"},
          "replacement": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var (
	decisionSchema = mustSchema(decisionSchemaJSON)
	planSchema     = mustSchema(planSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return s
}

// validate checks doc against schema and converts the first violation into
// a MissingKeyError or TypeMismatchError.
func validate(schema *gojsonschema.Schema, doc map[string]any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Valid() {
		return nil
	}

	re := result.Errors()[0]
	details := re.Details()
	switch re.Type() {
	case "required":
		return &MissingKeyError{Key: fieldPath(re.Field(), fmt.Sprint(details["property"]))}
	case "invalid_type":
		return &TypeMismatchError{
			Key:  re.Field(),
			Want: fmt.Sprint(details["expected"]),
			Got:  fmt.Sprint(details["given"]),
		}
	default:
		return &TypeMismatchError{Key: re.Field(), Want: re.Description()}
	}
}

func fieldPath(parent, key string) string {
	if parent == "" || parent == "(root)" {
		return key
	}
	return parent + "." + key
}
