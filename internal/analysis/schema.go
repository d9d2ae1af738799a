package analysis

import (
	"fmt"
	"sort"

	apperrors "corri/internal/errors"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema is the canonical contract of an identification reply.
// Confidence outside [0,1] is rejected, never clamped.
const resultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["top1", "warnings"],
  "properties": {
    "top1": {
      "type": "object",
      "required": ["name_ko", "name_en", "confidence", "rationale_points"],
      "properties": {
        "name_ko": {"type": "string", "minLength": 1, "pattern": "\\S"},
        "name_en": {"type": "string", "minLength": 1, "pattern": "\\S"},
        "confidence": {"type": "number", "minimum": 0, "maximum": 1},
        "rationale_points": {
          "type": "array",
          "items": {"type": "string"},
          "minItems": 3,
          "maxItems": 3
        }
      }
    },
    "warnings": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

const rootField = "(root)"

var compiledSchema = mustCompile(resultSchema)

func mustCompile(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("analysis: invalid result schema: %v", err))
	}
	return schema
}

// Validate checks a decoded JSON document against the result schema and
// returns one issue per violated field, ordered by field path. An empty slice
// means the document is a valid result.
func Validate(doc interface{}) []apperrors.Issue {
	result, err := compiledSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return []apperrors.Issue{{
			Field:   rootField,
			Message: err.Error(),
			Code:    "unreadable_document",
		}}
	}
	if result.Valid() {
		return nil
	}

	issues := make([]apperrors.Issue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, apperrors.Issue{
			Field:   fieldPath(desc),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Field < issues[j].Field
	})
	return issues
}

// fieldPath points "required" errors at the missing property instead of its parent
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		return field
	}
	property, ok := desc.Details()["property"].(string)
	if !ok || property == "" {
		return field
	}
	if field == "" || field == rootField {
		return property
	}
	return field + "." + property
}
