// Package analysis turns raw model text into a validated AnalysisResult.
//
// Parsing happens in two phases so failures can be told apart: text that is
// not JSON at all is a malformed_json error, JSON with the wrong shape is a
// schema_violation carrying per-field issues.
package analysis

import (
	"encoding/json"

	apperrors "corri/internal/errors"
	"corri/pkg/models"
)

const (
	msgMalformedJSON   = "모델 응답이 JSON 형식이 아닙니다."
	msgSchemaViolation = "모델 응답이 스키마와 일치하지 않습니다."
)

// Parse strictly decodes raw and validates it. No prose or code fences are
// stripped, and no field is coerced or defaulted.
func Parse(raw string) (*models.AnalysisResult, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, apperrors.NewMalformedJSONError(msgMalformedJSON, raw, err)
	}

	if issues := Validate(doc); len(issues) > 0 {
		return nil, apperrors.NewSchemaViolationError(msgSchemaViolation, issues)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		// unreachable for schema-valid documents
		return nil, apperrors.NewMalformedJSONError(msgMalformedJSON, raw, err)
	}
	return &result, nil
}
