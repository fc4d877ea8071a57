package web

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// onboardingSchema rejects structurally broken PATCH payloads before any field
// is interpreted. Semantic rules (step counts, delay bounds, option limits)
// are enforced afterwards by models.ValidateOnboardingSteps.
const onboardingSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "enabled": {"type": "boolean"},
    "channel_id": {"type": "string"},
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string"},
          "content": {"type": "string"},
          "delay_seconds": {"type": "integer"},
          "action_message": {"type": "string"},
          "components": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["type", "options"],
              "properties": {
                "type": {"type": "string"},
                "placeholder": {"type": "string"},
                "multi_select": {"type": "boolean"},
                "options": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["label", "value"],
                    "properties": {
                      "label": {"type": "string", "minLength": 1},
                      "value": {"type": "string", "minLength": 1},
                      "description": {"type": "string"},
                      "emoji": {"type": "object"},
                      "role_id": {"type": "string"}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var onboardingSchemaLoader = gojsonschema.NewStringLoader(onboardingSchema)

// validateOnboardingShape checks a raw PATCH body against the schema and
// returns a message per structural violation.
func validateOnboardingShape(body []byte) ([]string, error) {
	result, err := gojsonschema.Validate(onboardingSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("evaluating onboarding schema: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, resultError := range result.Errors() {
		violations = append(violations, strings.TrimSpace(resultError.String()))
	}

	return violations, nil
}
