package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationResult reports whether a document matches a schema.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ApplicationPayloadSchema describes the JSON body of an API submission.
// It only checks shape (types, known keys, toggle values); the field rules
// themselves belong to the validation stage so that both the HTML form and
// the API report the same messages.
const ApplicationPayloadSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "fullName":             {"type": "string"},
    "currentAddress":       {"type": "string"},
    "contactNumber":        {"type": "string"},
    "email":                {"type": "string"},
    "highestEducation":     {"type": "string"},
    "dateAvailable":        {"type": "string"},
    "desiredPosition":      {"type": "string"},
    "desiredSalary":        {"type": "string"},
    "authorizedToWork":     {"type": "string", "enum": ["", "yes", "no"]},
    "relativesAtCompany":   {"type": "string", "enum": ["", "yes", "no"]},
    "relativesExplanation": {"type": "string"}
  }
}`

var applicationPayloadLoader = gojsonschema.NewStringLoader(ApplicationPayloadSchema)

// ValidateDocument checks a raw JSON document against a JSON schema.
func ValidateDocument(schema gojsonschema.JSONLoader, document []byte) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return out, nil
}

// ValidateApplicationPayload checks an API submission body.
func ValidateApplicationPayload(document []byte) (*ValidationResult, error) {
	return ValidateDocument(applicationPayloadLoader, document)
}
