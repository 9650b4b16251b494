package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	apperrors "claims-registry/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Error codes shared by schema and form validation.
const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeMinLengthViolation   = "MIN_LENGTH_VIOLATION"
	CodeInvalidType          = "INVALID_TYPE"
	CodeInvalidEnumValue     = "INVALID_ENUM_VALUE"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeInvalidDate          = "INVALID_DATE"
	CodeInvalidNumber        = "INVALID_NUMBER"
	CodeMinimumViolation     = "MINIMUM_VIOLATION"
	CodeMaximumViolation     = "MAXIMUM_VIOLATION"
	CodeSchemaViolation      = "SCHEMA_VIOLATION"
)

type ValidationResult struct {
	Valid  bool                   `json:"valid"`
	Errors []apperrors.FieldError `json:"errors,omitempty"`
}

var (
	schemaCacheMu sync.Mutex
	schemaCache   = map[string]*gojsonschema.Schema{}
)

// compileSchema memoizes compiled schemas by their JSON text.
func compileSchema(schemaJSON []byte) (*gojsonschema.Schema, error) {
	key := string(schemaJSON)

	schemaCacheMu.Lock()
	defer schemaCacheMu.Unlock()

	if s, ok := schemaCache[key]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	schemaCache[key] = s
	return s, nil
}

// CheckSchema reports whether schemaJSON compiles.
func CheckSchema(schemaJSON []byte) error {
	_, err := compileSchema(schemaJSON)
	return err
}

// ValidateJSON checks a JSON document against a JSON schema.
func ValidateJSON(schemaJSON, document []byte) (*ValidationResult, error) {
	schema, err := compileSchema(schemaJSON)
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, apperrors.FieldError{
			Field:   resultField(desc),
			Message: desc.Description(),
			Code:    resultCode(desc.Type()),
		})
	}
	return out, nil
}

// ValidateInput marshals input and checks it against the schema.
func ValidateInput(input interface{}, schemaJSON []byte) (*ValidationResult, error) {
	doc, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}
	return ValidateJSON(schemaJSON, doc)
}

func resultField(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == "(root)" || field == "" {
				return prop
			}
			if field == prop || strings.HasSuffix(field, "."+prop) {
				return field
			}
			return field + "." + prop
		}
	}
	return field
}

func resultCode(schemaType string) string {
	switch schemaType {
	case "required":
		return CodeRequiredFieldMissing
	case "invalid_type":
		return CodeInvalidType
	case "enum":
		return CodeInvalidEnumValue
	case "string_gte":
		return CodeMinLengthViolation
	case "number_gte", "number_gt":
		return CodeMinimumViolation
	case "number_lte", "number_lt":
		return CodeMaximumViolation
	default:
		return CodeSchemaViolation
	}
}

// ValidateActivityNaming checks the domain.subdomain.action id convention.
func ValidateActivityNaming(activityID string) error {
	namingPattern := regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z]+$`)
	if !namingPattern.MatchString(activityID) {
		return fmt.Errorf("activity ID must follow format: domain.subdomain.action (e.g., claims.claim.submit)")
	}
	return nil
}

// GetErrorMessages returns "field: message" lines.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a field and its nested members.
func (vr *ValidationResult) GetErrorsForField(field string) []apperrors.FieldError {
	var fieldErrors []apperrors.FieldError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") || strings.HasPrefix(err.Field, field+"[") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
