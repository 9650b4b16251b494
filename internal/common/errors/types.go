package errors

import (
	"fmt"
	"strings"
)

// FieldError describes one failing input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validated entities.
const (
	EntityClaim    = "claim"
	EntityProvider = "provider"
)

// ValidationError carries every failing field of a rejected submission. It is
// a result for the caller to show, not a job failure.
type ValidationError struct {
	Entity string       `json:"entity"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(parts, "; "))
}

// HasField reports whether field failed.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// FieldNames lists failing fields in reported order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// ToStandard maps the failure onto the entity's validation code.
func (e *ValidationError) ToStandard() *StandardError {
	if e.Entity == EntityProvider {
		return NewProviderValidationFailedError(e.Error())
	}
	return NewClaimValidationFailedError(e.Error())
}

// NotFoundError reports an id that is not in the registry.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ToStandard maps the lookup failure onto CLAIM_NOT_FOUND.
func (e *NotFoundError) ToStandard() *StandardError {
	stdErr := NewClaimNotFoundError(e.ID)
	stdErr.Metadata = map[string]interface{}{"resource": e.Resource}
	return stdErr
}

// NewNotFound builds a NotFoundError for a claim id.
func NewNotFound(id string) *NotFoundError {
	return &NotFoundError{Resource: EntityClaim, ID: id}
}
