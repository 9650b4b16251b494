// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeClaimValidationFailed    ErrorCode = "CLAIM_VALIDATION_FAILED"
	ErrCodeClaimNotFound            ErrorCode = "CLAIM_NOT_FOUND"
	ErrCodeDuplicateClaimID         ErrorCode = "DUPLICATE_CLAIM_ID"
	ErrCodeInvalidStatusTransition  ErrorCode = "INVALID_STATUS_TRANSITION"
	ErrCodeInvalidQuery             ErrorCode = "INVALID_QUERY"
	ErrCodeProviderValidationFailed ErrorCode = "PROVIDER_VALIDATION_FAILED"
	ErrCodeInvalidJobInput          ErrorCode = "INVALID_JOB_INPUT"

	ErrCodeStorageFailed           ErrorCode = "STORAGE_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeCacheFailed             ErrorCode = "CACHE_FAILED"
	ErrCodeSearchIndexFailed       ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeNotificationSendFailed  ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeEngineUnavailable       ErrorCode = "ENGINE_UNAVAILABLE"
	ErrCodeEngineTimeout           ErrorCode = "ENGINE_TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches any StandardError carrying the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// HasCode reports whether err is, or wraps, a StandardError with code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newStandardError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewClaimValidationFailedError creates a non-retryable claim validation error.
func NewClaimValidationFailedError(details string) *StandardError {
	return newStandardError(ErrCodeClaimValidationFailed, "Claim data validation failed", details, false)
}

// NewClaimNotFoundError creates a non-retryable lookup error.
func NewClaimNotFoundError(claimID string) *StandardError {
	return newStandardError(ErrCodeClaimNotFound, "Claim not found", fmt.Sprintf("claimId: %s", claimID), false)
}

// NewDuplicateClaimIDError creates a non-retryable duplicate id error.
func NewDuplicateClaimIDError(claimID string) *StandardError {
	err := newStandardError(ErrCodeDuplicateClaimID, "Claim id already exists", fmt.Sprintf("claimId: %s", claimID), false)
	err.Metadata = map[string]interface{}{"claimId": claimID}
	return err
}

// NewInvalidStatusTransitionError creates a non-retryable status transition error.
func NewInvalidStatusTransitionError(from, to string) *StandardError {
	err := newStandardError(ErrCodeInvalidStatusTransition, "Status transition not allowed", fmt.Sprintf("from: %s, to: %s", from, to), false)
	err.Metadata = map[string]interface{}{"from": from, "to": to}
	return err
}

// NewInvalidQueryError creates a non-retryable query state error.
func NewInvalidQueryError(details string) *StandardError {
	return newStandardError(ErrCodeInvalidQuery, "Invalid query", details, false)
}

// NewProviderValidationFailedError creates a non-retryable provider validation error.
func NewProviderValidationFailedError(details string) *StandardError {
	return newStandardError(ErrCodeProviderValidationFailed, "Provider data validation failed", details, false)
}

// NewInvalidJobInputError creates a non-retryable job variables error.
func NewInvalidJobInputError(details string) *StandardError {
	return newStandardError(ErrCodeInvalidJobInput, "Invalid job input", details, false)
}

// NewStorageFailedError creates a retryable claim storage error.
func NewStorageFailedError(operation string, err error) *StandardError {
	return newStandardError(ErrCodeStorageFailed, "Claim storage operation failed", fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newStandardError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

// NewCacheFailedError creates a retryable cache error.
func NewCacheFailedError(operation string, err error) *StandardError {
	return newStandardError(ErrCodeCacheFailed, "View cache operation failed", fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewSearchIndexFailedError creates a retryable search index error.
func NewSearchIndexFailedError(operation string, err error) *StandardError {
	return newStandardError(ErrCodeSearchIndexFailed, "Search index operation failed", fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newStandardError(ErrCodeNotificationSendFailed, "Notification delivery failed", fmt.Sprintf("type: %s, error: %s", channel, err.Error()), true)
}

// NewEngineUnavailableError creates a retryable workflow engine connection error.
func NewEngineUnavailableError(operation string, err error) *StandardError {
	return newStandardError(ErrCodeEngineUnavailable, "Workflow engine unavailable", fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewEngineTimeoutError creates a retryable workflow engine timeout error.
func NewEngineTimeoutError(operation string, err error) *StandardError {
	return newStandardError(ErrCodeEngineTimeout, "Workflow engine timeout", fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return newStandardError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeClaimValidationFailed:    "CLAIM_VALIDATION_FAILED",
	ErrCodeClaimNotFound:            "CLAIM_NOT_FOUND",
	ErrCodeDuplicateClaimID:         "DUPLICATE_CLAIM_ID",
	ErrCodeInvalidStatusTransition:  "INVALID_STATUS_TRANSITION",
	ErrCodeInvalidQuery:             "INVALID_QUERY",
	ErrCodeProviderValidationFailed: "PROVIDER_VALIDATION_FAILED",
	ErrCodeInvalidJobInput:          "INVALID_JOB_INPUT",
	ErrCodeStorageFailed:            "STORAGE_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeCacheFailed:              "CACHE_FAILED",
	ErrCodeSearchIndexFailed:        "SEARCH_INDEX_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeEngineUnavailable:        "ENGINE_UNAVAILABLE",
	ErrCodeEngineTimeout:            "ENGINE_TIMEOUT",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStorageFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeEngineUnavailable:
		return 3

	case ErrCodeCacheFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeEngineTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "STORAGE") || strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "ENGINE"):
		return "ENGINE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CLAIM"):
		return "CLAIM"
	default:
		return "OTHER"
	}
}
