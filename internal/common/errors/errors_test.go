package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Retry Policy
// ==========================

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeStorageFailed, 3},
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeNotificationSendFailed, 3},
		{ErrCodeCacheFailed, 2},
		{ErrCodeSearchIndexFailed, 2},
		{ErrCodeClaimValidationFailed, 0},
		{ErrCodeDuplicateClaimID, 0},
		{ErrCodeClaimNotFound, 0},
		{ErrCodeInvalidQuery, 0},
		{ErrorCode("SOMETHING_ELSE"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRetryCount(tt.code))
			assert.Equal(t, tt.expected > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable storage error keeps retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewStorageFailedError("insert", fmt.Errorf("connection reset")))

		assert.Equal(t, "STORAGE_FAILED", bpmn.Code)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, 3, bpmn.Retries)
		assert.Equal(t, "STORAGE_FAILED", bpmn.ErrorVariables["originalErrorCode"])
	})

	t.Run("business error has no retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewDuplicateClaimIDError("CLM-1"))

		assert.Equal(t, "DUPLICATE_CLAIM_ID", bpmn.Code)
		assert.Zero(t, bpmn.Retries)
		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "DUPLICATE_CLAIM_ID", vars["errorCode"])
		assert.Equal(t, false, vars["retryable"])
	})

	t.Run("unknown code falls back to its own name", func(t *testing.T) {
		bpmn := ConvertToBPMNError(&StandardError{Code: "CUSTOM"})
		assert.Equal(t, "CUSTOM", bpmn.Code)
	})
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeStorageFailed))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchIndexFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeClaimValidationFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidStatusTransition))
	assert.Equal(t, "CLAIM", GetErrorCategory(ErrCodeClaimNotFound))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

// ==========================
// Typed Errors
// ==========================

func TestHasCode_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("add claim: %w", NewDuplicateClaimIDError("CLM-9"))

	assert.True(t, HasCode(err, ErrCodeDuplicateClaimID))
	assert.False(t, HasCode(err, ErrCodeClaimNotFound))
	assert.True(t, stderrors.Is(err, &StandardError{Code: ErrCodeDuplicateClaimID}))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeDuplicateClaimID))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Entity: "claim",
		Fields: []FieldError{
			{Field: "amount", Message: "must be a positive number", Code: "INVALID_AMOUNT"},
			{Field: "patientId", Message: "is required", Code: "REQUIRED_FIELD_MISSING"},
		},
	}

	assert.Equal(t, "claim validation failed: amount: must be a positive number; patientId: is required", err.Error())
	assert.True(t, err.HasField("amount"))
	assert.False(t, err.HasField("hospitalName"))
	assert.Equal(t, []string{"amount", "patientId"}, err.FieldNames())
	assert.Equal(t, ErrCodeClaimValidationFailed, err.ToStandard().Code)

	providerErr := &ValidationError{Entity: "provider"}
	assert.Equal(t, ErrCodeProviderValidationFailed, providerErr.ToStandard().Code)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"standard error", NewCacheFailedError("get", fmt.Errorf("timeout")), ErrCodeCacheFailed},
		{"wrapped validation", fmt.Errorf("submit: %w", &ValidationError{Entity: "claim"}), ErrCodeClaimValidationFailed},
		{"not found", NewNotFound("CLM-404"), ErrCodeClaimNotFound},
		{"plain error", fmt.Errorf("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := Normalize(tt.err)
			require.NotNil(t, stdErr)
			assert.Equal(t, tt.expected, stdErr.Code)
		})
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("CLM-1")
	assert.Equal(t, `claim "CLM-1" not found`, err.Error())

	stdErr := err.ToStandard()
	assert.Equal(t, "claimId: CLM-1", stdErr.Details)
	assert.Equal(t, "claim", stdErr.Metadata["resource"])
}

func TestRemainingRetries(t *testing.T) {
	tests := []struct {
		name    string
		granted int32
		policy  int
		want    int32
	}{
		{"policy below granted", 5, 3, 3},
		{"granted below policy", 2, 3, 1},
		{"last attempt", 1, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remainingRetries(tt.granted, tt.policy))
		})
	}
}
