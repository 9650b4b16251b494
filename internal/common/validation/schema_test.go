package validation

import (
	"testing"

	apperrors "claims-registry/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionSchema = []byte(`{
	"type": "object",
	"required": ["sessionId"],
	"properties": {
		"sessionId": {"type": "string", "minLength": 1},
		"pageSize": {"type": "integer", "minimum": 1},
		"kind": {"type": "string", "enum": ["all", "health", "vehicle"]}
	}
}`)

// ==========================
// JSON Schema
// ==========================

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name          string
		doc           string
		valid         bool
		expectedField string
		expectedCode  string
	}{
		{"valid document", `{"sessionId":"s-1","pageSize":10,"kind":"health"}`, true, "", ""},
		{"missing session", `{"pageSize":10}`, false, "sessionId", CodeRequiredFieldMissing},
		{"wrong type", `{"sessionId":"s-1","pageSize":"ten"}`, false, "pageSize", CodeInvalidType},
		{"below minimum", `{"sessionId":"s-1","pageSize":0}`, false, "pageSize", CodeMinimumViolation},
		{"bad enum", `{"sessionId":"s-1","kind":"boat"}`, false, "kind", CodeInvalidEnumValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateJSON(sessionSchema, []byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				require.NotEmpty(t, result.Errors)
				assert.True(t, result.HasErrors(tt.expectedField), "errors: %v", result.GetErrorMessages())
				assert.Equal(t, tt.expectedCode, result.GetErrorsForField(tt.expectedField)[0].Code)
			}
		})
	}
}

func TestValidateJSON_InvalidSchema(t *testing.T) {
	_, err := ValidateJSON([]byte(`{"type": 12}`), []byte(`{}`))
	assert.Error(t, err)
}

func TestValidateInput_Struct(t *testing.T) {
	input := struct {
		SessionID string `json:"sessionId"`
	}{SessionID: "abc"}

	result, err := ValidateInput(input, sessionSchema)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("claims.claim.submit"))
	assert.Error(t, ValidateActivityNaming("claims.submit"))
	assert.Error(t, ValidateActivityNaming("Claims.Claim.Submit"))
}

// ==========================
// Form Collector
// ==========================

func TestCollector_CollectsEveryFailure(t *testing.T) {
	var c Collector
	c.Text("patientId", "  ", 2)
	c.Text("patientName", "A", 2)
	c.Text("hospitalName", "X", 1)
	c.Amount("amount", "-5")
	c.Int("totalClaims", "12.5", 0, 1<<31-1)
	c.Float("fraudRate", "101", 0, 100)

	err := c.Err("claim")
	require.Error(t, err)

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"patientId", "patientName", "amount", "totalClaims", "fraudRate"}, vErr.FieldNames())
	assert.Equal(t, CodeRequiredFieldMissing, vErr.Fields[0].Code)
	assert.Equal(t, CodeMinLengthViolation, vErr.Fields[1].Code)
	assert.Equal(t, CodeInvalidAmount, vErr.Fields[2].Code)
	assert.Equal(t, CodeInvalidNumber, vErr.Fields[3].Code)
	assert.Equal(t, CodeMaximumViolation, vErr.Fields[4].Code)
}

func TestCollector_Amount(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{"250.50", 250.50, true},
		{" 1 ", 1, true},
		{"0", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var c Collector
			got := c.Amount("amount", tt.raw)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.ok, len(c.errs) == 0)
		})
	}
}

func TestCollector_DateAndEnum(t *testing.T) {
	var c Collector

	_, ok := c.Date("submittedOn", "", "2006-01-02")
	assert.False(t, ok)
	assert.Empty(t, c.errs)

	d, ok := c.Date("submittedOn", "2023-06-15", "2006-01-02")
	assert.True(t, ok)
	assert.Equal(t, 15, d.Day())

	c.Date("submittedOn", "15/06/2023", "2006-01-02")
	c.OneOf("status", "paid", "pending", "approved")
	c.OneOf("status", "", "pending")

	require.Len(t, c.errs, 2)
	assert.Equal(t, CodeInvalidDate, c.errs[0].Code)
	assert.Equal(t, CodeInvalidEnumValue, c.errs[1].Code)
}

func TestCollector_NoErrors(t *testing.T) {
	var c Collector
	c.Text("name", "Apollo", 2)
	assert.NoError(t, c.Err("provider"))
}
