// internal/workers/claims/submit-claim/handler_test.go
package submitclaim

import (
	"context"
	"strings"
	"testing"
	"time"

	"claims-registry/internal/claims/record"
	"claims-registry/internal/claims/registry"
	"claims-registry/internal/claims/seed"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/common/notify"
	"claims-registry/internal/models"
	activity "claims-registry/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestHandler(t *testing.T) (*Handler, *registry.Manager, *notify.Recorder) {
	t.Helper()
	set, err := seed.Default()
	require.NoError(t, err)
	activities, err := activity.Default()
	require.NoError(t, err)

	factory := record.NewFactory(models.StatusReviewing)
	factory.Clock = func() time.Time { return time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC) }

	recorder := notify.NewRecorder(10)
	sessions := registry.NewManager(registry.ManagerConfig{
		PageSize: 10,
		Seed:     set,
		Factory:  factory,
		Notifier: recorder,
		Logger:   logger.NewTestLogger(t),
	})
	return NewHandler(createTestConfig(), sessions, activities, logger.NewTestLogger(t)), sessions, recorder
}

func createValidHealthInput() *Input {
	return &Input{
		SessionID: "alice",
		Claim: record.Input{
			Kind:            models.KindHealth,
			Amount:          "1250.75",
			PatientID:       "P-7781",
			PatientName:     "Maria Lopez",
			HospitalName:    "St. Mary's Medical Center",
			ServiceCategory: "Emergency Care",
		},
	}
}

func createValidVehicleInput() *Input {
	return &Input{
		SessionID: "alice",
		Claim: record.Input{
			Kind:             models.KindVehicle,
			Amount:           "48000",
			SubmittedOn:      "2024-06-18",
			PolicyID:         "POL-5521",
			PolicyHolderName: "Arjun Mehta",
			VehicleNumber:    "ka05mn4321",
			VehicleModel:     "Hyundai Creta",
			DamageType:       "Collision",
		},
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_HealthClaim(t *testing.T) {
	handler, sessions, recorder := createTestHandler(t)
	ctx := context.Background()

	output, err := handler.execute(ctx, createValidHealthInput())
	require.NoError(t, err)
	require.True(t, output.IsValid)
	require.NotNil(t, output.Claim)
	assert.True(t, strings.HasPrefix(output.Claim.ID, "CLM-"))
	assert.Equal(t, models.StatusReviewing, output.Claim.Status)
	assert.Equal(t, "2024-06-20", output.Claim.SubmittedOn.String())
	assert.Empty(t, output.ValidationErrors)
	assert.Contains(t, output.Message, output.Claim.ID)
	require.NotNil(t, output.Row)
	assert.Equal(t, output.Claim.ID, output.Row.ID)

	sess, err := sessions.Get(ctx, "alice")
	require.NoError(t, err)
	records, err := sess.Claims.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 16)
	assert.Equal(t, output.Claim.ID, records[0].ID)
	assert.Equal(t, models.CategoryReviewing, sess.Claims.Query().Category)

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, "Claim Submitted", last.Title)
}

func TestHandler_Execute_VehicleClaim(t *testing.T) {
	handler, _, _ := createTestHandler(t)

	output, err := handler.execute(context.Background(), createValidVehicleInput())
	require.NoError(t, err)
	require.True(t, output.IsValid)
	assert.True(t, strings.HasPrefix(output.Claim.ID, "VCL-"))
	assert.Equal(t, "KA05MN4321", output.Claim.Vehicle.VehicleNumber)
	assert.Equal(t, "2024-06-18", output.Claim.SubmittedOn.String())
}

func TestHandler_Execute_RejectedForm(t *testing.T) {
	handler, sessions, recorder := createTestHandler(t)
	ctx := context.Background()

	input := createValidHealthInput()
	input.Claim.Amount = "-5"
	input.Claim.PatientName = "M"
	input.Claim.HospitalName = ""

	output, err := handler.execute(ctx, input)
	require.NoError(t, err)
	assert.False(t, output.IsValid)
	assert.Nil(t, output.Claim)

	fields := make([]string, 0, len(output.ValidationErrors))
	for _, fe := range output.ValidationErrors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"amount", "patientName", "hospitalName"}, fields)

	sess, _ := sessions.Get(ctx, "alice")
	records, _ := sess.Claims.Records(ctx)
	assert.Len(t, records, 15)

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, "Submission Failed", last.Title)
	assert.Equal(t, models.SeverityError, last.Severity)
}

func TestHandler_Execute_JobInputErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
	}{
		{"missing session", func(in *Input) { in.SessionID = "" }},
		{"unknown kind", func(in *Input) { in.Claim.Kind = "marine" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, _ := createTestHandler(t)
			input := createValidHealthInput()
			tt.mutate(input)

			output, err := handler.execute(context.Background(), input)
			assert.Nil(t, output)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidJobInput), "got %v", err)
		})
	}
}

func TestHandler_Execute_DuplicateForcedID(t *testing.T) {
	handler, _, _ := createTestHandler(t)

	input := createValidHealthInput()
	input.Claim.ID = "CLM-2023456"

	output, err := handler.execute(context.Background(), input)
	assert.Nil(t, output)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDuplicateClaimID))
}

func TestHandler_Execute_SessionsAreSeparate(t *testing.T) {
	handler, sessions, _ := createTestHandler(t)
	ctx := context.Background()

	_, err := handler.Execute(ctx, createValidHealthInput())
	require.NoError(t, err)

	bob, err := sessions.Get(ctx, "bob")
	require.NoError(t, err)
	records, _ := bob.Claims.Records(ctx)
	assert.Len(t, records, 15)
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	set, _ := seed.Default()
	activities, _ := activity.Default()
	sessions := registry.NewManager(registry.ManagerConfig{Seed: set})
	handler := NewHandler(createTestConfig(), sessions, activities, logger.NewNoOpLogger())
	input := createValidHealthInput()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = handler.execute(ctx, input)
	}
}
