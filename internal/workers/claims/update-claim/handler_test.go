// internal/workers/claims/update-claim/handler_test.go
package updateclaim

import (
	"context"
	"testing"
	"time"

	"claims-registry/internal/claims/registry"
	"claims-registry/internal/claims/seed"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/models"
	activity "claims-registry/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, enforce bool) (*Handler, *registry.Manager) {
	t.Helper()
	set, err := seed.Default()
	require.NoError(t, err)
	activities, err := activity.Default()
	require.NoError(t, err)

	sessions := registry.NewManager(registry.ManagerConfig{
		Seed:               set,
		EnforceTransitions: enforce,
		Logger:             logger.NewTestLogger(t),
	})
	handler := NewHandler(&Config{Timeout: 5 * time.Second}, sessions, activities, logger.NewTestLogger(t))
	return handler, sessions
}

// firstClaim returns the first seeded claim of the session.
func firstClaim(t *testing.T, sessions *registry.Manager) models.Claim {
	t.Helper()
	sess, err := sessions.Get(context.Background(), "alice")
	require.NoError(t, err)
	records, err := sess.Claims.Records(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, records)
	return records[0]
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_UpdatesClaim(t *testing.T) {
	handler, sessions := createTestHandler(t, false)
	ctx := context.Background()

	claim := firstClaim(t, sessions)
	claim.Status = models.StatusRejected
	claim.Flagged = true

	output, err := handler.execute(ctx, &Input{SessionID: "alice", ClaimID: claim.ID, Claim: claim})
	require.NoError(t, err)
	assert.True(t, output.Found)
	assert.Equal(t, models.StatusRejected, output.Claim.Status)
	require.NotNil(t, output.Row)
	assert.True(t, output.Row.Flagged)

	stored := firstClaim(t, sessions)
	assert.Equal(t, models.StatusRejected, stored.Status)
	assert.True(t, stored.Flagged)
}

func TestHandler_Execute_EmptyIDTakesPathID(t *testing.T) {
	handler, sessions := createTestHandler(t, false)

	claim := firstClaim(t, sessions)
	id := claim.ID
	claim.ID = ""
	claim.Amount = 999

	output, err := handler.execute(context.Background(), &Input{SessionID: "alice", ClaimID: id, Claim: claim})
	require.NoError(t, err)
	assert.Equal(t, id, output.Claim.ID)
	assert.Equal(t, 999.0, output.Claim.Amount)
}

func TestHandler_Execute_UnknownClaim(t *testing.T) {
	handler, sessions := createTestHandler(t, false)

	claim := firstClaim(t, sessions)
	claim.ID = "CLM-MISSING"

	output, err := handler.execute(context.Background(), &Input{SessionID: "alice", ClaimID: "CLM-MISSING", Claim: claim})
	require.NoError(t, err)
	assert.False(t, output.Found)
	assert.Nil(t, output.Claim)
	assert.Contains(t, output.Reason, "CLM-MISSING")
}

func TestHandler_Execute_Failures(t *testing.T) {
	tests := []struct {
		name     string
		enforce  bool
		mutate   func(in *Input)
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "id mismatch",
			mutate:   func(in *Input) { in.Claim.ID = "CLM-OTHER" },
			wantCode: apperrors.ErrCodeClaimValidationFailed,
		},
		{
			name:     "non positive amount",
			mutate:   func(in *Input) { in.Claim.Amount = 0 },
			wantCode: apperrors.ErrCodeClaimValidationFailed,
		},
		{
			name:     "unknown status",
			mutate:   func(in *Input) { in.Claim.Status = "archived" },
			wantCode: apperrors.ErrCodeInvalidJobInput,
		},
		{
			name:     "missing claim id",
			mutate:   func(in *Input) { in.ClaimID = "" },
			wantCode: apperrors.ErrCodeInvalidJobInput,
		},
		{
			name:    "reopening a decided claim",
			enforce: true,
			mutate: func(in *Input) {
				in.Claim.Status = models.StatusPending
			},
			wantCode: apperrors.ErrCodeInvalidStatusTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, sessions := createTestHandler(t, tt.enforce)
			ctx := context.Background()

			// the first seeded claim is already approved
			claim := firstClaim(t, sessions)
			require.Equal(t, models.StatusApproved, claim.Status)

			input := &Input{SessionID: "alice", ClaimID: claim.ID, Claim: claim}
			tt.mutate(input)

			output, err := handler.execute(ctx, input)
			assert.Nil(t, output)
			assert.Equal(t, tt.wantCode, apperrors.Normalize(err).Code)
		})
	}
}
