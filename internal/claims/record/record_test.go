package record

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type sequenceIDs struct{ n int }

func (s *sequenceIDs) NextID(kind models.ClaimKind) string {
	s.n++
	return fmt.Sprintf("%s%04d", Prefix(kind), s.n)
}

type fixedScore int

func (f fixedScore) NextScore() int { return int(f) }

func createTestFactory() *Factory {
	f := NewFactory(models.StatusReviewing)
	f.IDs = &sequenceIDs{}
	f.Scores = fixedScore(25)
	f.Clock = func() time.Time { return time.Date(2023, 6, 16, 14, 30, 0, 0, time.UTC) }
	return f
}

func validHealthInput() Input {
	return Input{
		Kind:            models.KindHealth,
		PatientID:       "PT-9",
		PatientName:     "A B",
		HospitalName:    "X",
		ServiceCategory: "Y",
		Amount:          "250.50",
	}
}

func validVehicleInput() Input {
	return Input{
		Kind:             models.KindVehicle,
		PolicyID:         "POL-7781",
		PolicyHolderName: "Rahul Mehta",
		VehicleNumber:    "mh02ab1234",
		VehicleModel:     "Honda City",
		DamageType:       "Collision",
		Amount:           "48250",
	}
}

// ==========================
// Constructor Tests
// ==========================

func TestNewHealthClaim_Valid(t *testing.T) {
	f := createTestFactory()

	claim, err := f.NewHealthClaim(validHealthInput())
	require.NoError(t, err)

	assert.Equal(t, "CLM-0001", claim.ID)
	assert.Equal(t, models.KindHealth, claim.Kind)
	assert.Equal(t, 250.50, claim.Amount)
	assert.Equal(t, models.StatusReviewing, claim.Status)
	assert.Equal(t, 25, claim.FraudScore)
	assert.False(t, claim.Flagged)
	assert.Equal(t, "2023-06-16", claim.SubmittedOn.String())
	require.NotNil(t, claim.Health)
	assert.Nil(t, claim.Vehicle)
	assert.Equal(t, "PT-9", claim.Health.PatientID)
	assert.NoError(t, claim.Validate())
}

func TestNewVehicleClaim_Valid(t *testing.T) {
	f := createTestFactory()

	in := validVehicleInput()
	in.SubmittedOn = "2023-06-10"
	claim, err := f.NewVehicleClaim(in)
	require.NoError(t, err)

	assert.Equal(t, "VCL-0001", claim.ID)
	assert.Equal(t, "MH02AB1234", claim.Vehicle.VehicleNumber)
	assert.Equal(t, "2023-06-10", claim.SubmittedOn.String())
	assert.Nil(t, claim.Health)
	assert.NoError(t, claim.Validate())
}

func TestNewHealthClaim_ReportsEveryField(t *testing.T) {
	f := createTestFactory()

	_, err := f.NewHealthClaim(Input{Kind: models.KindHealth, PatientName: "A", Amount: "-1", SubmittedOn: "yesterday"})
	require.Error(t, err)

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t,
		[]string{"patientId", "patientName", "hospitalName", "serviceCategory", "amount", "submittedOn"},
		vErr.FieldNames())
}

func TestNewVehicleClaim_ReportsEveryField(t *testing.T) {
	f := createTestFactory()

	_, err := f.NewVehicleClaim(Input{Kind: models.KindVehicle, Amount: "abc"})
	require.Error(t, err)

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t,
		[]string{"policyId", "policyHolderName", "vehicleNumber", "vehicleModel", "damageType", "amount"},
		vErr.FieldNames())
}

func TestFactory_New_Dispatch(t *testing.T) {
	f := createTestFactory()

	health, err := f.New(validHealthInput())
	require.NoError(t, err)
	assert.Equal(t, models.KindHealth, health.Kind)

	vehicle, err := f.New(validVehicleInput())
	require.NoError(t, err)
	assert.Equal(t, models.KindVehicle, vehicle.Kind)

	_, err = f.New(Input{Kind: "boat"})
	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"kind"}, vErr.FieldNames())
}

func TestFactory_ForcedID(t *testing.T) {
	f := createTestFactory()

	in := validHealthInput()
	in.ID = " CLM-2023999 "
	claim, err := f.New(in)
	require.NoError(t, err)
	assert.Equal(t, "CLM-2023999", claim.ID)
}

func TestFactory_DefaultStatusFallback(t *testing.T) {
	assert.Equal(t, models.StatusReviewing, NewFactory("bogus").DefaultStatus)
	assert.Equal(t, models.StatusPending, NewFactory(models.StatusPending).DefaultStatus)
}

// ==========================
// Id And Score Sources
// ==========================

func TestUUIDGenerator_Unique(t *testing.T) {
	gen := UUIDGenerator{}
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id := gen.NextID(models.KindHealth)
		assert.Regexp(t, `^CLM-[0-9A-F]{8}$`, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Regexp(t, `^VCL-`, gen.NextID(models.KindVehicle))
}

func TestRandomScores_Range(t *testing.T) {
	scores := NewRandomScores(42)
	for i := 0; i < 1000; i++ {
		s := scores.NextScore()
		assert.GreaterOrEqual(t, s, ScoreFloor)
		assert.Less(t, s, ScoreCeiling)
	}
}

// ==========================
// Form Decoding
// ==========================

func TestFormValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw      string
		expected FormValue
		wantErr  bool
	}{
		{`{"amount":"250.50"}`, "250.50", false},
		{`{"amount":250.5}`, "250.5", false},
		{`{"amount":null}`, "", false},
		{`{"amount":true}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var in Input
			err := json.Unmarshal([]byte(tt.raw), &in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, in.Amount)
		})
	}
}
