package present

import (
	"testing"

	"claims-registry/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAdapter_ToRow_Health(t *testing.T) {
	a := NewAdapter(Config{})
	row := a.ToRow(models.Claim{
		ID:          "CLM-2023456",
		Kind:        models.KindHealth,
		Amount:      3850.75,
		SubmittedOn: models.MustDate("2023-06-15"),
		Status:      models.StatusApproved,
		FraudScore:  12,
		Health: &models.HealthDetails{
			PatientID:       "PT-10045",
			HospitalName:    "Memorial Hospital",
			ServiceCategory: "General Surgery",
		},
	})

	assert.Equal(t, "CLM-2023456", row.IDLabel)
	assert.Equal(t, "Health", row.KindLabel)
	assert.Equal(t, "PT-10045", row.SubjectLabel)
	assert.Equal(t, "Memorial Hospital", row.ProviderLabel)
	assert.Equal(t, "General Surgery", row.CategoryLabel)
	assert.Equal(t, "$3,850.75", row.AmountFormatted)
	assert.Equal(t, "2023-06-15", row.DateFormatted)
	assert.Equal(t, "Approved", row.StatusLabel)
	assert.Equal(t, TierSuccess, row.StatusTier)
	assert.Equal(t, RiskLow, row.RiskTier)
	assert.False(t, row.Flagged)
}

func TestAdapter_ToRow_Vehicle(t *testing.T) {
	a := NewAdapter(Config{CurrencySymbol: "₹", DateLayout: "02 Jan 2006"})
	row := a.ToRow(models.Claim{
		ID:          "VCL-1001",
		Kind:        models.KindVehicle,
		Amount:      48250,
		SubmittedOn: models.MustDate("2023-06-12"),
		Status:      models.StatusReviewing,
		FraudScore:  71,
		Flagged:     true,
		Vehicle: &models.VehicleDetails{
			PolicyID:      "POL-7781",
			VehicleNumber: "MH02AB1234",
			VehicleModel:  "Honda City",
			DamageType:    "Collision",
		},
	})

	assert.Equal(t, "Vehicle", row.KindLabel)
	assert.Equal(t, "POL-7781", row.SubjectLabel)
	assert.Equal(t, "Honda City (MH02AB1234)", row.ProviderLabel)
	assert.Equal(t, "Collision", row.CategoryLabel)
	assert.Equal(t, "₹48,250.00", row.AmountFormatted)
	assert.Equal(t, "12 Jun 2023", row.DateFormatted)
	assert.Equal(t, TierWarning, row.StatusTier)
	assert.Equal(t, RiskHigh, row.RiskTier)
	assert.True(t, row.Flagged)
}

func TestFormatAmount(t *testing.T) {
	a := NewAdapter(Config{})
	assert.Equal(t, "$250.50", a.FormatAmount(250.5))
	assert.Equal(t, "$375.50", a.FormatAmount(375.5))
	assert.Equal(t, "$0.10", a.FormatAmount(0.1))
}

func TestStatusTierOf(t *testing.T) {
	tests := map[models.ClaimStatus]StatusTier{
		models.StatusApproved:  TierSuccess,
		models.StatusReviewing: TierWarning,
		models.StatusPending:   TierWarning,
		models.StatusRejected:  TierDanger,
		"archived":             TierNeutral,
	}
	for status, expected := range tests {
		assert.Equal(t, expected, StatusTierOf(status), string(status))
	}
}

func TestRiskTierOf_Boundaries(t *testing.T) {
	tests := []struct {
		score    int
		expected RiskTier
	}{
		{0, RiskLow},
		{29, RiskLow},
		{30, RiskMedium},
		{69, RiskMedium},
		{70, RiskHigh},
		{100, RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, RiskTierOf(tt.score), "score %d", tt.score)
	}
}

func TestLabels_UnknownKind(t *testing.T) {
	c := models.Claim{Kind: "boat"}
	assert.Equal(t, "Unknown", KindLabel(c.Kind))
	assert.Empty(t, ProviderLabel(c))
	assert.Empty(t, CategoryLabel(c))
	assert.Empty(t, SubjectLabel(c))
	assert.Empty(t, StatusLabel(""))
}
