package seed

import (
	"os"
	"path/filepath"
	"testing"

	"claims-registry/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	assert.Len(t, set.Claims, 15)
	assert.Len(t, set.Hospitals, 8)
	assert.Len(t, set.Insurers, 15)

	first := set.Claims[0]
	assert.Equal(t, "CLM-2023456", first.ID)
	assert.Equal(t, models.KindHealth, first.Kind)
	assert.Equal(t, 3850.75, first.Amount)
	assert.Equal(t, "2023-06-15", first.SubmittedOn.String())
	require.NotNil(t, first.Health)
	assert.Equal(t, "Memorial Hospital", first.Health.HospitalName)

	var vehicles int
	for _, c := range set.Claims {
		if c.Kind == models.KindVehicle {
			vehicles++
			require.NotNil(t, c.Vehicle)
			assert.Nil(t, c.Health)
		}
	}
	assert.Equal(t, 5, vehicles)

	for _, p := range append(set.Hospitals, set.Insurers...) {
		assert.True(t, p.Consistent(), p.Name)
	}
	assert.Equal(t, "ICICI Lombard", set.Insurers[0].Name)
	assert.Equal(t, 3.4, set.Insurers[0].FraudRatePercent)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "bad date",
			yaml: `claims: [{id: CLM-1, kind: health, amount: 1, submittedOn: "15/06/2023", status: approved, patientId: P1, patientName: N, hospitalName: H, serviceCategory: S}]`,
			want: "parse date",
		},
		{
			name: "duplicate id",
			yaml: `claims:
  - {id: CLM-1, kind: health, amount: 1, submittedOn: "2023-06-15", status: approved, patientId: P1, patientName: N, hospitalName: H, serviceCategory: S}
  - {id: CLM-1, kind: health, amount: 2, submittedOn: "2023-06-15", status: approved, patientId: P1, patientName: N, hospitalName: H, serviceCategory: S}`,
			want: "duplicate id",
		},
		{
			name: "unknown status",
			yaml: `claims: [{id: CLM-1, kind: health, amount: 1, submittedOn: "2023-06-15", status: lost, patientId: P1, patientName: N, hospitalName: H, serviceCategory: S}]`,
			want: "status",
		},
		{
			name: "duplicate provider",
			yaml: `hospitals: [{id: 1, name: A}, {id: 1, name: B}]`,
			want: "duplicate provider id",
		},
		{
			name: "malformed",
			yaml: `claims: {`,
			want: "parse seed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
claims:
  - {id: VCL-9, kind: vehicle, amount: 10, submittedOn: "2024-01-02", status: pending, fraudScore: 5,
     policyId: POL-1, policyHolderName: Ann, vehicleNumber: AB12, vehicleModel: Swift, damageType: Dent}
insurers:
  - {id: 3, name: Acme, location: Pune, totalClaims: 10, approvedClaims: 9, suspiciousClaims: 1, rejectedClaims: 0, fraudRate: 1.5}
`), 0o644))

	set, err := Load(path)
	require.NoError(t, err)
	require.Len(t, set.Claims, 1)
	assert.Equal(t, "Swift", set.Claims[0].Vehicle.VehicleModel)
	assert.Empty(t, set.Hospitals)
	assert.Equal(t, 3, set.Insurers[0].ID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	set, err := Load("")
	require.NoError(t, err)
	assert.Len(t, set.Claims, 15)
}

func TestClone_IsDeep(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)

	cp := set.Clone()
	cp.Claims[0].Health.HospitalName = "Changed"
	cp.Hospitals[0].Name = "Changed"

	assert.Equal(t, "Memorial Hospital", set.Claims[0].Health.HospitalName)
	assert.Equal(t, "Memorial Hospital", set.Hospitals[0].Name)
}
