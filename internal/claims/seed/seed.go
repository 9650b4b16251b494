// Package seed loads the claims and provider directories a new registry
// session starts with.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"claims-registry/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Set is the data a session starts with. Claims keep their file order.
type Set struct {
	Claims    []models.Claim
	Hospitals []models.ProviderEntry
	Insurers  []models.ProviderEntry
}

type file struct {
	Claims    []claimEntry           `yaml:"claims"`
	Hospitals []models.ProviderEntry `yaml:"hospitals"`
	Insurers  []models.ProviderEntry `yaml:"insurers"`
}

// claimEntry is the flat yaml form of a claim.
type claimEntry struct {
	ID          string  `yaml:"id"`
	Kind        string  `yaml:"kind"`
	Amount      float64 `yaml:"amount"`
	SubmittedOn string  `yaml:"submittedOn"`
	Status      string  `yaml:"status"`
	FraudScore  int     `yaml:"fraudScore"`
	Flagged     bool    `yaml:"flagged"`

	PatientID       string `yaml:"patientId"`
	PatientName     string `yaml:"patientName"`
	HospitalName    string `yaml:"hospitalName"`
	ServiceCategory string `yaml:"serviceCategory"`

	PolicyID         string `yaml:"policyId"`
	PolicyHolderName string `yaml:"policyHolderName"`
	VehicleNumber    string `yaml:"vehicleNumber"`
	VehicleModel     string `yaml:"vehicleModel"`
	DamageType       string `yaml:"damageType"`
}

func (e claimEntry) toClaim() (models.Claim, error) {
	date, err := models.ParseDate(e.SubmittedOn)
	if err != nil {
		return models.Claim{}, err
	}

	c := models.Claim{
		ID:          e.ID,
		Kind:        models.ClaimKind(e.Kind),
		Amount:      e.Amount,
		SubmittedOn: date,
		Status:      models.ClaimStatus(e.Status),
		FraudScore:  e.FraudScore,
		Flagged:     e.Flagged,
	}
	switch c.Kind {
	case models.KindHealth:
		c.Health = &models.HealthDetails{
			PatientID:       e.PatientID,
			PatientName:     e.PatientName,
			HospitalName:    e.HospitalName,
			ServiceCategory: e.ServiceCategory,
		}
	case models.KindVehicle:
		c.Vehicle = &models.VehicleDetails{
			PolicyID:         e.PolicyID,
			PolicyHolderName: e.PolicyHolderName,
			VehicleNumber:    e.VehicleNumber,
			VehicleModel:     e.VehicleModel,
			DamageType:       e.DamageType,
		}
	}
	return c, c.Validate()
}

// Default returns the embedded seed set.
func Default() (*Set, error) {
	return Parse(defaultSeed)
}

// Load reads a seed file; an empty path yields the embedded set.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates seed yaml. Claim ids must be unique.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	set := &Set{
		Claims:    make([]models.Claim, 0, len(f.Claims)),
		Hospitals: f.Hospitals,
		Insurers:  f.Insurers,
	}

	seen := make(map[string]bool, len(f.Claims))
	for i, entry := range f.Claims {
		c, err := entry.toClaim()
		if err != nil {
			return nil, fmt.Errorf("seed claim %d (%s): %w", i, entry.ID, err)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("seed claim %d: duplicate id %s", i, c.ID)
		}
		seen[c.ID] = true
		set.Claims = append(set.Claims, c)
	}

	for _, dir := range []struct {
		name    string
		entries []models.ProviderEntry
	}{{"hospitals", set.Hospitals}, {"insurers", set.Insurers}} {
		if err := checkProviders(dir.entries); err != nil {
			return nil, fmt.Errorf("seed %s: %w", dir.name, err)
		}
	}
	return set, nil
}

func checkProviders(entries []models.ProviderEntry) error {
	ids := make(map[int]bool, len(entries))
	for _, p := range entries {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("provider %d has no name", p.ID)
		}
		if ids[p.ID] {
			return fmt.Errorf("duplicate provider id %d", p.ID)
		}
		ids[p.ID] = true
	}
	return nil
}

// Clone returns a deep copy so sessions never share claim pointers.
func (s *Set) Clone() *Set {
	out := &Set{
		Claims:    make([]models.Claim, len(s.Claims)),
		Hospitals: append([]models.ProviderEntry(nil), s.Hospitals...),
		Insurers:  append([]models.ProviderEntry(nil), s.Insurers...),
	}
	for i, c := range s.Claims {
		out.Claims[i] = c.Clone()
	}
	return out
}
