package models

import (
	"fmt"
	"math"
	"strings"
)

// ClaimKind discriminates the claim variants.
type ClaimKind string

const (
	KindHealth  ClaimKind = "health"
	KindVehicle ClaimKind = "vehicle"
)

// Valid reports whether k names a known variant.
func (k ClaimKind) Valid() bool {
	return k == KindHealth || k == KindVehicle
}

// ClaimStatus is the review state of a claim.
type ClaimStatus string

const (
	StatusPending   ClaimStatus = "pending"
	StatusReviewing ClaimStatus = "reviewing"
	StatusApproved  ClaimStatus = "approved"
	StatusRejected  ClaimStatus = "rejected"
)

// AllStatuses lists statuses in lifecycle order.
var AllStatuses = []ClaimStatus{StatusPending, StatusReviewing, StatusApproved, StatusRejected}

func (s ClaimStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// HealthDetails are the fields of a medical claim.
type HealthDetails struct {
	PatientID       string `json:"patientId"`
	PatientName     string `json:"patientName"`
	HospitalName    string `json:"hospitalName"`
	ServiceCategory string `json:"serviceCategory"`
}

// VehicleDetails are the fields of a motor claim.
type VehicleDetails struct {
	PolicyID         string `json:"policyId"`
	PolicyHolderName string `json:"policyHolderName"`
	VehicleNumber    string `json:"vehicleNumber"`
	VehicleModel     string `json:"vehicleModel"`
	DamageType       string `json:"damageType"`
}

// Claim is a tagged variant: exactly one of Health or Vehicle is set, matching Kind.
// FraudScore is an opaque externally supplied number and Flagged is set
// independently of it.
type Claim struct {
	ID          string          `json:"id"`
	Kind        ClaimKind       `json:"kind"`
	Amount      float64         `json:"amount"`
	SubmittedOn Date            `json:"submittedOn"`
	Status      ClaimStatus     `json:"status"`
	FraudScore  int             `json:"fraudScore"`
	Flagged     bool            `json:"flagged"`
	Health      *HealthDetails  `json:"health,omitempty"`
	Vehicle     *VehicleDetails `json:"vehicle,omitempty"`
}

// Validate checks the record invariants. It does not check id uniqueness.
func (c Claim) Validate() error {
	var problems []string

	if strings.TrimSpace(c.ID) == "" {
		problems = append(problems, "id is empty")
	}
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) || c.Amount <= 0 {
		problems = append(problems, "amount must be positive")
	}
	if c.FraudScore < 0 || c.FraudScore > 100 {
		problems = append(problems, "fraudScore must be within 0..100")
	}
	if !c.Status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown status %q", c.Status))
	}
	if c.SubmittedOn.IsZero() {
		problems = append(problems, "submittedOn is empty")
	}

	switch c.Kind {
	case KindHealth:
		if c.Health == nil || c.Vehicle != nil {
			problems = append(problems, "health claim must carry only health details")
		}
	case KindVehicle:
		if c.Vehicle == nil || c.Health != nil {
			problems = append(problems, "vehicle claim must carry only vehicle details")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown kind %q", c.Kind))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid claim %s: %s", c.ID, strings.Join(problems, "; "))
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias stored details.
func (c Claim) Clone() Claim {
	out := c
	if c.Health != nil {
		h := *c.Health
		out.Health = &h
	}
	if c.Vehicle != nil {
		v := *c.Vehicle
		out.Vehicle = &v
	}
	return out
}
