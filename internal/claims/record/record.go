// Package record builds validated claim records from submitted form input.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/validation"
	"claims-registry/internal/models"

	"github.com/google/uuid"
)

// Minimum lengths of typed form fields. Picked fields (hospital, category,
// model, damage type) only need to be present.
const (
	minTypedLength  = 2
	minPickedLength = 1
)

// Placeholder fraud scores fall in [ScoreFloor, ScoreCeiling).
const (
	ScoreFloor   = 10
	ScoreCeiling = 40
)

// FormValue accepts either a JSON string or a JSON number, as form posts and
// process variables disagree on how amounts are typed.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*v = FormValue(n.String())
	return nil
}

// Input is a claim submission. Kind picks which detail fields apply.
type Input struct {
	Kind        models.ClaimKind `json:"kind"`
	ID          string           `json:"id,omitempty"`
	Amount      FormValue        `json:"amount"`
	SubmittedOn string           `json:"submittedOn,omitempty"`

	PatientID       string `json:"patientId,omitempty"`
	PatientName     string `json:"patientName,omitempty"`
	HospitalName    string `json:"hospitalName,omitempty"`
	ServiceCategory string `json:"serviceCategory,omitempty"`

	PolicyID         string `json:"policyId,omitempty"`
	PolicyHolderName string `json:"policyHolderName,omitempty"`
	VehicleNumber    string `json:"vehicleNumber,omitempty"`
	VehicleModel     string `json:"vehicleModel,omitempty"`
	DamageType       string `json:"damageType,omitempty"`
}

// IDGenerator yields candidate claim ids for a kind.
type IDGenerator interface {
	NextID(kind models.ClaimKind) string
}

// ScoreSource yields placeholder fraud scores.
type ScoreSource interface {
	NextScore() int
}

// UUIDGenerator derives ids from a random uuid: CLM-XXXXXXXX or VCL-XXXXXXXX.
type UUIDGenerator struct{}

func (UUIDGenerator) NextID(kind models.ClaimKind) string {
	return Prefix(kind) + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Prefix returns the id prefix of a kind.
func Prefix(kind models.ClaimKind) string {
	switch kind {
	case models.KindVehicle:
		return "VCL-"
	default:
		return "CLM-"
	}
}

// RandomScores draws uniformly from [ScoreFloor, ScoreCeiling). Safe for
// concurrent use.
type RandomScores struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomScores seeds a score source; seed 0 uses a random seed.
func NewRandomScores(seed uint64) *RandomScores {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomScores{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *RandomScores) NextScore() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ScoreFloor + r.rng.IntN(ScoreCeiling-ScoreFloor)
}

// Factory turns validated input into claim records.
type Factory struct {
	IDs           IDGenerator
	Scores        ScoreSource
	Clock         func() time.Time
	DefaultStatus models.ClaimStatus
	DateLayout    string
}

// NewFactory returns a factory with uuid ids, random scores and the wall clock.
func NewFactory(defaultStatus models.ClaimStatus) *Factory {
	if !defaultStatus.Valid() {
		defaultStatus = models.StatusReviewing
	}
	return &Factory{
		IDs:           UUIDGenerator{},
		Scores:        NewRandomScores(0),
		Clock:         time.Now,
		DefaultStatus: defaultStatus,
		DateLayout:    models.DateLayout,
	}
}

// New dispatches on in.Kind.
func (f *Factory) New(in Input) (models.Claim, error) {
	switch in.Kind {
	case models.KindHealth:
		return f.NewHealthClaim(in)
	case models.KindVehicle:
		return f.NewVehicleClaim(in)
	default:
		var c validation.Collector
		c.Add("kind", validation.CodeInvalidEnumValue, "must be one of health, vehicle")
		return models.Claim{}, c.Err(apperrors.EntityClaim)
	}
}

// NewHealthClaim validates the health fields and returns a fresh record, or a
// *errors.ValidationError listing every failing field.
func (f *Factory) NewHealthClaim(in Input) (models.Claim, error) {
	var c validation.Collector
	details := &models.HealthDetails{
		PatientID:       c.Text("patientId", in.PatientID, minTypedLength),
		PatientName:     c.Text("patientName", in.PatientName, minTypedLength),
		HospitalName:    c.Text("hospitalName", in.HospitalName, minPickedLength),
		ServiceCategory: c.Text("serviceCategory", in.ServiceCategory, minPickedLength),
	}
	claim := f.common(&c, models.KindHealth, in)
	if err := c.Err(apperrors.EntityClaim); err != nil {
		return models.Claim{}, err
	}
	claim.Health = details
	return claim, nil
}

// NewVehicleClaim validates the vehicle fields and returns a fresh record, or a
// *errors.ValidationError listing every failing field.
func (f *Factory) NewVehicleClaim(in Input) (models.Claim, error) {
	var c validation.Collector
	details := &models.VehicleDetails{
		PolicyID:         c.Text("policyId", in.PolicyID, minTypedLength),
		PolicyHolderName: c.Text("policyHolderName", in.PolicyHolderName, minTypedLength),
		VehicleNumber:    strings.ToUpper(c.Text("vehicleNumber", in.VehicleNumber, minTypedLength)),
		VehicleModel:     c.Text("vehicleModel", in.VehicleModel, minPickedLength),
		DamageType:       c.Text("damageType", in.DamageType, minPickedLength),
	}
	claim := f.common(&c, models.KindVehicle, in)
	if err := c.Err(apperrors.EntityClaim); err != nil {
		return models.Claim{}, err
	}
	claim.Vehicle = details
	return claim, nil
}

func (f *Factory) common(c *validation.Collector, kind models.ClaimKind, in Input) models.Claim {
	amount := c.Amount("amount", string(in.Amount))

	submitted := models.NewDate(f.Clock())
	if d, ok := c.Date("submittedOn", in.SubmittedOn, f.DateLayout); ok {
		submitted = models.NewDate(d)
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = f.IDs.NextID(kind)
	}

	return models.Claim{
		ID:          id,
		Kind:        kind,
		Amount:      amount,
		SubmittedOn: submitted,
		Status:      f.DefaultStatus,
		FraudScore:  f.Scores.NextScore(),
	}
}
