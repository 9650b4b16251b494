// Package present turns claim records into display rows.
package present

import (
	"fmt"
	"strings"

	"claims-registry/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// StatusTier is the badge colour of a status.
type StatusTier string

const (
	TierSuccess StatusTier = "success"
	TierWarning StatusTier = "warning"
	TierDanger  StatusTier = "danger"
	TierNeutral StatusTier = "neutral"
)

// RiskTier buckets a fraud score.
type RiskTier string

const (
	RiskLow    RiskTier = "low"
	RiskMedium RiskTier = "medium"
	RiskHigh   RiskTier = "high"
)

// Risk tier boundaries: below RiskMediumFrom is low, RiskHighFrom and above is high.
const (
	RiskMediumFrom = 30
	RiskHighFrom   = 70
)

// Row is one formatted table row.
type Row struct {
	ID              string     `json:"id"`
	IDLabel         string     `json:"idLabel"`
	Kind            string     `json:"kind"`
	KindLabel       string     `json:"kindLabel"`
	SubjectLabel    string     `json:"subjectLabel"`
	ProviderLabel   string     `json:"providerLabel"`
	CategoryLabel   string     `json:"categoryLabel"`
	AmountFormatted string     `json:"amountFormatted"`
	DateFormatted   string     `json:"dateFormatted"`
	Status          string     `json:"status"`
	StatusLabel     string     `json:"statusLabel"`
	StatusTier      StatusTier `json:"statusTier"`
	FraudScore      int        `json:"fraudScore"`
	RiskTier        RiskTier   `json:"riskTier"`
	Flagged         bool       `json:"flagged"`
}

// Config tunes formatting.
type Config struct {
	CurrencySymbol string
	DateLayout     string
	Language       language.Tag
}

// Adapter formats claims. Safe for concurrent use.
type Adapter struct {
	symbol  string
	layout  string
	printer *message.Printer
}

func NewAdapter(cfg Config) *Adapter {
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = "$"
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = models.DateLayout
	}
	if cfg.Language == language.Und {
		cfg.Language = language.English
	}
	return &Adapter{
		symbol:  cfg.CurrencySymbol,
		layout:  cfg.DateLayout,
		printer: message.NewPrinter(cfg.Language),
	}
}

// ToRow formats a claim.
func (a *Adapter) ToRow(c models.Claim) Row {
	return Row{
		ID:              c.ID,
		IDLabel:         c.ID,
		Kind:            string(c.Kind),
		KindLabel:       KindLabel(c.Kind),
		SubjectLabel:    SubjectLabel(c),
		ProviderLabel:   ProviderLabel(c),
		CategoryLabel:   CategoryLabel(c),
		AmountFormatted: a.FormatAmount(c.Amount),
		DateFormatted:   a.FormatDate(c.SubmittedOn),
		Status:          string(c.Status),
		StatusLabel:     StatusLabel(c.Status),
		StatusTier:      StatusTierOf(c.Status),
		FraudScore:      c.FraudScore,
		RiskTier:        RiskTierOf(c.FraudScore),
		Flagged:         c.Flagged,
	}
}

// ToRows formats claims in order.
func (a *Adapter) ToRows(claims []models.Claim) []Row {
	rows := make([]Row, 0, len(claims))
	for _, c := range claims {
		rows = append(rows, a.ToRow(c))
	}
	return rows
}

// FormatAmount renders a currency amount with two decimals and grouping.
func (a *Adapter) FormatAmount(v float64) string {
	return a.symbol + a.printer.Sprintf("%.2f", v)
}

func (a *Adapter) FormatDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(a.layout)
}

func KindLabel(k models.ClaimKind) string {
	switch k {
	case models.KindHealth:
		return "Health"
	case models.KindVehicle:
		return "Vehicle"
	default:
		return "Unknown"
	}
}

// SubjectLabel is who the claim is for: the patient or the policy.
func SubjectLabel(c models.Claim) string {
	switch c.Kind {
	case models.KindHealth:
		if c.Health != nil {
			return c.Health.PatientID
		}
	case models.KindVehicle:
		if c.Vehicle != nil {
			return c.Vehicle.PolicyID
		}
	}
	return ""
}

// ProviderLabel is the entity the claim is attributed to: the hospital, or the
// vehicle for motor claims.
func ProviderLabel(c models.Claim) string {
	switch c.Kind {
	case models.KindHealth:
		if c.Health != nil {
			return c.Health.HospitalName
		}
	case models.KindVehicle:
		if c.Vehicle != nil {
			return fmt.Sprintf("%s (%s)", c.Vehicle.VehicleModel, c.Vehicle.VehicleNumber)
		}
	}
	return ""
}

// CategoryLabel is the service category or damage type.
func CategoryLabel(c models.Claim) string {
	switch c.Kind {
	case models.KindHealth:
		if c.Health != nil {
			return c.Health.ServiceCategory
		}
	case models.KindVehicle:
		if c.Vehicle != nil {
			return c.Vehicle.DamageType
		}
	}
	return ""
}

func StatusLabel(s models.ClaimStatus) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func StatusTierOf(s models.ClaimStatus) StatusTier {
	switch s {
	case models.StatusApproved:
		return TierSuccess
	case models.StatusReviewing, models.StatusPending:
		return TierWarning
	case models.StatusRejected:
		return TierDanger
	default:
		return TierNeutral
	}
}

func RiskTierOf(score int) RiskTier {
	switch {
	case score < RiskMediumFrom:
		return RiskLow
	case score < RiskHighFrom:
		return RiskMedium
	default:
		return RiskHigh
	}
}
