// Package dashboard aggregates a session's claims into overview figures.
package dashboard

import (
	"cmp"
	"math"
	"slices"

	"claims-registry/internal/claims/present"
	"claims-registry/internal/models"
)

// MaxAlerts caps the recent-alerts list.
const MaxAlerts = 5

type StatusCounts struct {
	Pending   int `json:"pending"`
	Reviewing int `json:"reviewing"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
}

type RiskCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

type KindCounts struct {
	Health  int `json:"health"`
	Vehicle int `json:"vehicle"`
}

// ProviderRow groups claims by hospital or vehicle.
type ProviderRow struct {
	Provider string  `json:"provider"`
	Claims   int     `json:"claims"`
	Flagged  int     `json:"flagged"`
	Amount   float64 `json:"amount"`
}

// DailyCount is the number of claims submitted on one date.
type DailyCount struct {
	Date    string `json:"date"`
	Claims  int    `json:"claims"`
	Flagged int    `json:"flagged"`
}

// Alert is a flagged claim worth a second look.
type Alert struct {
	ClaimID     string           `json:"claimId"`
	Provider    string           `json:"provider"`
	FraudScore  int              `json:"fraudScore"`
	RiskTier    present.RiskTier `json:"riskTier"`
	SubmittedOn string           `json:"submittedOn"`
}

type Summary struct {
	TotalClaims  int           `json:"totalClaims"`
	TotalAmount  float64       `json:"totalAmount"`
	Flagged      int           `json:"flagged"`
	ApprovalRate float64       `json:"approvalRate"`
	ByStatus     StatusCounts  `json:"byStatus"`
	ByRisk       RiskCounts    `json:"byRisk"`
	ByKind       KindCounts    `json:"byKind"`
	Providers    []ProviderRow `json:"providers"`
	Daily        []DailyCount  `json:"daily"`
	Alerts       []Alert       `json:"alerts"`
}

// Summarize computes the overview of records. ApprovalRate is the approved
// share of decided claims, as a percentage with one decimal.
func Summarize(records []models.Claim) Summary {
	s := Summary{
		TotalClaims: len(records),
		Providers:   []ProviderRow{},
		Daily:       []DailyCount{},
		Alerts:      []Alert{},
	}

	providers := map[string]*ProviderRow{}
	days := map[string]*DailyCount{}
	var flagged []models.Claim

	for _, c := range records {
		s.TotalAmount += c.Amount

		switch c.Status {
		case models.StatusPending:
			s.ByStatus.Pending++
		case models.StatusReviewing:
			s.ByStatus.Reviewing++
		case models.StatusApproved:
			s.ByStatus.Approved++
		case models.StatusRejected:
			s.ByStatus.Rejected++
		}

		switch present.RiskTierOf(c.FraudScore) {
		case present.RiskHigh:
			s.ByRisk.High++
		case present.RiskMedium:
			s.ByRisk.Medium++
		default:
			s.ByRisk.Low++
		}

		switch c.Kind {
		case models.KindHealth:
			s.ByKind.Health++
		case models.KindVehicle:
			s.ByKind.Vehicle++
		}

		label := present.ProviderLabel(c)
		p, ok := providers[label]
		if !ok {
			p = &ProviderRow{Provider: label}
			providers[label] = p
		}
		p.Claims++
		p.Amount += c.Amount

		date := c.SubmittedOn.String()
		d, ok := days[date]
		if !ok {
			d = &DailyCount{Date: date}
			days[date] = d
		}
		d.Claims++

		if c.Flagged {
			s.Flagged++
			p.Flagged++
			d.Flagged++
			flagged = append(flagged, c)
		}
	}

	if decided := s.ByStatus.Approved + s.ByStatus.Rejected; decided > 0 {
		s.ApprovalRate = math.Round(float64(s.ByStatus.Approved)*1000/float64(decided)) / 10
	}

	for _, p := range providers {
		s.Providers = append(s.Providers, *p)
	}
	slices.SortFunc(s.Providers, func(a, b ProviderRow) int {
		if c := cmp.Compare(b.Claims, a.Claims); c != 0 {
			return c
		}
		return cmp.Compare(a.Provider, b.Provider)
	})

	for _, d := range days {
		s.Daily = append(s.Daily, *d)
	}
	slices.SortFunc(s.Daily, func(a, b DailyCount) int { return cmp.Compare(a.Date, b.Date) })

	slices.SortStableFunc(flagged, func(a, b models.Claim) int {
		if c := b.SubmittedOn.Compare(a.SubmittedOn); c != 0 {
			return c
		}
		return cmp.Compare(b.FraudScore, a.FraudScore)
	})
	for _, c := range flagged[:min(len(flagged), MaxAlerts)] {
		s.Alerts = append(s.Alerts, Alert{
			ClaimID:     c.ID,
			Provider:    present.ProviderLabel(c),
			FraudScore:  c.FraudScore,
			RiskTier:    present.RiskTierOf(c.FraudScore),
			SubmittedOn: c.SubmittedOn.String(),
		})
	}
	return s
}
