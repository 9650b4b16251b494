// Package query filters, sorts and pages claim records. Every function is pure:
// inputs are never modified and results are fresh slices.
package query

import (
	"cmp"
	"slices"
	"strings"

	"claims-registry/internal/claims/present"
	"claims-registry/internal/models"
)

// FilterByText keeps claims whose searchable fields contain text,
// case-insensitively. Empty text keeps everything.
func FilterByText(records []models.Claim, text string) []models.Claim {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return slices.Clone(records)
	}
	out := make([]models.Claim, 0, len(records))
	for _, c := range records {
		for _, field := range searchFields(c) {
			if strings.Contains(strings.ToLower(field), needle) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func searchFields(c models.Claim) []string {
	switch c.Kind {
	case models.KindHealth:
		if c.Health != nil {
			return []string{c.ID, c.Health.HospitalName, c.Health.ServiceCategory, c.Health.PatientID}
		}
	case models.KindVehicle:
		if c.Vehicle != nil {
			return []string{c.ID, c.Vehicle.VehicleNumber, c.Vehicle.VehicleModel, c.Vehicle.PolicyID}
		}
	}
	return []string{c.ID}
}

// FilterByCategory keeps claims in a tab. Flagged matches on the flag alone.
func FilterByCategory(records []models.Claim, category models.Category) []models.Claim {
	if category == "" || category == models.CategoryAll {
		return slices.Clone(records)
	}
	out := make([]models.Claim, 0, len(records))
	for _, c := range records {
		if category == models.CategoryFlagged {
			if c.Flagged {
				out = append(out, c)
			}
			continue
		}
		if string(c.Status) == string(category) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByKind keeps one claim variant.
func FilterByKind(records []models.Claim, kind models.KindFilter) []models.Claim {
	if kind == "" || kind == models.KindFilterAll {
		return slices.Clone(records)
	}
	out := make([]models.Claim, 0, len(records))
	for _, c := range records {
		if string(c.Kind) == string(kind) {
			out = append(out, c)
		}
	}
	return out
}

// SortBy orders claims stably by key. Claims with equal keys keep their
// relative order in both directions.
func SortBy(records []models.Claim, key models.SortKey, dir models.SortDirection) []models.Claim {
	out := slices.Clone(records)
	compare := comparator(key)
	if dir == models.Descending {
		slices.SortStableFunc(out, func(a, b models.Claim) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

func comparator(key models.SortKey) func(a, b models.Claim) int {
	switch key {
	case models.SortByProvider:
		return func(a, b models.Claim) int { return strings.Compare(present.ProviderLabel(a), present.ProviderLabel(b)) }
	case models.SortByCategory:
		return func(a, b models.Claim) int { return strings.Compare(present.CategoryLabel(a), present.CategoryLabel(b)) }
	case models.SortByAmount:
		return func(a, b models.Claim) int { return cmp.Compare(a.Amount, b.Amount) }
	case models.SortByDate:
		return func(a, b models.Claim) int { return a.SubmittedOn.Compare(b.SubmittedOn) }
	case models.SortByFraudScore:
		return func(a, b models.Claim) int { return cmp.Compare(a.FraudScore, b.FraudScore) }
	case models.SortByStatus:
		return func(a, b models.Claim) int { return strings.Compare(string(a.Status), string(b.Status)) }
	default:
		return func(a, b models.Claim) int { return strings.Compare(a.ID, b.ID) }
	}
}

// NextSort applies a header click: the same key flips direction, a new key
// starts ascending.
func NextSort(current models.SortSpec, key models.SortKey) models.SortSpec {
	if current.Key == key {
		return models.SortSpec{Key: key, Direction: current.Direction.Flip()}
	}
	return models.SortSpec{Key: key, Direction: models.Ascending}
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// Paginate returns the 1-indexed page, clamped to [1, TotalPages]. An empty
// input still has one (empty) page. pageSize below 1 puts everything on one page.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	n := len(items)
	if pageSize < 1 {
		pageSize = max(n, 1)
	}
	totalPages := max(1, (n+pageSize-1)/pageSize)
	page = min(max(page, 1), totalPages)

	start := min((page-1)*pageSize, n)
	end := min(start+pageSize, n)

	return Page[T]{
		Items:      slices.Clone(items[start:end]),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: n,
	}
}

// Result is the outcome of Apply.
type Result struct {
	Page          Page[models.Claim]
	FilteredCount int
	TotalCount    int
}

// Apply runs text, category and kind filters, then sorts and pages.
func Apply(records []models.Claim, state models.QueryState) Result {
	filtered := FilterByKind(FilterByCategory(FilterByText(records, state.Text), state.Category), state.Kind)
	sorted := SortBy(filtered, state.Sort.Key, state.Sort.Direction)
	return Result{
		Page:          Paginate(sorted, state.PageSize, state.Page),
		FilteredCount: len(filtered),
		TotalCount:    len(records),
	}
}
