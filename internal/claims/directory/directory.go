// Package directory keeps the hospital and insurer lists shown beside the
// claims registry.
package directory

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"claims-registry/internal/claims/query"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/validation"
	"claims-registry/internal/models"
)

const (
	MinTextLength = 2

	approvedShare   = 0.90
	suspiciousShare = 0.07
	rejectedShare   = 0.03
)

// DefaultSort orders the busiest providers first.
var DefaultSort = models.ProviderSort{Key: models.ProviderSortTotalClaims, Direction: models.Descending}

// AddInput is the raw add-provider form.
type AddInput struct {
	Name        string
	Location    string
	TotalClaims string
	FraudRate   string
}

// Directory is one provider list with its current sort.
type Directory struct {
	mu      sync.RWMutex
	kind    models.ProviderType
	entries []models.ProviderEntry
	sort    models.ProviderSort
}

func New(kind models.ProviderType, entries []models.ProviderEntry) *Directory {
	return &Directory{
		kind:    kind,
		entries: slices.Clone(entries),
		sort:    DefaultSort,
	}
}

func (d *Directory) Type() models.ProviderType {
	return d.kind
}

// All returns the entries in insertion order.
func (d *Directory) All() []models.ProviderEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.entries)
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Add validates the form and appends a provider whose outcome counts are
// estimated from TotalClaims. The id is one past the current maximum.
func (d *Directory) Add(in AddInput) (models.ProviderEntry, error) {
	var v validation.Collector
	name := v.Text("name", in.Name, MinTextLength)
	location := v.Text("location", in.Location, MinTextLength)
	total := v.Int("totalClaims", in.TotalClaims, 0, math.MaxInt32)
	rate := v.Float("fraudRate", in.FraudRate, 0, 100)
	if err := v.Err(apperrors.EntityProvider); err != nil {
		return models.ProviderEntry{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	nextID := 1
	for _, e := range d.entries {
		if e.ID >= nextID {
			nextID = e.ID + 1
		}
	}

	entry := models.ProviderEntry{
		ID:               nextID,
		Name:             name,
		Location:         location,
		TotalClaims:      total,
		ApprovedCount:    share(total, approvedShare),
		SuspiciousCount:  share(total, suspiciousShare),
		RejectedCount:    share(total, rejectedShare),
		FraudRatePercent: rate,
	}
	d.entries = append(d.entries, entry)
	return entry, nil
}

// share rounds half away from zero.
func share(total int, fraction float64) int {
	return int(math.Round(float64(total) * fraction))
}

// Sort returns the current sort.
func (d *Directory) Sort() models.ProviderSort {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sort
}

// RequestSort toggles the sort like a column header: the active key flips,
// any other key starts ascending.
func (d *Directory) RequestSort(key models.ProviderSortKey) (models.ProviderSort, error) {
	if !key.Valid() {
		return models.ProviderSort{}, apperrors.NewInvalidQueryError(fmt.Sprintf("unknown provider sort key %q", key))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sort.Key == key {
		d.sort.Direction = d.sort.Direction.Flip()
	} else {
		d.sort = models.ProviderSort{Key: key, Direction: models.Ascending}
	}
	return d.sort, nil
}

// Query is a directory listing request.
type Query struct {
	Text     string
	SortKey  models.ProviderSortKey
	Page     int
	PageSize int
}

// Result is one page of a directory listing plus the chart of every match.
type Result struct {
	Type  models.ProviderType
	Page  query.Page[models.ProviderEntry]
	Sort  models.ProviderSort
	Chart []models.ChartPoint
}

// List applies an optional sort toggle, then searches, sorts and pages.
func (d *Directory) List(q Query) (Result, error) {
	if q.SortKey != "" {
		if _, err := d.RequestSort(q.SortKey); err != nil {
			return Result{}, err
		}
	}

	d.mu.RLock()
	matches := Search(d.entries, q.Text)
	spec := d.sort
	d.mu.RUnlock()

	sorted := SortEntries(matches, spec)
	return Result{
		Type:  d.kind,
		Page:  query.Paginate(sorted, q.PageSize, q.Page),
		Sort:  spec,
		Chart: ChartSeries(sorted),
	}, nil
}

// Search keeps entries whose name or location contains text, case-insensitively.
func Search(entries []models.ProviderEntry, text string) []models.ProviderEntry {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return slices.Clone(entries)
	}
	var out []models.ProviderEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), needle) || strings.Contains(strings.ToLower(e.Location), needle) {
			out = append(out, e)
		}
	}
	return out
}

// SortEntries returns a stably sorted copy.
func SortEntries(entries []models.ProviderEntry, spec models.ProviderSort) []models.ProviderEntry {
	out := slices.Clone(entries)
	compare := providerComparator(spec.Key)
	if spec.Direction == models.Descending {
		slices.SortStableFunc(out, func(a, b models.ProviderEntry) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

func providerComparator(key models.ProviderSortKey) func(a, b models.ProviderEntry) int {
	switch key {
	case models.ProviderSortName:
		return func(a, b models.ProviderEntry) int { return strings.Compare(a.Name, b.Name) }
	case models.ProviderSortLocation:
		return func(a, b models.ProviderEntry) int { return strings.Compare(a.Location, b.Location) }
	case models.ProviderSortApproved:
		return func(a, b models.ProviderEntry) int { return cmp.Compare(a.ApprovedCount, b.ApprovedCount) }
	case models.ProviderSortSuspicious:
		return func(a, b models.ProviderEntry) int { return cmp.Compare(a.SuspiciousCount, b.SuspiciousCount) }
	case models.ProviderSortRejected:
		return func(a, b models.ProviderEntry) int { return cmp.Compare(a.RejectedCount, b.RejectedCount) }
	case models.ProviderSortFraudRate:
		return func(a, b models.ProviderEntry) int { return cmp.Compare(a.FraudRatePercent, b.FraudRatePercent) }
	default:
		return func(a, b models.ProviderEntry) int { return cmp.Compare(a.TotalClaims, b.TotalClaims) }
	}
}

// ChartSeries projects entries onto the outcome bar chart.
func ChartSeries(entries []models.ProviderEntry) []models.ChartPoint {
	points := make([]models.ChartPoint, len(entries))
	for i, e := range entries {
		points[i] = models.ChartPoint{
			Name:       e.Name,
			Approved:   e.ApprovedCount,
			Suspicious: e.SuspiciousCount,
			Rejected:   e.RejectedCount,
		}
	}
	return points
}
