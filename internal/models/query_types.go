package models

// Category is the tab filter of the claims table.
type Category string

const (
	CategoryAll       Category = "all"
	CategoryApproved  Category = "approved"
	CategoryReviewing Category = "reviewing"
	CategoryPending   Category = "pending"
	CategoryRejected  Category = "rejected"
	CategoryFlagged   Category = "flagged"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryAll, CategoryApproved, CategoryReviewing, CategoryPending, CategoryRejected, CategoryFlagged:
		return true
	}
	return false
}

// KindFilter restricts the table to one claim variant.
type KindFilter string

const (
	KindFilterAll     KindFilter = "all"
	KindFilterHealth  KindFilter = "health"
	KindFilterVehicle KindFilter = "vehicle"
)

func (k KindFilter) Valid() bool {
	return k == KindFilterAll || k == KindFilterHealth || k == KindFilterVehicle
}

// SortKey names a sortable claim column.
type SortKey string

const (
	SortByID         SortKey = "id"
	SortByProvider   SortKey = "provider"
	SortByCategory   SortKey = "category"
	SortByAmount     SortKey = "amount"
	SortByDate       SortKey = "date"
	SortByFraudScore SortKey = "fraudScore"
	SortByStatus     SortKey = "status"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortByID, SortByProvider, SortByCategory, SortByAmount, SortByDate, SortByFraudScore, SortByStatus:
		return true
	}
	return false
}

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

func (d SortDirection) Valid() bool {
	return d == Ascending || d == Descending
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

type SortSpec struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// QueryState is the full table query of a session.
type QueryState struct {
	Text     string     `json:"text"`
	Category Category   `json:"category"`
	Kind     KindFilter `json:"kind"`
	Sort     SortSpec   `json:"sort"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// DefaultQueryState shows every claim newest first.
func DefaultQueryState(pageSize int) QueryState {
	return QueryState{
		Category: CategoryAll,
		Kind:     KindFilterAll,
		Sort:     SortSpec{Key: SortByDate, Direction: Descending},
		Page:     1,
		PageSize: pageSize,
	}
}

// QueryPatch is a partial QueryState; nil fields are left unchanged.
type QueryPatch struct {
	Text     *string     `json:"text,omitempty"`
	Category *Category   `json:"category,omitempty"`
	Kind     *KindFilter `json:"kind,omitempty"`
	Sort     *SortSpec   `json:"sort,omitempty"`
	Page     *int        `json:"page,omitempty"`
	PageSize *int        `json:"pageSize,omitempty"`
}
