package models

// ProviderType selects a directory.
type ProviderType string

const (
	ProviderHospital ProviderType = "hospital"
	ProviderInsurer  ProviderType = "insurer"
)

func (p ProviderType) Valid() bool {
	return p == ProviderHospital || p == ProviderInsurer
}

// ProviderEntry is one hospital or insurer in a directory. The outcome counts
// are expected, not required, to sum to at most TotalClaims.
type ProviderEntry struct {
	ID               int     `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	Location         string  `json:"location" yaml:"location"`
	TotalClaims      int     `json:"totalClaims" yaml:"totalClaims"`
	ApprovedCount    int     `json:"approvedClaims" yaml:"approvedClaims"`
	SuspiciousCount  int     `json:"suspiciousClaims" yaml:"suspiciousClaims"`
	RejectedCount    int     `json:"rejectedClaims" yaml:"rejectedClaims"`
	FraudRatePercent float64 `json:"fraudRate" yaml:"fraudRate"`
}

// Consistent reports whether the outcome counts fit within TotalClaims.
func (p ProviderEntry) Consistent() bool {
	if p.TotalClaims < 0 || p.ApprovedCount < 0 || p.SuspiciousCount < 0 || p.RejectedCount < 0 {
		return false
	}
	return p.ApprovedCount+p.SuspiciousCount+p.RejectedCount <= p.TotalClaims
}

// ProviderSortKey names a sortable directory column.
type ProviderSortKey string

const (
	ProviderSortName        ProviderSortKey = "name"
	ProviderSortLocation    ProviderSortKey = "location"
	ProviderSortTotalClaims ProviderSortKey = "totalClaims"
	ProviderSortApproved    ProviderSortKey = "approved"
	ProviderSortSuspicious  ProviderSortKey = "suspicious"
	ProviderSortRejected    ProviderSortKey = "rejected"
	ProviderSortFraudRate   ProviderSortKey = "fraudRate"
)

func (k ProviderSortKey) Valid() bool {
	switch k {
	case ProviderSortName, ProviderSortLocation, ProviderSortTotalClaims, ProviderSortApproved,
		ProviderSortSuspicious, ProviderSortRejected, ProviderSortFraudRate:
		return true
	}
	return false
}

type ProviderSort struct {
	Key       ProviderSortKey `json:"key"`
	Direction SortDirection   `json:"direction"`
}

// ChartPoint is one bar group of the directory chart.
type ChartPoint struct {
	Name       string `json:"name"`
	Approved   int    `json:"approved"`
	Suspicious int    `json:"suspicious"`
	Rejected   int    `json:"rejected"`
}
