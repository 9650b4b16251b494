// internal/workers/providers/query-providers/models.go
package queryproviders

import "claims-registry/internal/models"

type Input struct {
	SessionID    string                 `json:"sessionId"`
	ProviderType models.ProviderType    `json:"providerType"`
	Search       string                 `json:"search,omitempty"`
	SortKey      models.ProviderSortKey `json:"sortKey,omitempty"`
	Page         int                    `json:"page,omitempty"`
	PageSize     int                    `json:"pageSize,omitempty"`
}

type Output struct {
	ProviderType models.ProviderType    `json:"providerType"`
	Providers    []models.ProviderEntry `json:"providers"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"pageSize"`
	TotalPages   int                    `json:"totalPages"`
	TotalItems   int                    `json:"totalItems"`
	Sort         models.ProviderSort    `json:"sort"`
	Chart        []models.ChartPoint    `json:"chart"`
}
