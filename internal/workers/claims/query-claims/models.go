// internal/workers/claims/query-claims/models.go
package queryclaims

import (
	"claims-registry/internal/claims/registry"
	"claims-registry/internal/models"
)

// Input patches the session query, then optionally toggles the sort like a
// header click.
type Input struct {
	SessionID string            `json:"sessionId"`
	Query     models.QueryPatch `json:"query"`
	SortKey   models.SortKey    `json:"sortKey,omitempty"`
}

type Output struct {
	registry.View
}
