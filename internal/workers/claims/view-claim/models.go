// internal/workers/claims/view-claim/models.go
package viewclaim

import (
	"claims-registry/internal/claims/present"
	"claims-registry/internal/models"
)

// Input selects ClaimID, or closes the detail panel when Close is set.
type Input struct {
	SessionID string `json:"sessionId"`
	ClaimID   string `json:"claimId,omitempty"`
	Close     bool   `json:"close,omitempty"`
}

type Output struct {
	Found  bool          `json:"found"`
	Claim  *models.Claim `json:"claim,omitempty"`
	Row    *present.Row  `json:"row,omitempty"`
	Reason string        `json:"reason,omitempty"`

	// SelectedID is the claim still open in the detail panel after a miss.
	SelectedID string `json:"selectedId,omitempty"`
}
