// internal/workers/claims/update-claim/models.go
package updateclaim

import (
	"claims-registry/internal/claims/present"
	"claims-registry/internal/models"
)

type Input struct {
	SessionID string       `json:"sessionId"`
	ClaimID   string       `json:"claimId"`
	Claim     models.Claim `json:"claim"`
}

type Output struct {
	Found  bool          `json:"found"`
	Claim  *models.Claim `json:"claim,omitempty"`
	Row    *present.Row  `json:"row,omitempty"`
	Reason string        `json:"reason,omitempty"`
}
