// internal/workers/claims/delete-claim/models.go
package deleteclaim

type Input struct {
	SessionID string `json:"sessionId"`
	ClaimID   string `json:"claimId"`
}

type Output struct {
	Found  bool   `json:"found"`
	Reason string `json:"reason,omitempty"`
}
