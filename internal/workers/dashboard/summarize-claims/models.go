// internal/workers/dashboard/summarize-claims/models.go
package summarizeclaims

import "claims-registry/internal/claims/dashboard"

type Input struct {
	SessionID string `json:"sessionId"`
}

type Output struct {
	SessionID string `json:"sessionId"`
	dashboard.Summary
}
