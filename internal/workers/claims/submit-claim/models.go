// internal/workers/claims/submit-claim/models.go
package submitclaim

import (
	"claims-registry/internal/claims/present"
	"claims-registry/internal/claims/record"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/models"
)

type Input struct {
	SessionID string       `json:"sessionId"`
	Claim     record.Input `json:"claim"`
}

type Output struct {
	IsValid          bool                   `json:"isValid"`
	Claim            *models.Claim          `json:"claim,omitempty"`
	Row              *present.Row           `json:"row,omitempty"`
	ValidationErrors []apperrors.FieldError `json:"validationErrors"`
	Message          string                 `json:"message"`
}
