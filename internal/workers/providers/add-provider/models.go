// internal/workers/providers/add-provider/models.go
package addprovider

import (
	"claims-registry/internal/claims/directory"
	"claims-registry/internal/claims/record"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/models"
)

type Input struct {
	SessionID    string              `json:"sessionId"`
	ProviderType models.ProviderType `json:"providerType"`
	Name         string              `json:"name"`
	Location     string              `json:"location"`
	TotalClaims  record.FormValue    `json:"totalClaims"`
	FraudRate    record.FormValue    `json:"fraudRate"`
}

func (in Input) form() directory.AddInput {
	return directory.AddInput{
		Name:        in.Name,
		Location:    in.Location,
		TotalClaims: string(in.TotalClaims),
		FraudRate:   string(in.FraudRate),
	}
}

type Output struct {
	IsValid          bool                   `json:"isValid"`
	Provider         *models.ProviderEntry  `json:"provider,omitempty"`
	ValidationErrors []apperrors.FieldError `json:"validationErrors"`
	Message          string                 `json:"message"`
}
