package registry

import (
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/models"
)

var allowedTransitions = map[models.ClaimStatus][]models.ClaimStatus{
	models.StatusPending:   {models.StatusReviewing},
	models.StatusReviewing: {models.StatusApproved, models.StatusRejected},
}

// CheckTransition allows pending to reviewing and reviewing to a decision.
// Keeping the same status is always allowed.
func CheckTransition(from, to models.ClaimStatus) error {
	if from == to {
		return nil
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apperrors.NewInvalidStatusTransitionError(string(from), string(to))
}
