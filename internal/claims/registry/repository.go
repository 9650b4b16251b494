package registry

import (
	"context"
	"slices"

	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/models"
)

// Repository stores one session's claims in display order, newest
// submission first. Implementations need not be safe for concurrent use;
// the Store serializes access.
type Repository interface {
	List(ctx context.Context) ([]models.Claim, error)
	// Get returns *errors.NotFoundError for an unknown id.
	Get(ctx context.Context, id string) (models.Claim, error)
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	// Prepend inserts c before every existing claim. A taken id yields
	// DUPLICATE_CLAIM_ID.
	Prepend(ctx context.Context, c models.Claim) error
	// Replace swaps the claim with c.ID in place.
	Replace(ctx context.Context, c models.Claim) error
	Delete(ctx context.Context, id string) error
}

// RepositoryFactory opens the repository of a session.
type RepositoryFactory interface {
	Open(ctx context.Context, sessionID string) (Repository, error)
}

// RepositoryFactoryFunc adapts a function to RepositoryFactory.
type RepositoryFactoryFunc func(ctx context.Context, sessionID string) (Repository, error)

func (f RepositoryFactoryFunc) Open(ctx context.Context, sessionID string) (Repository, error) {
	return f(ctx, sessionID)
}

// MemoryFactory gives every session its own empty MemoryRepository.
func MemoryFactory() RepositoryFactory {
	return RepositoryFactoryFunc(func(context.Context, string) (Repository, error) {
		return NewMemoryRepository(), nil
	})
}

// MemoryRepository keeps claims in a slice.
type MemoryRepository struct {
	claims []models.Claim
}

func NewMemoryRepository(claims ...models.Claim) *MemoryRepository {
	r := &MemoryRepository{claims: make([]models.Claim, 0, len(claims))}
	for _, c := range claims {
		r.claims = append(r.claims, c.Clone())
	}
	return r
}

func (r *MemoryRepository) indexOf(id string) int {
	return slices.IndexFunc(r.claims, func(c models.Claim) bool { return c.ID == id })
}

func (r *MemoryRepository) List(context.Context) ([]models.Claim, error) {
	out := make([]models.Claim, len(r.claims))
	for i, c := range r.claims {
		out[i] = c.Clone()
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (models.Claim, error) {
	i := r.indexOf(id)
	if i < 0 {
		return models.Claim{}, apperrors.NewNotFound(id)
	}
	return r.claims[i].Clone(), nil
}

func (r *MemoryRepository) Exists(_ context.Context, id string) (bool, error) {
	return r.indexOf(id) >= 0, nil
}

func (r *MemoryRepository) Count(context.Context) (int, error) {
	return len(r.claims), nil
}

func (r *MemoryRepository) Prepend(_ context.Context, c models.Claim) error {
	if r.indexOf(c.ID) >= 0 {
		return apperrors.NewDuplicateClaimIDError(c.ID)
	}
	r.claims = slices.Insert(r.claims, 0, c.Clone())
	return nil
}

func (r *MemoryRepository) Replace(_ context.Context, c models.Claim) error {
	i := r.indexOf(c.ID)
	if i < 0 {
		return apperrors.NewNotFound(c.ID)
	}
	r.claims[i] = c.Clone()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	i := r.indexOf(id)
	if i < 0 {
		return apperrors.NewNotFound(id)
	}
	r.claims = slices.Delete(r.claims, i, i+1)
	return nil
}
