package registry

import (
	"context"

	"claims-registry/internal/models"
)

// PageCache memoizes rendered views. A miss is (nil, false, nil).
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Indexer mirrors claims into a search index.
type Indexer interface {
	Index(ctx context.Context, sessionID string, c models.Claim) error
	Remove(ctx context.Context, sessionID, id string) error
}
