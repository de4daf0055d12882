package driven

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// MediaCache persists the file handle of each downloaded binary across runs.
// Entries are never evicted by the sync itself.
type MediaCache interface {
	// Get returns the entry for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)

	// Set stores or overwrites the entry for key.
	Set(ctx context.Context, key string, entry domain.CacheEntry) error
}

// ClearableCache is a MediaCache that can drop every entry it holds.
type ClearableCache interface {
	MediaCache

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
