package memory

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// Ensure MediaCache implements the interface.
var _ driven.ClearableCache = (*MediaCache)(nil)

// MediaCache is a process-local media cache. Entries never expire.
type MediaCache struct {
	c *gocache.Cache
}

// NewMediaCache creates an empty in-memory media cache.
func NewMediaCache() *MediaCache {
	return &MediaCache{c: gocache.New(gocache.NoExpiration, 0)}
}

// Get retrieves the entry for key.
func (m *MediaCache) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	entry := v.(domain.CacheEntry)
	return &entry, nil
}

// Set stores or overwrites the entry for key.
func (m *MediaCache) Set(_ context.Context, key string, entry domain.CacheEntry) error {
	m.c.Set(key, entry, gocache.NoExpiration)
	return nil
}

// Clear removes all entries.
func (m *MediaCache) Clear(_ context.Context) error {
	m.c.Flush()
	return nil
}

// Len returns the number of entries.
func (m *MediaCache) Len() int {
	return m.c.ItemCount()
}
