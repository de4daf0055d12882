package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

func TestMediaCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMediaCache()

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, cache.Set(ctx, "k", domain.CacheEntry{FileNodeID: "f", UpdatedDate: "d"}))
	entry, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "f", entry.FileNodeID)
	assert.Equal(t, 1, cache.Len())

	// Returned entries are copies.
	entry.FileNodeID = "changed"
	again, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "f", again.FileNodeID)

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Len())
}
