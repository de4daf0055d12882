package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// mediaCache implements driven.ClearableCache.
type mediaCache struct {
	store *Store
}

var _ driven.ClearableCache = (*mediaCache)(nil)

// Get retrieves the entry for key.
func (c *mediaCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT file_node_id, updated_date FROM media_cache WHERE key = ?
	`, key)

	var entry domain.CacheEntry
	if err := row.Scan(&entry.FileNodeID, &entry.UpdatedDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning media cache entry: %w", err)
	}
	return &entry, nil
}

// Set stores or overwrites the entry for key.
func (c *mediaCache) Set(ctx context.Context, key string, entry domain.CacheEntry) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO media_cache (key, file_node_id, updated_date, written_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			file_node_id = excluded.file_node_id,
			updated_date = excluded.updated_date,
			written_at = excluded.written_at
	`, key, entry.FileNodeID, entry.UpdatedDate, c.store.now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving media cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (c *mediaCache) Clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM media_cache"); err != nil {
		return fmt.Errorf("clearing media cache: %w", err)
	}
	return nil
}
