// Package redis provides a media cache backed by a Redis server.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// Ensure MediaCache implements the interface.
var _ driven.ClearableCache = (*MediaCache)(nil)

// connectionTimeout bounds the initial ping.
const connectionTimeout = 5 * time.Second

// clearBatch is the SCAN count hint used by Clear.
const clearBatch = 500

// Config holds Redis connection settings.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// MediaCache stores cache entries as JSON strings under KeyPrefix.
type MediaCache struct {
	client *goredis.Client
	prefix string
}

// NewMediaCache connects to Redis and verifies the connection.
func NewMediaCache(cfg Config) (*MediaCache, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: redis address is required", domain.ErrInvalidInput)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewMediaCacheWithClient(client, cfg.KeyPrefix), nil
}

// NewMediaCacheWithClient wraps an existing client.
func NewMediaCacheWithClient(client *goredis.Client, prefix string) *MediaCache {
	return &MediaCache{client: client, prefix: prefix}
}

// Get retrieves the entry for key.
func (m *MediaCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	raw, err := m.client.Get(ctx, m.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return decodeEntry(raw)
}

// Set stores the entry for key without expiry.
func (m *MediaCache) Set(ctx context.Context, key string, entry domain.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := m.client.Set(ctx, m.prefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the cache prefix.
func (m *MediaCache) Clear(ctx context.Context) error {
	iter := m.client.Scan(ctx, 0, m.prefix+domain.MediaKeyPrefix+"*", clearBatch).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= clearBatch {
			if err := m.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		if err := m.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

// Close releases the client.
func (m *MediaCache) Close() error {
	return m.client.Close()
}

func decodeEntry(raw []byte) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}
