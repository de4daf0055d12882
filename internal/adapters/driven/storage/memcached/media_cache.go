// Package memcached provides a media cache backed by memcached.
//
// Memcached cannot enumerate keys, so Clear is not supported. Entries are
// stored without expiry but may still be evicted by the server under memory
// pressure, which only costs a re-download.
package memcached

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/zeebo/xxh3"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// Ensure MediaCache implements the interface.
var _ driven.MediaCache = (*MediaCache)(nil)

// maxKeyLength is the memcached protocol limit.
const maxKeyLength = 250

// hashedKeyMarker prefixes digests of keys memcached would reject.
const hashedKeyMarker = "xxh3-"

// MediaCache stores cache entries as JSON values.
type MediaCache struct {
	client *memcache.Client
	prefix string
}

// NewMediaCache creates a cache talking to the given servers.
func NewMediaCache(prefix string, servers ...string) (*MediaCache, error) {
	if len(servers) == 0 {
		return nil, fmt.Errorf("%w: at least one memcached server is required", domain.ErrInvalidInput)
	}
	return &MediaCache{client: memcache.New(servers...), prefix: prefix}, nil
}

// Get retrieves the entry for key.
func (m *MediaCache) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	k, err := m.key(key)
	if err != nil {
		return nil, err
	}

	item, err := m.client.Get(k)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("memcached get %s: %w", key, err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(item.Value, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

// Set stores the entry for key.
func (m *MediaCache) Set(_ context.Context, key string, entry domain.CacheEntry) error {
	k, err := m.key(key)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := m.client.Set(&memcache.Item{Key: k, Value: raw}); err != nil {
		return fmt.Errorf("memcached set %s: %w", key, err)
	}
	return nil
}

// Ping checks that every server is reachable.
func (m *MediaCache) Ping() error {
	return m.client.Ping()
}

// key maps a cache key onto a valid memcached key. Keys that are too long
// or contain whitespace or control characters are replaced by their xxh3
// digest under the same prefix.
func (m *MediaCache) key(key string) (string, error) {
	k := m.prefix + key
	if validKey(k) {
		return k, nil
	}
	sum := xxh3.HashString128(key).Bytes()
	k = m.prefix + hashedKeyMarker + hex.EncodeToString(sum[:])
	if !validKey(k) {
		return "", fmt.Errorf("%w: cache key prefix %q is not a valid memcached key", domain.ErrInvalidInput, m.prefix)
	}
	return k, nil
}

func validKey(k string) bool {
	if len(k) == 0 || len(k) > maxKeyLength {
		return false
	}
	for i := 0; i < len(k); i++ {
		if c := k[i]; c <= ' ' || c == 0x7f {
			return false
		}
	}
	return true
}
