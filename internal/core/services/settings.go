package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyContentServer       = "contentServer"
	KeyChannelToken        = "channelToken"
	KeyProxyURL            = "proxyUrl"
	KeyItemsLimit          = "items.limit"
	KeyItemsQuery          = "items.query"
	KeyItemsPagination     = "items.pagination"
	KeyRenditions          = "renditions"
	KeyAuthStr             = "authStr"
	KeyOAuthClientID       = "oAuthSettings.clientId"
	KeyOAuthClientSecret   = "oAuthSettings.clientSecret"
	KeyOAuthClientScopeURL = "oAuthSettings.clientScopeUrl"
	KeyOAuthIDPURL         = "oAuthSettings.idpUrl"
	KeyPreview             = "preview"
	KeyStaticDownload      = "staticAssetDownload"
	KeyStaticRootDir       = "staticAssetRootDir"
	KeyStaticPublicDir     = "staticPublicDir"
	KeyStaticURLPrefix     = "staticUrlPrefix"
	KeyDebug               = "debug"
	KeyDebugDir            = "debugDir"
	KeyFetchConcurrency    = "fetchConcurrency"
	KeyMediaConcurrency    = "mediaConcurrency"
	KeyRequestsPerSecond   = "requestsPerSecond"
	KeyRequestTimeout      = "requestTimeout"
	KeyDataDir             = "dataDir"
	KeyRegistryBackend     = "registry.backend"
	KeyCacheBackend        = "cache.backend"
	KeyCacheKeyPrefix      = "cache.keyPrefix"
	KeyCacheRedisAddr      = "cache.redisAddr"
	KeyCacheRedisPassword  = "cache.redisPassword"
	KeyCacheRedisDB        = "cache.redisDB"
	KeyCacheMemcached      = "cache.memcachedServer"
)

// LoadSettings resolves the run's settings from the config store, applying
// defaults for absent keys. Missing server or channel token are only warned
// about; they surface as transport errors on first use.
func LoadSettings(store driven.ConfigStore) (*domain.SyncSettings, error) {
	pagination, err := domain.ParsePaginationProtocol(store.GetString(KeyItemsPagination))
	if err != nil {
		return nil, err
	}
	renditions, err := domain.ParseRenditionPolicy(store.GetString(KeyRenditions))
	if err != nil {
		return nil, err
	}

	registryBackend := getString(store, KeyRegistryBackend, domain.DefaultRegistryBackend)
	if registryBackend != domain.BackendSQLite && registryBackend != domain.BackendMemory {
		return nil, fmt.Errorf("%w: %s %q: %w", domain.ErrInvalidInput, KeyRegistryBackend, registryBackend, domain.ErrUnsupportedBackend)
	}
	cacheBackend := getString(store, KeyCacheBackend, domain.DefaultMediaCacheBackend)
	switch cacheBackend {
	case domain.BackendSQLite, domain.BackendMemory, domain.BackendRedis, domain.BackendMemcached:
	default:
		return nil, fmt.Errorf("%w: %s %q: %w", domain.ErrInvalidInput, KeyCacheBackend, cacheBackend, domain.ErrUnsupportedBackend)
	}

	s := &domain.SyncSettings{
		ContentServer: store.GetString(KeyContentServer),
		ChannelToken:  store.GetString(KeyChannelToken),
		ProxyURL:      store.GetString(KeyProxyURL),

		ItemsLimit: itemsLimit(store),
		ItemsQuery: store.GetString(KeyItemsQuery),
		Pagination: pagination,

		Renditions: renditions,

		AuthStr: store.GetString(KeyAuthStr),
		OAuth: domain.OAuthSettings{
			ClientID:       store.GetString(KeyOAuthClientID),
			ClientSecret:   store.GetString(KeyOAuthClientSecret),
			ClientScopeURL: store.GetString(KeyOAuthClientScopeURL),
			IDPURL:         store.GetString(KeyOAuthIDPURL),
		},

		Preview: store.GetBool(KeyPreview),

		StaticAssetDownload: store.GetBool(KeyStaticDownload),
		StaticAssetRootDir:  getString(store, KeyStaticRootDir, domain.DefaultStaticRootDir),
		StaticPublicDir:     getString(store, KeyStaticPublicDir, domain.DefaultStaticPublicDir),
		StaticURLPrefix:     store.GetString(KeyStaticURLPrefix),

		Debug:    store.GetBool(KeyDebug),
		DebugDir: getString(store, KeyDebugDir, domain.DefaultDebugDir),

		FetchConcurrency:  getInt(store, KeyFetchConcurrency, domain.DefaultFetchConcurrency),
		MediaConcurrency:  store.GetInt(KeyMediaConcurrency),
		RequestsPerSecond: store.GetFloat(KeyRequestsPerSecond),
		RequestTimeout:    domain.DefaultRequestTimeout,

		DataDir:         getString(store, KeyDataDir, defaultDataDir()),
		RegistryBackend: registryBackend,
		Cache: domain.CacheSettings{
			Backend:         cacheBackend,
			KeyPrefix:       getString(store, KeyCacheKeyPrefix, domain.DefaultCacheKeyPrefix),
			RedisAddr:       getString(store, KeyCacheRedisAddr, domain.DefaultRedisAddr),
			RedisPassword:   store.GetString(KeyCacheRedisPassword),
			RedisDB:         store.GetInt(KeyCacheRedisDB),
			MemcachedServer: getString(store, KeyCacheMemcached, domain.DefaultMemcachedServer),
		},
	}
	if d := store.GetDuration(KeyRequestTimeout); d > 0 {
		s.RequestTimeout = d
	}
	if s.FetchConcurrency < 0 {
		s.FetchConcurrency = 0
	}
	if s.MediaConcurrency < 0 {
		s.MediaConcurrency = 0
	}

	if s.ContentServer == "" {
		logger.Warn("settings: %s is not set", KeyContentServer)
	}
	if s.ChannelToken == "" {
		logger.Warn("settings: %s is not set", KeyChannelToken)
	}
	return s, nil
}

// itemsLimit returns the default when the key is absent and the fallback
// when it is present but not positive.
func itemsLimit(store driven.ConfigStore) int {
	if _, ok := store.Get(KeyItemsLimit); !ok {
		return domain.DefaultItemsLimit
	}
	if n := store.GetInt(KeyItemsLimit); n > 0 {
		return n
	}
	return domain.FallbackItemsLimit
}

func getString(store driven.ConfigStore, key, def string) string {
	if v := store.GetString(key); v != "" {
		return v
	}
	return def
}

func getInt(store driven.ConfigStore, key string, def int) int {
	if _, ok := store.Get(key); !ok {
		return def
	}
	return store.GetInt(key)
}

// defaultDataDir returns ~/.ocesync/data.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ocesync", "data")
	}
	return filepath.Join(home, ".ocesync", "data")
}
