package domain

import (
	"fmt"
	"strings"
	"time"
)

// PaginationProtocol selects how the item listing is continued.
type PaginationProtocol string

// Supported continuation protocols.
const (
	// PaginationScroll reuses the scroll token of the first page until a page is empty.
	PaginationScroll PaginationProtocol = "scroll"

	// PaginationOffset advances an offset by the page size until totalResults is reached.
	PaginationOffset PaginationProtocol = "offset"
)

// ParsePaginationProtocol validates a configured protocol. Empty means scroll.
func ParsePaginationProtocol(s string) (PaginationProtocol, error) {
	switch p := PaginationProtocol(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PaginationScroll, nil
	case PaginationScroll, PaginationOffset:
		return p, nil
	default:
		return "", fmt.Errorf("%w: items.pagination must be scroll or offset, got %q", ErrInvalidInput, s)
	}
}

// Storage backends.
const (
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
	BackendRedis     = "redis"
	BackendMemcached = "memcached"
)

// Defaults applied when a setting is absent.
const (
	DefaultItemsLimit        = 100
	FallbackItemsLimit       = 10
	DefaultStaticRootDir     = "assets"
	DefaultStaticPublicDir   = "public"
	DefaultDebugDir          = ".data"
	DefaultFetchConcurrency  = 10
	DefaultRequestTimeout    = 60 * time.Second
	DefaultCacheKeyPrefix    = "ocesync:"
	DefaultMemcachedServer   = "127.0.0.1:11211"
	DefaultRedisAddr         = "127.0.0.1:6379"
	DefaultScrollQuery       = `(name ne ".*")`
	DefaultRegistryBackend   = BackendSQLite
	DefaultMediaCacheBackend = BackendSQLite
)

// OAuthSettings configures the client-credentials exchange.
type OAuthSettings struct {
	ClientID       string
	ClientSecret   string
	ClientScopeURL string
	IDPURL         string
}

// Complete reports whether every field needed for the exchange is set.
func (o OAuthSettings) Complete() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.ClientScopeURL != "" && o.IDPURL != ""
}

// Empty reports whether no field is set.
func (o OAuthSettings) Empty() bool {
	return o == OAuthSettings{}
}

// CacheSettings selects and configures the media cache backend.
type CacheSettings struct {
	Backend         string
	KeyPrefix       string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	MemcachedServer string
}

// SyncSettings is the resolved configuration of one sync run.
type SyncSettings struct {
	ContentServer string
	ChannelToken  string
	ProxyURL      string

	ItemsLimit int
	ItemsQuery string
	Pagination PaginationProtocol

	Renditions RenditionPolicy

	AuthStr string
	OAuth   OAuthSettings

	Preview bool

	StaticAssetDownload bool
	StaticAssetRootDir  string
	StaticPublicDir     string
	StaticURLPrefix     string

	Debug    bool
	DebugDir string

	FetchConcurrency  int
	MediaConcurrency  int
	RequestsPerSecond float64
	RequestTimeout    time.Duration

	DataDir         string
	RegistryBackend string
	Cache           CacheSettings
}

// Mode returns the content API mode segment.
func (s *SyncSettings) Mode() string {
	if s.Preview {
		return "preview"
	}
	return "published"
}

// PageSize returns the listing page size, falling back when unset.
func (s *SyncSettings) PageSize() int {
	if s.ItemsLimit > 0 {
		return s.ItemsLimit
	}
	return FallbackItemsLimit
}
