package oce

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = domain.DefaultRequestTimeout

// apiVersion is the delivery API version segment.
const apiVersion = "v1.1"

// Config holds the connection settings of a Client.
type Config struct {
	// ContentServer is the server base URL, e.g. https://oce.example.com.
	ContentServer string

	// ChannelToken identifies the publishing channel.
	ChannelToken string

	// Preview selects the preview API instead of the published one.
	Preview bool

	// UserAgent is sent on every request.
	UserAgent string

	// RequestsPerSecond throttles requests. Zero means unthrottled.
	RequestsPerSecond float64
}

// ConfigFromSettings derives the client configuration from sync settings.
func ConfigFromSettings(s *domain.SyncSettings, userAgent string) Config {
	return Config{
		ContentServer:     s.ContentServer,
		ChannelToken:      s.ChannelToken,
		Preview:           s.Preview,
		UserAgent:         userAgent,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// apiBase returns {server}/content/{mode}/api/v1.1.
func (c Config) apiBase() string {
	mode := "published"
	if c.Preview {
		mode = "preview"
	}
	return strings.TrimRight(c.ContentServer, "/") + "/content/" + mode + "/api/" + apiVersion
}

// NewHTTPClient builds the HTTP client shared by the content client, the
// token exchange and remote file fetches. An empty proxyURL uses the
// environment's proxy settings.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	base := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL = strings.TrimSpace(proxyURL); proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("%w: proxyUrl: %v", domain.ErrInvalidInput, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%w: proxyUrl must be http or https, got %q", domain.ErrInvalidInput, proxyURL)
		}
		base.Proxy = http.ProxyURL(u)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Transport: base, Timeout: timeout}, nil
}
