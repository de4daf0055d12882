package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/custodia-labs/ocesync/internal/adapters/driven/oauth"
	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// Ensure ClientCredentialsProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ClientCredentialsProvider)(nil)

// ClientCredentialsProvider obtains a bearer token with the OAuth
// client-credentials grant. The exchange happens once, on first use; the
// outcome (token or error) is reused for the rest of the run and is
// never refreshed.
type ClientCredentialsProvider struct {
	settings   domain.OAuthSettings
	httpClient *http.Client

	mu      sync.Mutex
	fetched bool
	value   string
	err     error
}

// NewClientCredentialsProvider creates a provider for complete OAuth settings.
func NewClientCredentialsProvider(settings domain.OAuthSettings, httpClient *http.Client) *ClientCredentialsProvider {
	return &ClientCredentialsProvider{
		settings:   settings,
		httpClient: httpClient,
	}
}

// GetToken returns "Bearer <access_token>".
func (p *ClientCredentialsProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fetched {
		return p.value, p.err
	}

	logger.Debug("auth: requesting client-credentials token from %s", p.settings.IDPURL)
	tok, err := oauth.ExchangeClientCredentials(ctx, p.httpClient, p.settings)
	p.fetched = true
	if err != nil {
		p.err = err
		return "", err
	}
	p.value = tok.AuthorizationValue()
	return p.value, nil
}

// AuthMethod returns AuthMethodOAuth.
func (p *ClientCredentialsProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodOAuth
}
