// Package oauth exchanges OAuth client credentials for a bearer token.
package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// tokenPath is the identity provider's token endpoint.
const tokenPath = "/oauth2/v1/token"

// TokenURL resolves the token endpoint against the identity provider URL.
// Any path on idpURL is replaced.
func TokenURL(idpURL string) (string, error) {
	base, err := url.Parse(strings.TrimSpace(idpURL))
	if err != nil {
		return "", fmt.Errorf("%w: idpUrl: %v", domain.ErrInvalidInput, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("%w: idpUrl must be absolute, got %q", domain.ErrInvalidInput, idpURL)
	}
	return base.ResolveReference(&url.URL{Path: tokenPath}).String(), nil
}

// ExchangeClientCredentials performs the client-credentials grant.
// The client id and secret are sent with HTTP Basic auth and the scope URL
// in the form body. A nil httpClient uses http.DefaultClient.
func ExchangeClientCredentials(
	ctx context.Context,
	httpClient *http.Client,
	settings domain.OAuthSettings,
) (*domain.OAuthToken, error) {
	tokenURL, err := TokenURL(settings.IDPURL)
	if err != nil {
		return nil, err
	}

	cfg := clientcredentials.Config{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{settings.ClientScopeURL},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	tok, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenRequestFailed, err)
	}

	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &domain.OAuthToken{AccessToken: tok.AccessToken, TokenType: tokenType}, nil
}
