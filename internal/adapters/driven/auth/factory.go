package auth

import (
	"net/http"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// NewTokenProvider selects the provider for the run's settings.
// Complete OAuth settings override authStr. Partial OAuth settings are
// ignored with a warning. Without either, requests are unauthenticated.
func NewTokenProvider(settings *domain.SyncSettings, httpClient *http.Client) driven.TokenProvider {
	if settings.OAuth.Complete() {
		return NewClientCredentialsProvider(settings.OAuth, httpClient)
	}
	if !settings.OAuth.Empty() {
		logger.Warn("auth: oAuthSettings needs clientId, clientSecret, clientScopeUrl and idpUrl; ignoring it")
	}
	if settings.AuthStr != "" {
		return NewStaticTokenProvider(settings.AuthStr)
	}
	return NewNullTokenProvider()
}
