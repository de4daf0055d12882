package driven

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// TokenProvider supplies the credential sent with content-server requests.
// A provider is created per run; there is no refresh on expiry.
type TokenProvider interface {
	// GetToken returns the full Authorization header value.
	// Returns empty string when requests are unauthenticated.
	GetToken(ctx context.Context) (string, error)

	// AuthMethod returns the authentication method (oauth, static, none).
	AuthMethod() domain.AuthMethod
}
