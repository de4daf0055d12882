package domain

// AuthMethod identifies how requests to the content server are authorised.
type AuthMethod string

const (
	// AuthMethodNone sends no Authorization header.
	AuthMethodNone AuthMethod = "none"

	// AuthMethodStatic sends a caller-supplied Authorization value verbatim.
	AuthMethodStatic AuthMethod = "static"

	// AuthMethodOAuth sends a bearer token obtained via client credentials.
	AuthMethodOAuth AuthMethod = "oauth"
)

// OAuthToken is the result of a client-credentials exchange.
type OAuthToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
}

// AuthorizationValue returns the Authorization header value for the token.
func (t *OAuthToken) AuthorizationValue() string {
	if t == nil || t.AccessToken == "" {
		return ""
	}
	return "Bearer " + t.AccessToken
}
