package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

func TestTokenURL(t *testing.T) {
	tests := []struct {
		name    string
		idp     string
		want    string
		wantErr bool
	}{
		{"host only", "https://idcs.example.com", "https://idcs.example.com/oauth2/v1/token", false},
		{"path replaced", "https://idcs.example.com/ui/v1/", "https://idcs.example.com/oauth2/v1/token", false},
		{"relative", "idcs.example.com", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenURL(tt.idp)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExchangeClientCredentials(t *testing.T) {
	var gotForm map[string]string
	var gotUser, gotPass string
	var gotBasic bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tokenPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		if !assert.NoError(t, r.ParseForm()) {
			return
		}
		gotForm = map[string]string{
			"grant_type": r.PostForm.Get("grant_type"),
			"scope":      r.PostForm.Get("scope"),
		}
		gotUser, gotPass, gotBasic = r.BasicAuth()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	tok, err := ExchangeClientCredentials(context.Background(), srv.Client(), domain.OAuthSettings{
		ClientID:       "client",
		ClientSecret:   "secret",
		ClientScopeURL: "https://oce.example.com/urn:opc:cec:all",
		IDPURL:         srv.URL,
	})
	require.NoError(t, err)

	assert.Equal(t, "tok-123", tok.AccessToken)
	assert.Equal(t, "Bearer tok-123", tok.AuthorizationValue())
	assert.Equal(t, "client_credentials", gotForm["grant_type"])
	assert.Equal(t, "https://oce.example.com/urn:opc:cec:all", gotForm["scope"])
	assert.True(t, gotBasic)
	assert.Equal(t, "client", gotUser)
	assert.Equal(t, "secret", gotPass)
}

func TestExchangeClientCredentials_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	_, err := ExchangeClientCredentials(context.Background(), srv.Client(), domain.OAuthSettings{
		ClientID:       "client",
		ClientSecret:   "wrong",
		ClientScopeURL: "scope",
		IDPURL:         srv.URL,
	})
	assert.ErrorIs(t, err, domain.ErrTokenRequestFailed)
}
