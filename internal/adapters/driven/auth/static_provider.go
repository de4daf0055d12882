package auth

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// Ensure StaticTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*StaticTokenProvider)(nil)

// StaticTokenProvider sends a caller-supplied Authorization value verbatim.
// The value usually carries its own scheme, e.g. "Bearer eyJ...".
type StaticTokenProvider struct {
	value string
}

// NewStaticTokenProvider creates a provider for a fixed authorization string.
func NewStaticTokenProvider(value string) *StaticTokenProvider {
	return &StaticTokenProvider{value: value}
}

// GetToken returns the configured value.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.value, nil
}

// AuthMethod returns AuthMethodStatic.
func (p *StaticTokenProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodStatic
}
