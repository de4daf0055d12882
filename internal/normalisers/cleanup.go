package normalisers

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// CleanUp removes transport-only attributes.
type CleanUp struct{}

// Name returns the pass name.
func (CleanUp) Name() string { return "cleanUp" }

// Apply deletes links and createdDate.
func (CleanUp) Apply(_ context.Context, rec *domain.Record) ([]domain.Problem, error) {
	delete(rec.Attributes, domain.AttrLinks)
	delete(rec.Attributes, domain.AttrCreatedDate)
	return nil, nil
}
