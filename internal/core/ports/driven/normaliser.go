package driven

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// Normaliser converts fetched items into canonical records.
type Normaliser interface {
	// Normalise runs every pass over the item set. Null items are dropped.
	// Problems are non-fatal findings; an error aborts the sync.
	Normalise(ctx context.Context, items []domain.RawItem) ([]*domain.Record, []domain.Problem, error)
}
