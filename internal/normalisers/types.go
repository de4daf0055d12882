package normalisers

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// FixTypes indexes every record under the shared discriminator and
// resolves its asset kind.
type FixTypes struct{}

// Name returns the pass name.
func (FixTypes) Name() string { return "fixTypes" }

// Apply moves type to oceType, aliases fields as oceFields and sets the
// discriminator. oceFields and fields are the same map afterwards.
func (FixTypes) Apply(_ context.Context, rec *domain.Record) ([]domain.Problem, error) {
	attrs := rec.Attributes

	attrs[domain.AttrOceType] = attrs[domain.AttrType]
	if fields, ok := attrs[domain.AttrFields]; ok {
		attrs[domain.AttrOceFields] = fields
	}
	attrs[domain.AttrType] = domain.AssetTypeName

	rec.Kind = domain.Classify(rec.String(domain.AttrTypeCategory), rec.String(domain.AttrOceType))
	return nil, nil
}
