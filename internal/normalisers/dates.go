package normalisers

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// StandardizeDates unwraps {value, timezone} date pairs to their ISO-8601 value.
type StandardizeDates struct{}

// Name returns the pass name.
func (StandardizeDates) Name() string { return "standardizeDates" }

// Apply unwraps updatedDate and every date-shaped field value.
// Array-valued fields are unwrapped element-wise. Null field values are dropped.
func (StandardizeDates) Apply(_ context.Context, rec *domain.Record) ([]domain.Problem, error) {
	if v, ok := domain.UnwrapDate(rec.Attributes[domain.AttrUpdatedDate]); ok {
		rec.Attributes[domain.AttrUpdatedDate] = v
	}

	fields := rec.Map(domain.AttrFields)
	for key, value := range fields {
		switch v := value.(type) {
		case nil:
			delete(fields, key)
		case []any:
			for i, elem := range v {
				if date, ok := domain.UnwrapDate(elem); ok {
					v[i] = date
				}
			}
		default:
			if date, ok := domain.UnwrapDate(v); ok {
				fields[key] = date
			}
		}
	}

	return nil, nil
}
