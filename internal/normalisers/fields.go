package normalisers

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// MoveFieldsUp flattens a record's fields onto its top level.
type MoveFieldsUp struct{}

// Name returns the pass name.
func (MoveFieldsUp) Name() string { return "moveFieldsUp" }

// Apply merges every field into the top level and removes fields.
// A field that lands on an existing or reserved attribute overwrites it
// and is reported as a collision.
func (MoveFieldsUp) Apply(_ context.Context, rec *domain.Record) ([]domain.Problem, error) {
	fields := rec.Map(domain.AttrFields)
	delete(rec.Attributes, domain.AttrFields)
	if fields == nil {
		return nil, nil
	}

	var problems []domain.Problem
	for key, value := range fields {
		if _, exists := rec.Attributes[key]; exists || domain.IsReserved(key) {
			err := &domain.FieldCollisionError{RecordID: rec.ID(), Field: key}
			logger.Warn("moveFieldsUp: %v", err)
			problems = append(problems, domain.Problem{
				Kind:   domain.ErrorKindCollision,
				Op:     "moveFieldsUp",
				Target: rec.ID(),
				Err:    err,
			})
		}
		rec.Attributes[key] = value
	}

	return problems, nil
}
