package normalisers

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// Pass is one normalisation step applied to a single record.
// Returned problems are non-fatal; an error aborts normalisation.
type Pass interface {
	Name() string
	Apply(ctx context.Context, rec *domain.Record) ([]domain.Problem, error)
}

// Ensure Pipeline implements the interface.
var _ driven.Normaliser = (*Pipeline)(nil)

// Pipeline chains passes and runs each over the full record set in order.
type Pipeline struct {
	passes []Pass
}

// NewPipeline creates a pipeline with the given passes.
// Passes are executed in the order provided.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{
		passes: passes,
	}
}

// Default returns the standard pass sequence for a channel.
func Default(minter driven.IDMinter, channelToken string) *Pipeline {
	return NewPipeline(
		CleanUp{},
		StandardizeDates{},
		FixTypes{},
		DigitalAsset{},
		MoveFieldsUp{},
		NewCreateIDs(minter, channelToken),
	)
}

// Normalise drops null items, wraps the rest as records and runs every pass.
// A pass completes over all records before the next pass starts.
func (p *Pipeline) Normalise(ctx context.Context, items []domain.RawItem) ([]*domain.Record, []domain.Problem, error) {
	records := make([]*domain.Record, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, domain.NewRecord(item))
	}

	var problems []domain.Problem
	for _, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			return nil, problems, err
		}
		for _, rec := range records {
			found, err := pass.Apply(ctx, rec)
			if err != nil {
				return nil, problems, fmt.Errorf("pass %s: %w", pass.Name(), err)
			}
			problems = append(problems, found...)
		}
	}

	return records, problems, nil
}

// Add appends a pass to the pipeline.
func (p *Pipeline) Add(pass Pass) {
	p.passes = append(p.passes, pass)
}

// Len returns the number of passes in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.passes)
}

// Names returns the pass names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.passes))
	for _, pass := range p.passes {
		names = append(names, pass.Name())
	}
	return names
}
