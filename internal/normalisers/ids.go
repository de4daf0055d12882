package normalisers

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// CreateIDs replaces the server id with a registry id scoped to the channel.
type CreateIDs struct {
	minter       driven.IDMinter
	channelToken string
}

// NewCreateIDs creates the pass for one channel.
func NewCreateIDs(minter driven.IDMinter, channelToken string) *CreateIDs {
	return &CreateIDs{minter: minter, channelToken: channelToken}
}

// Name returns the pass name.
func (c *CreateIDs) Name() string { return "createIds" }

// Apply stores the server id as oceId and mints id from (oceId, channelToken).
func (c *CreateIDs) Apply(_ context.Context, rec *domain.Record) ([]domain.Problem, error) {
	if c.minter == nil {
		return nil, fmt.Errorf("%w: no id minter", domain.ErrInvalidInput)
	}
	oceID := rec.ID()
	rec.Attributes[domain.AttrOceID] = oceID
	rec.Attributes[domain.AttrID] = c.minter.MintID(IDSeed(oceID, c.channelToken))
	return nil, nil
}

// IDSeed returns the minting seed of a record.
func IDSeed(oceID, channelToken string) string {
	return "oce-" + oceID + "-" + channelToken
}
