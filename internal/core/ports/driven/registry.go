package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// IDMinter derives deterministic node ids.
type IDMinter interface {
	// MintID returns the same id for the same seed on every call and every run.
	MintID(seed string) string
}

// NodeRegistry holds materialised nodes and their parent/child edges.
type NodeRegistry interface {
	IDMinter

	// CreateNode registers or replaces a node and marks it touched.
	CreateNode(ctx context.Context, node *domain.Node) error

	// TouchNode marks an existing node as still referenced by this run.
	// Returns domain.ErrNotFound for unknown ids.
	TouchNode(ctx context.Context, id string) error

	// LinkParentChild records an edge between two registered nodes.
	LinkParentChild(ctx context.Context, parentID, childID string) error

	// GetNode returns a node by id, or domain.ErrNotFound.
	GetNode(ctx context.Context, id string) (*domain.Node, error)

	// ListNodes returns all nodes of a type, or every node when nodeType is empty.
	ListNodes(ctx context.Context, nodeType string) ([]domain.Node, error)

	// Prune deletes nodes neither created nor touched since before.
	// Returns the number of deleted nodes.
	Prune(ctx context.Context, before time.Time) (int, error)
}
