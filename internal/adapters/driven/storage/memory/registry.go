package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/ocesync/internal/adapters/driven/storage/nodeid"
	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// Ensure NodeRegistry implements the interface.
var _ driven.NodeRegistry = (*NodeRegistry)(nil)

// NodeRegistry is an in-memory implementation of driven.NodeRegistry.
type NodeRegistry struct {
	mu    sync.RWMutex
	nodes map[string]*domain.Node
	now   func() time.Time
}

// NewNodeRegistry creates an empty in-memory registry.
func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{
		nodes: make(map[string]*domain.Node),
		now:   time.Now,
	}
}

// MintID returns a deterministic id for seed.
func (r *NodeRegistry) MintID(seed string) string {
	return nodeid.Mint(seed)
}

// CreateNode registers or replaces a node. Its children are reset.
func (r *NodeRegistry) CreateNode(_ context.Context, node *domain.Node) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("%w: node id is required", domain.ErrInvalidInput)
	}

	stored := *node
	stored.Children = nil
	stored.Attributes = maps.Clone(node.Attributes)
	stored.Fields = maps.Clone(node.Fields)
	stored.TouchedAt = r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[node.ID] = &stored
	return nil
}

// TouchNode marks a node as still referenced.
func (r *NodeRegistry) TouchNode(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[id]
	if !ok {
		return domain.ErrNotFound
	}
	node.TouchedAt = r.now()
	return nil
}

// LinkParentChild records an edge and sets the child's parent.
func (r *NodeRegistry) LinkParentChild(_ context.Context, parentID, childID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	parent, ok := r.nodes[parentID]
	if !ok {
		return fmt.Errorf("node %s: %w", parentID, domain.ErrNotFound)
	}
	child, ok := r.nodes[childID]
	if !ok {
		return fmt.Errorf("node %s: %w", childID, domain.ErrNotFound)
	}

	if !slices.Contains(parent.Children, childID) {
		parent.Children = append(parent.Children, childID)
	}
	child.Parent = parentID
	return nil
}

// GetNode retrieves a copy of a node.
func (r *NodeRegistry) GetNode(_ context.Context, id string) (*domain.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyNode(node)
	return &out, nil
}

// ListNodes returns nodes of a type, or all nodes, ordered by id.
func (r *NodeRegistry) ListNodes(_ context.Context, nodeType string) ([]domain.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Node
	for _, node := range r.nodes {
		if nodeType == "" || node.Type == nodeType {
			out = append(out, copyNode(node))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Prune deletes nodes not created or touched since before.
func (r *NodeRegistry) Prune(_ context.Context, before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pruned := 0
	for id, node := range r.nodes {
		if node.TouchedAt.Before(before) {
			delete(r.nodes, id)
			pruned++
		}
	}

	for _, node := range r.nodes {
		if _, ok := r.nodes[node.Parent]; node.Parent != "" && !ok {
			node.Parent = ""
		}
		node.Children = slices.DeleteFunc(node.Children, func(id string) bool {
			_, ok := r.nodes[id]
			return !ok
		})
	}
	return pruned, nil
}

func copyNode(n *domain.Node) domain.Node {
	out := *n
	out.Children = slices.Clone(n.Children)
	out.Attributes = maps.Clone(n.Attributes)
	out.Fields = maps.Clone(n.Fields)
	return out
}
