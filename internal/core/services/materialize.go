package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// MaterializeResult is the outcome of registering a record set.
type MaterializeResult struct {
	Nodes    int
	Links    int
	Problems []domain.Problem
}

// Materializer registers normalised records as nodes and links digital
// assets to their file nodes. File nodes must already be registered.
type Materializer struct {
	registry driven.NodeRegistry
}

// NewMaterializer creates a materializer.
func NewMaterializer(registry driven.NodeRegistry) *Materializer {
	return &Materializer{registry: registry}
}

// Materialize registers every record. A registry failure while creating a
// node aborts; a failed link is reported and skipped.
func (m *Materializer) Materialize(ctx context.Context, records []*domain.Record, files *fileIndex) (*MaterializeResult, error) {
	if files == nil {
		files = newFileIndex()
	}
	result := &MaterializeResult{}

	for _, rec := range records {
		node, err := nodeFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if err := m.registry.CreateNode(ctx, node); err != nil {
			return nil, fmt.Errorf("create node %s: %w", node.ID, err)
		}
		result.Nodes++

		if !rec.IsDigitalAsset() {
			continue
		}
		for _, childID := range fileChildren(rec) {
			if !files.has(childID) {
				continue
			}
			if err := m.registry.LinkParentChild(ctx, node.ID, childID); err != nil {
				logger.Warn("Linking %s to file %s failed: %v", node.ID, childID, err)
				result.Problems = append(result.Problems, domain.Problem{
					Kind: domain.ErrorKindStorage, Op: "link", Target: node.ID, Err: err,
				})
				continue
			}
			result.Links++
		}
	}

	logger.Info("Registered %d nodes with %d file links", result.Nodes, result.Links)
	return result, nil
}

// nodeFromRecord strips the discriminator and fingerprints the remaining attributes.
func nodeFromRecord(rec *domain.Record) (*domain.Node, error) {
	nodeType, _ := rec.Attributes[domain.AttrType].(string)
	entity := make(map[string]any, len(rec.Attributes))
	for k, v := range rec.Attributes {
		if k != domain.AttrType {
			entity[k] = v
		}
	}

	digest, err := contentDigest(entity)
	if err != nil {
		return nil, fmt.Errorf("digest %s: %w", rec.ID(), err)
	}

	return &domain.Node{
		ID:            rec.ID(),
		Type:          nodeType,
		ContentDigest: digest,
		Attributes:    entity,
	}, nil
}

// contentDigest hashes the JSON encoding of v. Map keys are encoded in
// sorted order so equal content yields equal digests.
func contentDigest(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}

// fileChildren returns the file node ids of the native binary and each
// rendition, in that order.
func fileChildren(rec *domain.Record) []string {
	var ids []string
	if id := rec.String(domain.AttrFileNodeID); id != "" {
		ids = append(ids, id)
	}
	for _, r := range rec.Renditions() {
		if id, _ := r[domain.AttrFileNodeID].(string); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
