package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ocesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ocesync/internal/core/domain"
)

func TestNodeFromRecord_StripsTypeAndDigests(t *testing.T) {
	rec := domain.NewRecord(domain.RawItem{"id": "n1", "type": domain.AssetTypeName, "name": "x"})

	node, err := nodeFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, "n1", node.ID)
	assert.Equal(t, domain.AssetTypeName, node.Type)
	assert.NotContains(t, node.Attributes, "type")
	assert.Contains(t, rec.Attributes, "type")

	again, err := nodeFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, node.ContentDigest, again.ContentDigest)

	// The discriminator does not affect the digest.
	other := domain.NewRecord(domain.RawItem{"id": "n1", "type": "somethingElse", "name": "x"})
	otherNode, err := nodeFromRecord(other)
	require.NoError(t, err)
	assert.Equal(t, node.ContentDigest, otherNode.ContentDigest)

	changed := domain.NewRecord(domain.RawItem{"id": "n1", "type": domain.AssetTypeName, "name": "y"})
	changedNode, err := nodeFromRecord(changed)
	require.NoError(t, err)
	assert.NotEqual(t, node.ContentDigest, changedNode.ContentDigest)
}

func TestMaterializer_LinksIndexedFilesOnly(t *testing.T) {
	ctx := context.Background()
	registry := memory.NewNodeRegistry()
	for _, id := range []string{"f-native", "f-thumb", "f-stale"} {
		require.NoError(t, registry.CreateNode(ctx, &domain.Node{ID: id, Type: domain.FileNodeType}))
	}

	rec := assetRecord("asset", "a.jpg", "D", "https://srv/a.jpg",
		map[string]any{"name": "thumbnail", "fileNodeId": "f-thumb"},
		map[string]any{"name": "old", "fileNodeId": "f-stale"},
	)
	rec.Attributes[domain.AttrFileNodeID] = "f-native"
	plain := domain.NewRecord(domain.RawItem{"id": "article", "type": domain.AssetTypeName})
	plain.Kind = domain.KindOther

	files := newFileIndex()
	files.add("f-native")
	files.add("f-thumb")

	result, err := NewMaterializer(registry).Materialize(ctx, []*domain.Record{rec, plain}, files)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 2, result.Links)

	node, err := registry.GetNode(ctx, "asset")
	require.NoError(t, err)
	assert.Equal(t, []string{"f-native", "f-thumb"}, node.Children)
	assert.Equal(t, domain.AssetTypeName, node.Type)

	file, err := registry.GetNode(ctx, "f-native")
	require.NoError(t, err)
	assert.Equal(t, "asset", file.Parent)
}

func TestMaterializer_LinkFailureReported(t *testing.T) {
	ctx := context.Background()
	registry := memory.NewNodeRegistry()

	rec := assetRecord("asset", "a.jpg", "D", "https://srv/a.jpg")
	rec.Attributes[domain.AttrFileNodeID] = "missing-file"
	files := newFileIndex()
	files.add("missing-file")

	result, err := NewMaterializer(registry).Materialize(ctx, []*domain.Record{rec}, files)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Links)
	require.Len(t, result.Problems, 1)
	assert.Equal(t, domain.ErrorKindStorage, result.Problems[0].Kind)
}

func TestMaterializer_CreateFailureAborts(t *testing.T) {
	rec := domain.NewRecord(domain.RawItem{"type": domain.AssetTypeName})

	_, err := NewMaterializer(memory.NewNodeRegistry()).Materialize(context.Background(), []*domain.Record{rec}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
