package domain

import "time"

// FileNodeType is the node type of registered binaries.
const FileNodeType = "File"

// Node is a materialised record held by the node registry.
type Node struct {
	// ID is the registry-wide identifier.
	ID string

	// Type is the node type (AssetTypeName for content records, FileNodeType for binaries).
	Type string

	// Parent is the id of the parent node, empty for roots.
	Parent string

	// Children are the ids of linked child nodes.
	Children []string

	// ContentDigest fingerprints Attributes so the registry can detect changes.
	ContentDigest string

	// Attributes is the node's content.
	Attributes map[string]any

	// Fields holds registry-side annotations (for example the rendition label).
	Fields map[string]string

	// TouchedAt is when the node was last created or touched.
	TouchedAt time.Time
}
