// Package domain defines the core business entities for ocesync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: a content item moving through normalisation
//   - AssetKind: the digital-asset / other classification of a record
//   - MediaEntry: one binary (native or rendition) to synchronise
//   - CacheEntry: the persisted handle for a previously fetched binary
//   - Node: a materialised record owned by the node registry
//   - SyncSettings: the resolved configuration of one sync run
//   - SyncReport: counts and per-unit problems produced by a run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
