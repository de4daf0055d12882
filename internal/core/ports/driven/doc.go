// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ContentSource: lists and fetches items from the content server
//   - BinarySource: opens binaries on the content server (static mode)
//   - TokenProvider: supplies the Authorization value for every request
//   - MediaCache: durable handle cache keyed by asset and rendition
//   - NodeRegistry: mints ids and holds materialised nodes and their links
//   - FileFetcher: fetches a binary and registers it as a file node
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - StaticStore: only needed when static asset download is enabled
//   - DebugSink: receives raw listing and item JSON when debug is on
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
