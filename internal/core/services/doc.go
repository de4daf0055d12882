// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// A sync run flows through the ItemLister, the ItemFetcher, the
// normaliser pipeline, the MediaSynchronizer and the Materializer, in that
// order. Only the MediaSynchronizer touches persistent cache state.
package services
