// Package memory provides in-memory implementations of driven ports.
//
// The stores here live for one process. They back one-off syncs where
// durability is not wanted (cache.backend = "memory") and serve as test
// doubles for the services.
package memory
