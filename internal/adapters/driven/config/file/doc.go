// Package file provides the file-based configuration store.
//
// Adapters:
//   - ConfigStore: TOML or YAML configuration, selected by file extension
package file
