package oce

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// Ensure DebugDir implements the interface.
var _ driven.DebugSink = (*DebugDir)(nil)

// DebugDir writes raw JSON documents into a scratch directory.
type DebugDir struct {
	path string
}

// NewDebugDir returns a sink writing below path.
func NewDebugDir(path string) *DebugDir {
	return &DebugDir{path: path}
}

// Path returns the directory path.
func (d *DebugDir) Path() string {
	return d.path
}

// Reset removes the directory and, when create is true, recreates it empty.
func (d *DebugDir) Reset(create bool) error {
	if err := os.RemoveAll(d.path); err != nil {
		return fmt.Errorf("remove debug dir: %w", err)
	}
	if !create {
		return nil
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}
	return nil
}

// Dump writes v as indented JSON to <dir>/<name>.json.
func (d *DebugDir) Dump(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	target := filepath.Join(d.path, filepath.Base(name)+".json")
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
