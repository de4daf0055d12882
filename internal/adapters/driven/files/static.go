package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// Ensure StaticWriter implements the interface.
var _ driven.StaticStore = (*StaticWriter)(nil)

// StaticWriter writes binaries to <publicDir>/<rootDir>[/<subDir>]/<name>.
type StaticWriter struct {
	root string
}

// NewStaticWriter creates a writer for the given public and root directories.
func NewStaticWriter(publicDir, rootDir string) *StaticWriter {
	if publicDir == "" {
		publicDir = domain.DefaultStaticPublicDir
	}
	if rootDir == "" {
		rootDir = domain.DefaultStaticRootDir
	}
	return &StaticWriter{root: filepath.Join(publicDir, rootDir)}
}

// Root returns the static root directory.
func (w *StaticWriter) Root() string {
	return w.root
}

// Prepare creates the static root directory.
func (w *StaticWriter) Prepare(_ context.Context) error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create static root: %w", err)
	}
	return nil
}

// Put writes r to subDir/name below the root, replacing any existing file.
func (w *StaticWriter) Put(ctx context.Context, subDir, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !safeName(name) {
		return "", fmt.Errorf("%w: invalid static file name %q", domain.ErrInvalidInput, name)
	}
	if subDir != "" && !safeName(subDir) {
		return "", fmt.Errorf("%w: invalid static directory %q", domain.ErrInvalidInput, subDir)
	}

	dest := filepath.Join(w.root, subDir, name)
	if _, err := writeAtomic(dest, r, nil); err != nil {
		return "", err
	}
	return dest, nil
}
