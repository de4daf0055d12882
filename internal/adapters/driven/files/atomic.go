package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeAtomic streams r into path through a temp file in the same directory
// and renames it into place. w, when non-nil, also receives every byte.
func writeAtomic(path string, r io.Reader, w io.Writer) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	dst := io.Writer(tmp)
	if w != nil {
		dst = io.MultiWriter(tmp, w)
	}
	n, err := io.Copy(dst, r)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("rename into %s: %w", path, err)
	}
	return n, nil
}

// safeName rejects names that would escape their directory.
func safeName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}
