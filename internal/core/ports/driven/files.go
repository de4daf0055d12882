package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// FileFetcher downloads a remote binary and registers it as a file node.
type FileFetcher interface {
	FetchRemoteFile(ctx context.Context, req domain.RemoteFileRequest) (*domain.FileHandle, error)
}

// StaticStore writes binaries below the public static root.
type StaticStore interface {
	// Prepare creates the static root directory.
	Prepare(ctx context.Context) error

	// Put writes r to subDir/name below the root and returns the written path.
	Put(ctx context.Context, subDir, name string, r io.Reader) (string, error)
}
