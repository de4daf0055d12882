package files

import (
	"context"
	"fmt"
	"io"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/custodia-labs/ocesync/internal/connectors/oce"
	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// Ensure RemoteFetcher implements the interface.
var _ driven.FileFetcher = (*RemoteFetcher)(nil)

// File node attribute names.
const (
	FileAttrURL          = "url"
	FileAttrName         = "name"
	FileAttrExt          = "ext"
	FileAttrAbsolutePath = "absolutePath"
	FileAttrSize         = "size"
	FileAttrMediaType    = "mediaType"
	FileAttrDigest       = "digest"

	// FileFieldRendition is the node field holding the rendition label.
	FileFieldRendition = "rendition"
)

// RemoteFetcher downloads binaries into <dataDir>/files and registers each
// one as a File node.
type RemoteFetcher struct {
	root          string
	http          *http.Client
	registry      driven.NodeRegistry
	contentServer string
}

// NewRemoteFetcher creates a fetcher storing files below dataDir.
func NewRemoteFetcher(dataDir string, httpClient *http.Client, registry driven.NodeRegistry, contentServer string) *RemoteFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RemoteFetcher{
		root:          filepath.Join(dataDir, "files"),
		http:          httpClient,
		registry:      registry,
		contentServer: contentServer,
	}
}

// FetchRemoteFile downloads req.URL and registers the result.
func (f *RemoteFetcher) FetchRemoteFile(ctx context.Context, req domain.RemoteFileRequest) (*domain.FileHandle, error) {
	u, err := url.Parse(req.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid file url %q", domain.ErrInvalidInput, req.URL)
	}

	ext := path.Ext(u.Path)
	name := req.Name
	if name == "" {
		name = strings.TrimSuffix(path.Base(u.Path), ext)
	}
	if !safeName(name + ext) {
		return nil, fmt.Errorf("%w: invalid file name %q", domain.ErrInvalidInput, name+ext)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := f.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &oce.APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
			URL:        req.URL,
		}
	}

	dest := filepath.Join(f.root, fmt.Sprintf("%016x", xxh3.HashString(req.URL)), name+ext)
	hasher := xxh3.New()
	size, err := writeAtomic(dest, resp.Body, hasher)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(dest)
	if err != nil {
		absPath = dest
	}

	fields := map[string]string{}
	if label := domain.RenditionLabel(f.contentServer, req.URL, name); label != "" {
		fields[FileFieldRendition] = label
	}
	maps.Copy(fields, req.Fields)

	node := &domain.Node{
		ID:   f.registry.MintID("file-" + req.URL),
		Type: domain.FileNodeType,
		Attributes: map[string]any{
			FileAttrURL:          req.URL,
			FileAttrName:         name,
			FileAttrExt:          ext,
			FileAttrAbsolutePath: absPath,
			FileAttrSize:         size,
			FileAttrMediaType:    mediaType(resp.Header.Get("Content-Type"), ext),
			FileAttrDigest:       fmt.Sprintf("%016x", hasher.Sum64()),
		},
		Fields: fields,
	}
	if err := f.registry.CreateNode(ctx, node); err != nil {
		return nil, fmt.Errorf("register file node: %w", err)
	}

	logger.Debug("Fetched %s (%d bytes) as %s", req.URL, size, node.ID)
	return &domain.FileHandle{NodeID: node.ID, Path: absPath}, nil
}

// mediaType prefers the response header and falls back to the extension.
func mediaType(header, ext string) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil {
			return mt
		}
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		if parsed, _, err := mime.ParseMediaType(mt); err == nil {
			return parsed
		}
		return mt
	}
	return "application/octet-stream"
}
