package files

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ocesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ocesync/internal/connectors/oce"
	"github.com/custodia-labs/ocesync/internal/core/domain"
)

func TestRemoteFetcher_FetchRemoteFile(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	registry := memory.NewNodeRegistry()
	fetcher := NewRemoteFetcher(t.TempDir(), server.Client(), registry, server.URL)

	url := server.URL + "/content/published/api/v1.1/assets/CONT1/native/photo.jpg"
	handle, err := fetcher.FetchRemoteFile(context.Background(), domain.RemoteFileRequest{
		URL:     url,
		Name:    "photo",
		Headers: map[string]string{"Authorization": "Bearer t"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer t", gotAuth)

	data, err := os.ReadFile(handle.Path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	node, err := registry.GetNode(context.Background(), handle.NodeID)
	require.NoError(t, err)
	assert.Equal(t, domain.FileNodeType, node.Type)
	assert.Equal(t, url, node.Attributes[FileAttrURL])
	assert.Equal(t, "photo", node.Attributes[FileAttrName])
	assert.Equal(t, ".jpg", node.Attributes[FileAttrExt])
	assert.Equal(t, int64(10), node.Attributes[FileAttrSize])
	assert.Equal(t, "image/jpeg", node.Attributes[FileAttrMediaType])
	assert.NotEmpty(t, node.Attributes[FileAttrDigest])
	assert.Equal(t, domain.RenditionOriginal, node.Fields[FileFieldRendition])

	// The same URL always maps to the same node.
	again, err := fetcher.FetchRemoteFile(context.Background(), domain.RemoteFileRequest{URL: url, Name: "photo"})
	require.NoError(t, err)
	assert.Equal(t, handle.NodeID, again.NodeID)
}

func TestRemoteFetcher_RenditionLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer server.Close()

	tests := []struct {
		name     string
		path     string
		fileName string
		want     string
	}{
		{"responsive", "/assets/C1/responsiveimage/thumbnail/p.jpg", "thumbnail-p", "thumbnail"},
		{"custom", "/assets/C1/customrendition/small/p.jpg", "small-p", domain.RenditionCustom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := memory.NewNodeRegistry()
			fetcher := NewRemoteFetcher(t.TempDir(), server.Client(), registry, server.URL)

			handle, err := fetcher.FetchRemoteFile(context.Background(), domain.RemoteFileRequest{
				URL: server.URL + tt.path, Name: tt.fileName,
			})
			require.NoError(t, err)

			node, err := registry.GetNode(context.Background(), handle.NodeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.Fields[FileFieldRendition])
		})
	}
}

func TestRemoteFetcher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	registry := memory.NewNodeRegistry()
	fetcher := NewRemoteFetcher(t.TempDir(), server.Client(), registry, "")

	_, err := fetcher.FetchRemoteFile(context.Background(), domain.RemoteFileRequest{URL: server.URL + "/a.png"})
	require.Error(t, err)
	assert.True(t, oce.IsNotFound(err))

	nodes, err := registry.ListNodes(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestRemoteFetcher_InvalidURL(t *testing.T) {
	fetcher := NewRemoteFetcher(t.TempDir(), nil, memory.NewNodeRegistry(), "")
	_, err := fetcher.FetchRemoteFile(context.Background(), domain.RemoteFileRequest{URL: "not a url"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/png", mediaType("image/png; charset=binary", ".jpg"))
	assert.Equal(t, "image/png", mediaType("", ".png"))
	assert.Equal(t, "application/octet-stream", mediaType("", ""))
}
