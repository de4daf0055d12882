package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	stdsync "sync"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// mockContentSource serves canned listing pages and items.
type mockContentSource struct {
	mu       stdsync.Mutex
	pages    []*driven.ItemPage
	pageErr  map[int]error
	items    map[string]domain.RawItem
	itemErr  map[string]error
	requests []driven.ListRequest
	gets     []string
}

func (m *mockContentSource) ListItems(_ context.Context, req driven.ListRequest) (*driven.ItemPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.requests)
	m.requests = append(m.requests, req)
	if err := m.pageErr[n]; err != nil {
		return nil, err
	}
	if n >= len(m.pages) {
		return &driven.ItemPage{}, nil
	}
	return m.pages[n], nil
}

func (m *mockContentSource) GetItem(_ context.Context, id string) (domain.RawItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets = append(m.gets, id)
	if err := m.itemErr[id]; err != nil {
		return nil, err
	}
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	return cloneItem(item)
}

// cloneItem deep-copies an item the way a fresh decode would, so
// normalisation of one run cannot leak into the next.
func cloneItem(item domain.RawItem) (domain.RawItem, error) {
	if item == nil {
		return nil, nil
	}
	data, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	var out domain.RawItem
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// offsetSource serves totalResults items in pages of the requested size.
type offsetSource struct {
	total    int
	requests []driven.ListRequest
}

func (o *offsetSource) ListItems(_ context.Context, req driven.ListRequest) (*driven.ItemPage, error) {
	o.requests = append(o.requests, req)
	page := &driven.ItemPage{TotalResults: o.total}
	for i := req.Offset; i < req.Offset+req.Limit && i < o.total; i++ {
		page.Items = append(page.Items, domain.RawItem{"id": fmt.Sprintf("item-%02d", i), "type": "a-b"})
	}
	page.HasMore = req.Offset+req.Limit < o.total
	return page, nil
}

func (o *offsetSource) GetItem(context.Context, string) (domain.RawItem, error) {
	return nil, errors.New("not used")
}

// mockDebugSink records dump names.
type mockDebugSink struct {
	mu     stdsync.Mutex
	dumps  map[string]any
	resets []bool
}

func newMockDebugSink() *mockDebugSink {
	return &mockDebugSink{dumps: make(map[string]any)}
}

func (m *mockDebugSink) Reset(create bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, create)
	return nil
}

func (m *mockDebugSink) Dump(name string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dumps[name] = v
	return nil
}

// mockMediaCache is a map-backed cache that counts calls.
type mockMediaCache struct {
	mu      stdsync.Mutex
	entries map[string]domain.CacheEntry
	gets    int
	sets    int
	getErr  error
}

func newMockMediaCache() *mockMediaCache {
	return &mockMediaCache{entries: make(map[string]domain.CacheEntry)}
}

func (m *mockMediaCache) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	e, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

func (m *mockMediaCache) Set(_ context.Context, key string, entry domain.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.entries[key] = entry
	return nil
}

// mockFileFetcher registers a File node per fetched URL and fails for
// URLs listed in fail.
type mockFileFetcher struct {
	mu       stdsync.Mutex
	registry driven.NodeRegistry
	fail     map[string]bool
	fetched  []string
	headers  []map[string]string
}

func (m *mockFileFetcher) FetchRemoteFile(ctx context.Context, req domain.RemoteFileRequest) (*domain.FileHandle, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, req.URL)
	m.headers = append(m.headers, req.Headers)
	fail := m.fail[req.URL]
	m.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("download %s: connection reset", req.URL)
	}
	node := &domain.Node{
		ID:         m.registry.MintID("file-" + req.URL),
		Type:       domain.FileNodeType,
		Attributes: map[string]any{"url": req.URL, "name": req.Name},
	}
	if err := m.registry.CreateNode(ctx, node); err != nil {
		return nil, err
	}
	return &domain.FileHandle{NodeID: node.ID}, nil
}

func (m *mockFileFetcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetched)
}

// mockBinarySource serves a body per URL.
type mockBinarySource struct {
	mu     stdsync.Mutex
	opened []string
	fail   map[string]bool
}

func (m *mockBinarySource) OpenBinary(_ context.Context, url string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, url)
	if m.fail[url] {
		return nil, errors.New("boom")
	}
	return io.NopCloser(strings.NewReader("bytes of " + url)), nil
}

// mockStaticStore records written paths.
type mockStaticStore struct {
	mu       stdsync.Mutex
	prepared bool
	written  map[string]string
}

func newMockStaticStore() *mockStaticStore {
	return &mockStaticStore{written: make(map[string]string)}
}

func (m *mockStaticStore) Prepare(context.Context) error {
	m.prepared = true
	return nil
}

func (m *mockStaticStore) Put(_ context.Context, subDir, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := name
	if subDir != "" {
		path = subDir + "/" + name
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written[path] = string(data)
	return path, nil
}

// staticTokens is a fixed TokenProvider.
type staticTokens string

func (s staticTokens) GetToken(context.Context) (string, error) { return string(s), nil }
func (s staticTokens) AuthMethod() domain.AuthMethod          { return domain.AuthMethodStatic }

// rendition builds a rendition object with one format link.
func rendition(name, typ, href string) map[string]any {
	return map[string]any{
		"name": name,
		"type": typ,
		"formats": []any{
			map[string]any{"links": []any{map[string]any{"href": href, "rel": "self"}}},
		},
	}
}

// assetRecord builds a normalised digital-asset record.
func assetRecord(id, name, updated, native string, renditions ...map[string]any) *domain.Record {
	list := make([]any, 0, len(renditions))
	for _, r := range renditions {
		list = append(list, r)
	}
	rec := domain.NewRecord(domain.RawItem{
		"id":          id,
		"oceId":       "oce-" + id,
		"type":        domain.AssetTypeName,
		"name":        name,
		"updatedDate": updated,
		"native":      native,
		"renditions":  list,
	})
	rec.Kind = domain.KindDigitalAsset
	return rec
}

// rawAsset builds a server-shaped digital asset item.
func rawAsset(id, name, updated, native string, renditions ...map[string]any) domain.RawItem {
	list := make([]any, 0, len(renditions))
	for _, r := range renditions {
		list = append(list, r)
	}
	return domain.RawItem{
		"id":           id,
		"type":         "Digital-Asset",
		"typeCategory": domain.DigitalAssetTypeCategory,
		"name":         name,
		"updatedDate":  map[string]any{"value": updated, "timezone": "UTC"},
		"links":        []any{map[string]any{"href": "https://srv/items/" + id}},
		"fields": map[string]any{
			"native": map[string]any{
				"links": []any{map[string]any{"href": native, "rel": "self"}},
			},
			"renditions": list,
		},
	}
}
