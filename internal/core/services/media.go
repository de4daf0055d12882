package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// MediaOptions controls one media synchronisation.
type MediaOptions struct {
	Renditions domain.RenditionPolicy

	// Static selects static delivery when non-nil.
	Static *StaticOptions
}

// MediaResult is the outcome of one media synchronisation.
type MediaResult struct {
	Stats    domain.MediaStats
	Problems []domain.Problem

	files *fileIndex
}

// MediaSynchronizer makes the binaries of digital assets available locally.
//
// In registry mode each binary becomes a file node. A cache entry whose
// updatedDate matches the asset's reuses the earlier node; otherwise the
// binary is fetched again and the entry overwritten. In static mode every
// binary is written below the static root on every run and the cache is
// never consulted.
type MediaSynchronizer struct {
	cache       driven.MediaCache
	registry    driven.NodeRegistry
	fetcher     driven.FileFetcher
	binaries    driven.BinarySource
	static      driven.StaticStore
	tokens      driven.TokenProvider
	concurrency int

	// progress, when set, is called after each entry resolves.
	progress func()
}

// NewMediaSynchronizer creates a synchronizer. The cache, registry and
// fetcher serve registry mode; binaries and static serve static mode.
// concurrency bounds the number of assets processed at once (0 = unbounded).
func NewMediaSynchronizer(
	cache driven.MediaCache,
	registry driven.NodeRegistry,
	fetcher driven.FileFetcher,
	binaries driven.BinarySource,
	static driven.StaticStore,
	tokens driven.TokenProvider,
	concurrency int,
) *MediaSynchronizer {
	return &MediaSynchronizer{
		cache:       cache,
		registry:    registry,
		fetcher:     fetcher,
		binaries:    binaries,
		static:      static,
		tokens:      tokens,
		concurrency: concurrency,
	}
}

// Synchronize processes every digital asset in records. Failures of single
// binaries are reported in the result and never abort the run.
func (m *MediaSynchronizer) Synchronize(ctx context.Context, records []*domain.Record, opts MediaOptions) (*MediaResult, error) {
	if opts.Static != nil {
		return m.synchronizeStatic(ctx, records, opts)
	}
	return m.synchronizeRegistry(ctx, records, opts)
}

// collector gathers results from concurrent workers.
type collector struct {
	mu     sync.Mutex
	result *MediaResult
}

func (c *collector) problem(p domain.Problem) {
	c.mu.Lock()
	c.result.Problems = append(c.result.Problems, p)
	c.mu.Unlock()
}

func (c *collector) count(fn func(s *domain.MediaStats)) {
	c.mu.Lock()
	fn(&c.result.Stats)
	c.mu.Unlock()
}

func (m *MediaSynchronizer) synchronizeRegistry(ctx context.Context, records []*domain.Record, opts MediaOptions) (*MediaResult, error) {
	if m.cache == nil || m.fetcher == nil || m.registry == nil {
		return nil, fmt.Errorf("%w: registry mode needs a media cache, a node registry and a file fetcher", domain.ErrInvalidInput)
	}

	headers, err := m.authHeaders(ctx)
	if err != nil {
		return nil, err
	}

	c := &collector{result: &MediaResult{files: newFileIndex()}}

	g, gctx := errgroup.WithContext(ctx)
	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}
	for _, rec := range records {
		if !rec.IsDigitalAsset() {
			continue
		}
		g.Go(func() error {
			entries, problems := mediaList(rec, opts.Renditions, nil)
			for _, p := range problems {
				logger.Warn("Skipping media of %s: %v", p.Target, p.Err)
				c.problem(p)
			}
			updated := rec.String(domain.AttrUpdatedDate)
			for _, entry := range entries {
				if err := gctx.Err(); err != nil {
					return err
				}
				m.resolveEntry(gctx, entry, updated, headers, c)
				if m.progress != nil {
					m.progress()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("Media: %d reused, %d downloaded, %d failed",
		c.result.Stats.Reused, c.result.Stats.Downloaded, c.result.Stats.Failed)
	return c.result, nil
}

// resolveEntry reuses or fetches one binary and writes the file node id
// back onto the entry's target.
func (m *MediaSynchronizer) resolveEntry(
	ctx context.Context, entry domain.MediaEntry, updated string, headers map[string]string, c *collector,
) {
	nodeID := m.reuse(ctx, entry, updated, c)
	if nodeID != "" {
		c.count(func(s *domain.MediaStats) { s.Reused++ })
	} else {
		if entry.URL == "" {
			err := &domain.ShapeError{RecordID: entry.Key, Path: "native"}
			logger.Warn("Skipping media %s: %v", entry.Key, err)
			c.problem(domain.Problem{Kind: domain.ErrorKindShape, Op: "download", Target: entry.Key, Err: err})
			c.count(func(s *domain.MediaStats) { s.Failed++ })
			return
		}

		logger.Debug("Downloading media file %s", entry.URL)
		handle, err := m.fetcher.FetchRemoteFile(ctx, domain.RemoteFileRequest{
			URL:     entry.URL,
			Name:    entry.Name,
			Headers: headers,
		})
		if err != nil {
			logger.Warn("Downloading media file %s failed: %v", entry.URL, err)
			c.problem(domain.Problem{Kind: domain.ErrorKindTransport, Op: "download", Target: entry.URL, Err: err})
			c.count(func(s *domain.MediaStats) { s.Failed++ })
			return
		}
		nodeID = handle.NodeID
		c.count(func(s *domain.MediaStats) { s.Downloaded++ })

		if err := m.cache.Set(ctx, entry.Key, domain.CacheEntry{FileNodeID: nodeID, UpdatedDate: updated}); err != nil {
			logger.Warn("Caching media %s failed: %v", entry.Key, err)
			c.problem(domain.Problem{Kind: domain.ErrorKindStorage, Op: "cache set", Target: entry.Key, Err: err})
		}
	}

	entry.Target[domain.AttrFileNodeID] = nodeID
	c.result.files.add(nodeID)
}

// reuse returns the cached file node id when the entry is still valid and
// the node still exists, marking it as referenced by this run.
func (m *MediaSynchronizer) reuse(ctx context.Context, entry domain.MediaEntry, updated string, c *collector) string {
	cached, err := m.cache.Get(ctx, entry.Key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Reading media cache %s failed: %v", entry.Key, err)
			c.problem(domain.Problem{Kind: domain.ErrorKindStorage, Op: "cache get", Target: entry.Key, Err: err})
		}
		return ""
	}
	if !cached.ValidFor(updated) {
		return ""
	}

	if err := m.registry.TouchNode(ctx, cached.FileNodeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("Cached file node %s is gone, downloading again", cached.FileNodeID)
		} else {
			logger.Warn("Touching file node %s failed: %v", cached.FileNodeID, err)
			c.problem(domain.Problem{Kind: domain.ErrorKindStorage, Op: "touch", Target: cached.FileNodeID, Err: err})
		}
		return ""
	}
	logger.Debug("Reusing file node %s for %s", cached.FileNodeID, entry.Key)
	return cached.FileNodeID
}

// authHeaders returns the Authorization header for downloads, or nil
// when the run is unauthenticated.
func (m *MediaSynchronizer) authHeaders(ctx context.Context) (map[string]string, error) {
	if m.tokens == nil {
		return nil, nil
	}
	auth, err := m.tokens.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	if auth == "" {
		return nil, nil
	}
	return map[string]string{"Authorization": auth}, nil
}

func (m *MediaSynchronizer) synchronizeStatic(ctx context.Context, records []*domain.Record, opts MediaOptions) (*MediaResult, error) {
	if m.binaries == nil || m.static == nil {
		return nil, fmt.Errorf("%w: static mode needs a binary source and a static store", domain.ErrInvalidInput)
	}

	c := &collector{result: &MediaResult{files: newFileIndex()}}

	if err := m.static.Prepare(ctx); err != nil {
		logger.Warn("Couldn't create static root: %v", err)
	}

	// Deduplicate by URL; a later entry for the same URL replaces an earlier one.
	byURL := make(map[string]domain.MediaEntry)
	var order []string
	for _, rec := range records {
		if !rec.IsDigitalAsset() {
			continue
		}
		entries, problems := mediaList(rec, opts.Renditions, opts.Static)
		for _, p := range problems {
			logger.Warn("Skipping media of %s: %v", p.Target, p.Err)
			c.problem(p)
		}
		for _, entry := range entries {
			if entry.URL == "" {
				continue
			}
			if _, seen := byURL[entry.URL]; !seen {
				order = append(order, entry.URL)
			}
			byURL[entry.URL] = entry
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}
	for _, url := range order {
		entry := byURL[url]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := m.writeStatic(gctx, entry); err != nil {
				logger.Warn("Downloading file %s failed: %v", entry.URL, err)
				c.problem(domain.Problem{Kind: domain.ErrorKindTransport, Op: "download", Target: entry.URL, Err: err})
				c.count(func(s *domain.MediaStats) { s.Failed++ })
			} else {
				c.count(func(s *domain.MediaStats) { s.Downloaded++ })
			}
			if m.progress != nil {
				m.progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("Static media: %d downloaded, %d failed", c.result.Stats.Downloaded, c.result.Stats.Failed)
	return c.result, nil
}

func (m *MediaSynchronizer) writeStatic(ctx context.Context, entry domain.MediaEntry) error {
	logger.Debug("Downloading file %s", entry.URL)
	body, err := m.binaries.OpenBinary(ctx, entry.URL)
	if err != nil {
		return err
	}
	defer body.Close()

	if _, err := m.static.Put(ctx, entry.StaticSubDir, entry.StaticName, body); err != nil {
		return err
	}
	return nil
}
