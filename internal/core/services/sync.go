package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/core/ports/driving"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator coordinates one channel synchronisation.
type SyncOrchestrator struct {
	settings   *domain.SyncSettings
	source     driven.ContentSource
	normaliser driven.Normaliser
	media      *MediaSynchronizer
	nodes      *Materializer
	registry   driven.NodeRegistry
	debug      driven.DebugSink

	prune bool
	now   func() time.Time

	// Status tracking
	mu     sync.RWMutex
	status driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
// debug may be nil, in which case no dumps are written or cleared.
func NewSyncOrchestrator(
	settings *domain.SyncSettings,
	source driven.ContentSource,
	normaliser driven.Normaliser,
	media *MediaSynchronizer,
	registry driven.NodeRegistry,
	debug driven.DebugSink,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		settings:   settings,
		source:     source,
		normaliser: normaliser,
		media:      media,
		nodes:      NewMaterializer(registry),
		registry:   registry,
		debug:      debug,
		now:        time.Now,
		status:     driving.SyncStatus{Stage: driving.StageIdle},
	}
}

// SetPrune makes Sync delete registry nodes not created or touched by the run.
func (o *SyncOrchestrator) SetPrune(prune bool) {
	o.prune = prune
}

// Sync lists, fetches, normalises, downloads media and registers nodes.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (o *SyncOrchestrator) Sync(ctx context.Context) (*domain.SyncReport, error) {
	o.setStatus(func(s *driving.SyncStatus) { *s = driving.SyncStatus{Running: true, Stage: driving.StageListing} })
	defer o.setStatus(func(s *driving.SyncStatus) { s.Running = false; s.Stage = driving.StageIdle })

	report := &domain.SyncReport{}
	runStart := o.now()

	// 1. Reset debug dumps
	var dumps driven.DebugSink
	if o.debug != nil {
		if err := o.debug.Reset(o.settings.Debug); err != nil {
			logger.Warn("Resetting debug directory: %v", err)
		}
		if o.settings.Debug {
			dumps = o.debug
		}
	}

	logger.Section("Syncing channel")

	// 2. List
	lister := NewItemLister(o.source, dumps)
	lister.progress = func(n int) { o.setStatus(func(s *driving.SyncStatus) { s.ItemsListed = n }) }
	listed, problems, err := lister.List(ctx, ListOptions{
		Protocol: o.settings.Pagination,
		Limit:    o.settings.PageSize(),
		Query:    o.settings.ItemsQuery,
	})
	for _, p := range problems {
		report.Add(p)
	}
	if err != nil {
		return o.fail(report, fmt.Errorf("list items: %w", err))
	}
	report.Listed = len(listed)

	// 3. Fetch
	o.setStatus(func(s *driving.SyncStatus) { s.Stage = driving.StageFetching })
	fetcher := NewItemFetcher(o.source, dumps, o.settings.FetchConcurrency)
	items, err := fetcher.FetchAll(ctx, itemIDs(listed))
	if err != nil {
		report.Add(domain.Problem{Kind: domain.ErrorKindTransport, Op: "fetch", Err: err})
		return o.fail(report, err)
	}
	report.Fetched = len(items)

	// 4. Normalise
	o.setStatus(func(s *driving.SyncStatus) { s.Stage = driving.StageNormalising })
	records, problems, err := o.normaliser.Normalise(ctx, items)
	for _, p := range problems {
		report.Add(p)
	}
	if err != nil {
		return o.fail(report, fmt.Errorf("normalise: %w", err))
	}
	report.Records = len(records)

	// 5. Media
	o.setStatus(func(s *driving.SyncStatus) { s.Stage = driving.StageMedia })
	o.media.progress = func() { o.setStatus(func(s *driving.SyncStatus) { s.MediaProcessed++ }) }
	opts := MediaOptions{Renditions: o.settings.Renditions}
	if o.settings.StaticAssetDownload {
		opts.Static = &StaticOptions{
			RootDir:   o.settings.StaticAssetRootDir,
			URLPrefix: o.settings.StaticURLPrefix,
		}
	}
	media, err := o.media.Synchronize(ctx, records, opts)
	if err != nil {
		return o.fail(report, fmt.Errorf("media: %w", err))
	}
	report.Media = media.Stats
	for _, p := range media.Problems {
		report.Add(p)
	}

	// 6. Nodes
	o.setStatus(func(s *driving.SyncStatus) { s.Stage = driving.StageNodes })
	nodes, err := o.nodes.Materialize(ctx, records, media.files)
	if err != nil {
		return o.fail(report, fmt.Errorf("materialize: %w", err))
	}
	report.Nodes = nodes.Nodes
	report.Links = nodes.Links
	for _, p := range nodes.Problems {
		report.Add(p)
	}

	// 7. Prune
	if o.prune {
		n, err := o.registry.Prune(ctx, runStart)
		if err != nil {
			logger.Warn("Pruning stale nodes failed: %v", err)
			report.Add(domain.Problem{Kind: domain.ErrorKindStorage, Op: "prune", Err: err})
		} else {
			report.Pruned = n
		}
	}

	logger.Info("Sync complete: %d nodes, %d links, %d problems", report.Nodes, report.Links, len(report.Problems))
	return report, nil
}

// Status returns a copy of the current progress.
func (o *SyncOrchestrator) Status(_ context.Context) *driving.SyncStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	status := o.status
	return &status
}

func (o *SyncOrchestrator) fail(report *domain.SyncReport, err error) (*domain.SyncReport, error) {
	logger.Error("Sync failed: %v", err)
	return report, err
}

func (o *SyncOrchestrator) setStatus(fn func(s *driving.SyncStatus)) {
	o.mu.Lock()
	fn(&o.status)
	o.mu.Unlock()
}
