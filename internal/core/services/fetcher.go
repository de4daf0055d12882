package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// ItemFetcher retrieves full item records concurrently.
type ItemFetcher struct {
	source      driven.ContentSource
	debug       driven.DebugSink
	concurrency int
}

// NewItemFetcher creates a fetcher. concurrency <= 0 means unbounded;
// debug may be nil.
func NewItemFetcher(source driven.ContentSource, debug driven.DebugSink, concurrency int) *ItemFetcher {
	return &ItemFetcher{source: source, debug: debug, concurrency: concurrency}
}

// FetchAll fetches every id and returns the items in the order of ids.
// The first failing fetch cancels the rest and is returned.
func (f *ItemFetcher) FetchAll(ctx context.Context, ids []string) ([]domain.RawItem, error) {
	items := make([]domain.RawItem, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	if f.concurrency > 0 {
		g.SetLimit(f.concurrency)
	}
	for i, id := range ids {
		g.Go(func() error {
			item, err := f.source.GetItem(gctx, id)
			if err != nil {
				logger.Error("Download of item %s failed: %v", id, err)
				return fmt.Errorf("fetch item %s: %w", id, err)
			}
			if item != nil {
				item.SanitizeType()
			}
			if f.debug != nil {
				if err := f.debug.Dump(id, item); err != nil {
					logger.Warn("Failed to write dump of item %s: %v", id, err)
				}
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
