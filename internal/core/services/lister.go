package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
	"github.com/custodia-labs/ocesync/internal/logger"
)

// ListOptions controls one listing.
type ListOptions struct {
	Protocol domain.PaginationProtocol
	Limit    int
	Query    string
}

// ItemLister pages through the item listing.
type ItemLister struct {
	source driven.ContentSource
	debug  driven.DebugSink

	// progress, when set, receives the running item count after each page.
	progress func(listed int)
}

// NewItemLister creates a lister. debug may be nil.
func NewItemLister(source driven.ContentSource, debug driven.DebugSink) *ItemLister {
	return &ItemLister{source: source, debug: debug}
}

// List returns the listed items in server order with hyphen-free types.
//
// A failing page ends the listing: the items gathered so far are returned
// together with a transport problem. Only context cancellation is an error.
func (l *ItemLister) List(ctx context.Context, opts ListOptions) ([]domain.RawItem, []domain.Problem, error) {
	var (
		items    []domain.RawItem
		problems []domain.Problem
		err      error
	)
	if opts.Protocol == domain.PaginationOffset {
		items, problems, err = l.listOffset(ctx, opts)
	} else {
		items, problems, err = l.listScroll(ctx, opts)
	}
	if err != nil {
		return nil, problems, err
	}

	for _, item := range items {
		if item != nil {
			item.SanitizeType()
		}
	}

	if l.debug != nil {
		if err := l.debug.Dump("items", items); err != nil {
			logger.Warn("Failed to write listing dump: %v", err)
		}
	}
	logger.Info("Listed %d items", len(items))
	return items, problems, nil
}

// listScroll reuses the scroll token of the first page until a page is empty.
func (l *ItemLister) listScroll(ctx context.Context, opts ListOptions) ([]domain.RawItem, []domain.Problem, error) {
	req := driven.ListRequest{
		Protocol: domain.PaginationScroll,
		Limit:    pageLimit(opts.Limit),
		Query:    opts.Query,
	}
	if req.Query == "" {
		req.Query = domain.DefaultScrollQuery
	}

	var items []domain.RawItem
	for {
		page, err := l.source.ListItems(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			return items, []domain.Problem{l.pageProblem(req, err)}, nil
		}
		if page.Count == 0 || len(page.Items) == 0 {
			logger.Debug("Finished listing after %d items", len(items))
			return items, nil, nil
		}

		items = append(items, page.Items...)
		l.report(len(items))
		req.Limit = clampLimit(req.Limit, page.Limit)

		if req.ScrollID == "" {
			if page.ScrollID == "" {
				logger.Warn("Listing returned no scroll token; stopping after %d items", len(items))
				return items, nil, nil
			}
			req.ScrollID = page.ScrollID
		}
	}
}

// listOffset advances the offset by the page size until totalResults is reached.
func (l *ItemLister) listOffset(ctx context.Context, opts ListOptions) ([]domain.RawItem, []domain.Problem, error) {
	req := driven.ListRequest{
		Protocol: domain.PaginationOffset,
		Limit:    pageLimit(opts.Limit),
		Query:    opts.Query,
	}

	var items []domain.RawItem
	for {
		page, err := l.source.ListItems(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			return items, []domain.Problem{l.pageProblem(req, err)}, nil
		}

		items = append(items, page.Items...)
		l.report(len(items))

		req.Offset += req.Limit
		switch {
		case len(page.Items) == 0:
			return items, nil, nil
		case page.TotalResults > 0 && req.Offset >= page.TotalResults:
			return items, nil, nil
		case page.TotalResults == 0 && !page.HasMore:
			return items, nil, nil
		}
	}
}

func (l *ItemLister) pageProblem(req driven.ListRequest, err error) domain.Problem {
	target := fmt.Sprintf("offset=%d", req.Offset)
	if req.Protocol == domain.PaginationScroll {
		target = "scrollId=" + req.ScrollID
	}
	logger.Warn("Failed listing items (%s), keeping items listed so far: %v", target, err)
	return domain.Problem{Kind: domain.ErrorKindTransport, Op: "list", Target: target, Err: err}
}

func (l *ItemLister) report(listed int) {
	if l.progress != nil {
		l.progress(listed)
	}
}

func pageLimit(limit int) int {
	if limit > 0 {
		return limit
	}
	return domain.FallbackItemsLimit
}

// clampLimit lowers the page size to the server's maximum when it reports one.
func clampLimit(requested, served int) int {
	if served > 0 && served < requested {
		return served
	}
	return requested
}

// itemIDs returns the ids of the listed items in order, skipping items without one.
func itemIDs(items []domain.RawItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, _ := item[domain.AttrID].(string)
		if id == "" {
			logger.Warn("Skipping listed item without id")
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
