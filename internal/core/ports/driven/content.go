package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// ListRequest asks for one page of the item listing.
type ListRequest struct {
	// Protocol selects the continuation parameters sent.
	Protocol domain.PaginationProtocol

	// Limit is the page size.
	Limit int

	// Query is the filter expression. Empty means the protocol default.
	Query string

	// ScrollID continues a scroll listing. Empty on the first request.
	ScrollID string

	// Offset is the position of the first item under the offset protocol.
	Offset int
}

// ItemPage is one page of the item listing.
type ItemPage struct {
	// Count is the number of items on this page (scroll protocol).
	Count int

	// HasMore reports whether more pages follow (offset protocol).
	HasMore bool

	// Limit is the page size the server applied, 0 when not reported.
	Limit int

	// TotalResults is the size of the full result set (offset protocol).
	TotalResults int

	// ScrollID is the continuation token (scroll protocol).
	ScrollID string

	// Items are the listed items. Only identity attributes are relied upon.
	Items []domain.RawItem
}

// ContentSource is the transport to the content server's delivery API.
type ContentSource interface {
	// ListItems fetches one page of the item listing.
	ListItems(ctx context.Context, req ListRequest) (*ItemPage, error)

	// GetItem fetches the full record of one item.
	// The returned item is nil when the server answered with JSON null.
	GetItem(ctx context.Context, id string) (domain.RawItem, error)
}

// BinarySource opens binaries on the content server using the run's credential.
type BinarySource interface {
	// OpenBinary starts a download. The caller must close the reader.
	OpenBinary(ctx context.Context, url string) (io.ReadCloser, error)
}

// DebugSink receives raw JSON documents for offline inspection.
type DebugSink interface {
	// Reset discards earlier dumps and, when create is true, prepares for new ones.
	Reset(create bool) error

	// Dump writes v under name.
	Dump(name string, v any) error
}
