package driving

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// SyncOrchestrator runs one synchronisation of the configured channel.
type SyncOrchestrator interface {
	// Sync lists, fetches, normalises and materialises every item of the
	// channel. A returned error means no nodes were produced by this run.
	Sync(ctx context.Context) (*domain.SyncReport, error)

	// Status returns the progress of the running sync.
	Status(ctx context.Context) *SyncStatus
}

// SyncStage names the step a running sync is in.
type SyncStage string

// Sync stages in execution order.
const (
	StageIdle        SyncStage = "idle"
	StageListing     SyncStage = "listing"
	StageFetching    SyncStage = "fetching"
	StageNormalising SyncStage = "normalising"
	StageMedia       SyncStage = "media"
	StageNodes       SyncStage = "nodes"
)

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// Running indicates if sync is currently in progress.
	Running bool

	// Stage is the step in progress.
	Stage SyncStage

	// ItemsListed is the number of identifiers collected so far.
	ItemsListed int

	// MediaProcessed is the number of media entries resolved so far.
	MediaProcessed int
}
