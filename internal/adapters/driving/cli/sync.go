package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driving"
	"github.com/custodia-labs/ocesync/internal/core/services"
)

var (
	syncPreviewFlag bool
	syncStaticFlag  bool
	syncDebugFlag   bool
	syncPruneFlag   bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the configured channel",
	Long: `Lists and fetches every item of the configured channel, downloads the
binaries of digital assets and registers the result as nodes.

Flags override the matching keys of the configuration file.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncPreviewFlag, "preview", false, "read preview content instead of published content")
	syncCmd.Flags().BoolVar(&syncStaticFlag, "static", false, "write binaries below the static root instead of registering file nodes")
	syncCmd.Flags().BoolVar(&syncDebugFlag, "debug", false, "dump raw listing and item JSON to the debug directory")
	syncCmd.Flags().BoolVar(&syncPruneFlag, "prune", false, "delete nodes not created or touched by this run")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	overrides := map[string]any{}
	if cmd.Flags().Changed("preview") {
		overrides[services.KeyPreview] = syncPreviewFlag
	}
	if cmd.Flags().Changed("static") {
		overrides[services.KeyStaticDownload] = syncStaticFlag
	}
	if cmd.Flags().Changed("debug") {
		overrides[services.KeyDebug] = syncDebugFlag
	}

	app, err := appFactory(appOptions{ConfigPath: configFlag, Overrides: overrides, Prune: syncPruneFlag})
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Orchestrator == nil {
		return errors.New("sync service not configured")
	}

	cmd.Printf("Synchronising channel from %s...\n", app.Settings.ContentServer)
	report, err := syncWithProgress(cmd.Context(), cmd, app.Orchestrator)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}

// syncWithProgress runs sync while displaying progress updates.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	syncOrch driving.SyncOrchestrator,
) (*domain.SyncReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	type result struct {
		report *domain.SyncReport
		err    error
	}
	done := make(chan result, 1)
	go func() {
		report, err := syncOrch.Sync(ctx)
		done <- result{report, err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var last driving.SyncStatus
	for {
		select {
		case r := <-done:
			return r.report, r.err
		case <-ticker.C:
			status := syncOrch.Status(ctx)
			if status == nil || !status.Running {
				continue
			}
			if status.Stage != last.Stage || status.ItemsListed != last.ItemsListed || status.MediaProcessed != last.MediaProcessed {
				cmd.Printf("\r%-12s listed %d, media %d", status.Stage, status.ItemsListed, status.MediaProcessed)
				last = *status
			}
		}
	}
}

func printReport(cmd *cobra.Command, r *domain.SyncReport) {
	cmd.Printf("\nItems:    %d listed, %d fetched, %d records\n", r.Listed, r.Fetched, r.Records)
	cmd.Printf("Nodes:    %d registered, %d file links\n", r.Nodes, r.Links)
	cmd.Printf("Media:    %d reused, %d downloaded, %d failed\n", r.Media.Reused, r.Media.Downloaded, r.Media.Failed)
	if r.Pruned > 0 {
		cmd.Printf("Pruned:   %d stale nodes\n", r.Pruned)
	}
	if len(r.Problems) == 0 {
		return
	}
	cmd.Printf("Problems: %d\n", len(r.Problems))
	for _, p := range r.Problems {
		cmd.Printf("  - %s\n", p)
	}
}
