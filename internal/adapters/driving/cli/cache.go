package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the media cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every media cache entry",
	Long: `Deletes every media cache entry so the next sync downloads every
binary again. Registered nodes are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	app, err := appFactory(appOptions{ConfigPath: configFlag})
	if err != nil {
		return err
	}
	defer app.Close()

	clearable, ok := app.Cache.(driven.ClearableCache)
	if !ok {
		return fmt.Errorf("the %s cache backend cannot be cleared", app.Settings.Cache.Backend)
	}
	if err := clearable.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	cmd.Println("Media cache cleared.")
	return nil
}
