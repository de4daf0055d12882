package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the resolved settings",
	Long: `Shows the settings a sync would run with, after defaults have been
applied to the configuration file. Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	app, err := appFactory(appOptions{ConfigPath: configFlag})
	if err != nil {
		return err
	}
	defer app.Close()

	s := app.Settings
	cmd.Printf("Config file:      %s\n", app.ConfigPath)
	cmd.Printf("Content server:   %s\n", orUnset(s.ContentServer))
	cmd.Printf("Channel token:    %s\n", maskSecret(s.ChannelToken))
	cmd.Printf("Mode:             %s\n", s.Mode())
	cmd.Printf("Proxy:            %s\n", orUnset(s.ProxyURL))
	cmd.Printf("Items:            limit %d, %s pagination, query %q\n", s.ItemsLimit, s.Pagination, s.ItemsQuery)
	cmd.Printf("Renditions:       %s\n", s.Renditions)
	cmd.Printf("Authentication:   %s\n", authSummary(s))
	if s.StaticAssetDownload {
		cmd.Printf("Media delivery:   static (%s/%s, prefix %q)\n", s.StaticPublicDir, s.StaticAssetRootDir, s.StaticURLPrefix)
	} else {
		cmd.Printf("Media delivery:   registry\n")
	}
	cmd.Printf("Registry:         %s\n", s.RegistryBackend)
	cmd.Printf("Media cache:      %s\n", s.Cache.Backend)
	cmd.Printf("Data directory:   %s\n", s.DataDir)
	cmd.Printf("Debug dumps:      %t (%s)\n", s.Debug, s.DebugDir)
	return nil
}

func authSummary(s *domain.SyncSettings) string {
	switch {
	case s.OAuth.Complete():
		return "OAuth client credentials (" + s.OAuth.ClientID + ")"
	case s.AuthStr != "":
		return "fixed authorization " + maskSecret(s.AuthStr)
	default:
		return "none"
	}
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

// maskSecret keeps the last four characters of a secret.
func maskSecret(v string) string {
	if v == "" {
		return "(not set)"
	}
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}
