package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ocesync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "ocesync",
	Short: "Synchronise content and media from a headless content server",
	Long: `ocesync pulls every item of a publishing channel, normalises it,
downloads digital asset binaries and registers the result as nodes.

Binaries that did not change since the previous run are reused from the
media cache instead of being downloaded again.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print debug and info logs")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "configuration file (default ./ocesync.toml)")
}

// SetVersion sets the version reported by the CLI and the User-Agent.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
