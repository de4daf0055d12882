// Command ocesync synchronises a content channel into the node registry.
package main

import (
	"os"

	"github.com/custodia-labs/ocesync/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = ""

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
