// Command atomkit is the dataset management CLI.
package main

import (
	"github.com/molforge/atomkit/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	cli.ExitOnError(cli.Execute())
}
