// Package cli implements the command-line interface using cobra.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ghexplore/ghexplore-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ghexplore",
	Short: "Browse GitHub users and their repositories from the terminal",
	Long: `ghexplore is an interactive terminal UI for exploring GitHub.

Type to search for users as you go, pick one from the suggestion list
and browse their public repositories with filtering, sorting and a
grid or list layout.

Controls:
  ↑/↓      Navigate suggestions
  Enter    Select a user
  Esc      Close the suggestion list
  /        Filter repositories
  s        Cycle sort order
  l        Cycle language filter
  v        Toggle grid/list layout
  ctrl+c   Quit`,
	SilenceUsage: true,
	RunE:         runExplore,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
