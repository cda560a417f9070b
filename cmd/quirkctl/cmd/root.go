package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the quirkctl command tree. Each call returns fresh
// flag state.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "quirkctl",
		Short: "Quirk Lab operator tool",
		Long: `quirkctl inspects the water pollution dataset and the site's runtime state.

Available commands:
  series    Print the dataset, or export it as xlsx
  zoom      Replay zoom operations and print each resulting domain
  views     Show or reset the file-backed view counter
  topics    List the registered pub/sub topics
  version   Print the version

Use "quirkctl [command] --help" for more information about a specific command.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newSeriesCmd(),
		newZoomCmd(),
		newViewsCmd(),
		newTopicsCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
