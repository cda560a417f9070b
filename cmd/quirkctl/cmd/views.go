package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Pranav2188/water-pollution-quirklab/internal/analytics"
)

func newViewsCmd() *cobra.Command {
	var (
		file  string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "views",
		Short: "Show the file-backed page view counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViews(cmd, afero.NewOsFs(), file, reset)
		},
	}

	cmd.Flags().StringVar(&file, "file", "data/views.json", "Path of the views file")
	cmd.Flags().BoolVar(&reset, "reset", false, "Set the counter back to zero")
	return cmd
}

func runViews(cmd *cobra.Command, fs afero.Fs, file string, reset bool) error {
	counter := analytics.NewCounter(analytics.NewFileStore(fs, file))
	defer counter.Close()

	ctx := cmd.Context()
	if reset {
		if err := counter.Reset(ctx); err != nil {
			return err
		}
	}
	total, err := counter.Total(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Total views: %d\n", total)
	return nil
}
