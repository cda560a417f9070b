package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
)

func newZoomCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "zoom in|out|reset...",
		Short: "Replay zoom operations and print each domain",
		Long: `Apply a sequence of zoom operations to a fresh viewport and print the
domain and zoom level after each one. Without --len the dataset's length is used
and the domain is also shown as years.

Examples:
  quirkctl zoom in in in out
  quirkctl zoom --len 10 in reset`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var years chart.Series
			if length <= 0 {
				years = content.PollutionSeries()
				length = years.Len()
			}

			v := chart.NewViewport(length)
			rows := [][]string{zoomRow("start", v, true, years)}
			for _, op := range args {
				var applied bool
				switch op {
				case "in":
					v, applied = v.ZoomIn()
				case "out":
					v, applied = v.ZoomOut()
				case "reset":
					v, applied = v.Reset(), true
				default:
					return fmt.Errorf("unknown operation %q (want in, out or reset)", op)
				}
				rows = append(rows, zoomRow(op, v, applied, years))
			}

			renderTable(cmd.OutOrStdout(), []string{"Op", "Domain", "Years", "Zoom", "Applied"}, rows, 3)
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "len", 0, "Series length to simulate (default: the dataset)")
	return cmd
}

func zoomRow(op string, v chart.Viewport, applied bool, years chart.Series) []string {
	d := v.Domain()
	span := "-"
	if years.Len() > 0 {
		span = fmt.Sprintf("%d-%d", years.At(d.Start).Year, years.At(d.End).Year)
	}
	return []string{
		op,
		fmt.Sprintf("%d-%d", d.Start, d.End),
		span,
		strconv.FormatFloat(v.Zoom(), 'f', -1, 64) + "x",
		strconv.FormatBool(applied),
	}
}
