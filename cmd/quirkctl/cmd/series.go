package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
	"github.com/Pranav2188/water-pollution-quirklab/internal/content"
	"github.com/Pranav2188/water-pollution-quirklab/internal/export"
)

func newSeriesCmd() *cobra.Command {
	var (
		from, to int
		xlsxPath string
	)

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print the pollution dataset",
		Long: `Print the 2000-2024 water pollution dataset as a table.

Examples:
  quirkctl series                       # every year
  quirkctl series --from 10 --to 14     # index range, inclusive
  quirkctl series --xlsx pollution.xlsx # write a workbook instead`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			series := content.PollutionSeries()
			d, err := seriesRange(series, from, to)
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				return writeWorkbook(afero.NewOsFs(), xlsxPath, series, d)
			}

			header := []string{"Year"}
			for _, f := range series.Fields() {
				header = append(header, export.Header(f))
			}
			var rows [][]string
			for _, rec := range series.Slice(d.Start, d.End) {
				row := []string{strconv.Itoa(rec.Year)}
				for _, v := range rec.Values {
					row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
				}
				rows = append(rows, row)
			}
			renderTable(cmd.OutOrStdout(), header, rows, 1)
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "First index to print")
	cmd.Flags().IntVar(&to, "to", -1, "Last index to print (default: last record)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write an xlsx workbook to this path instead of printing")
	return cmd
}

func seriesRange(series chart.Series, from, to int) (chart.Domain, error) {
	if to < 0 {
		to = series.MaxIndex()
	}
	if from < 0 || from > to || to > series.MaxIndex() {
		return chart.Domain{}, fmt.Errorf("invalid range %d-%d for %d records", from, to, series.Len())
	}
	return chart.Domain{Start: from, End: to}, nil
}

func writeWorkbook(fs afero.Fs, path string, series chart.Series, d chart.Domain) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteSeries(f, series, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
