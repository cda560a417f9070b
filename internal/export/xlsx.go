// Package export writes the pollution series to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Pranav2188/water-pollution-quirklab/internal/chart"
)

// SheetName is the worksheet holding the series.
const SheetName = "Pollution"

// ContentType is the MIME type of the workbooks WriteSeries produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteSeries writes the records in the inclusive index range d as an xlsx
// workbook: a bold header row of "Year" and the field labels, then one row per year.
func WriteSeries(w io.Writer, series chart.Series, d chart.Domain) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	header := []any{"Year"}
	for _, field := range series.Fields() {
		header = append(header, Header(field))
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, rec := range series.Slice(d.Start, d.End) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{rec.Year}
		for _, v := range rec.Values {
			row = append(row, v)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write year %d: %w", rec.Year, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "D", 28); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}
	return f.Write(w)
}

// Header labels a field column with its unit, e.g. "Unsafe water (%)".
func Header(field chart.Field) string {
	if field.Unit == "" {
		return field.Label
	}
	return fmt.Sprintf("%s (%s)", field.Label, field.Unit)
}
