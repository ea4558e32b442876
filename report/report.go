// Package report writes a spreadsheet summarising a batch run.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/docmerge/batch"
)

// SheetName is the worksheet holding the per-row results.
const SheetName = "Report"

var header = []any{"Row", "Status", "Output", "Error"}

// Path returns the report location for a run with prefix in dir.
func Path(dir, prefix string) string {
	return filepath.Join(dir, prefix+"_report.xlsx")
}

// Write saves out as an xlsx workbook at path: one line per processed row,
// then a blank line and the run summary.
func Write(path string, out batch.Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	line := 1
	put := func(values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		line++
		return f.SetSheetRow(SheetName, cell, &values)
	}

	if err := put(header); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return err
	}

	for _, r := range out.Rows {
		status, msg := "ok", ""
		if r.Err != nil {
			status, msg = "failed", r.Err.Error()
		}
		if err := put([]any{r.Row, status, r.Output, msg}); err != nil {
			return err
		}
	}

	line++
	summary := [][]any{
		{"State", out.State.String()},
		{"Processed", fmt.Sprintf("%d/%d", out.Processed, out.Total)},
		{"Consolidated", out.Consolidated},
	}
	if out.ConsolidateErr != nil {
		summary = append(summary, []any{"Consolidation error", out.ConsolidateErr.Error()})
	}
	for _, s := range summary {
		if err := put(s); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "C", "D", 48); err != nil {
		return err
	}
	return f.SaveAs(path)
}
