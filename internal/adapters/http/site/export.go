package site

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/internal/domain/view"
)

const exportSheet = "Health Data"

var exportHeader = []any{"ID", "Village", "Diarrhea Cases", "Fever Cases", "Rainfall", "Risk Level", "Date"}

// WriteWorkbook writes records as a single-sheet xlsx workbook, one row per
// record under a bold header, in the order given.
func WriteWorkbook(w io.Writer, records []model.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("locate row %d: %w", i+2, err)
		}
		date := r.Date
		if date == "" {
			date = view.DatePlaceholder
		}
		row := []any{r.ID, r.Village, r.Diarrhea, r.Fever, r.Rainfall, r.Risk, date}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(exportSheet, "B", "B", 24); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
