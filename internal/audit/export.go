package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX returns the audit trail as an XLSX workbook (as bytes).
func (s *Store) ExportXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	entries, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Audit Log"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Processed At",
		"Filename",
		"Vendor",
		"Total",
		"Risk Level",
		"Action Hash",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range entries {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, e.CreatedAt.Format("2006-01-02 15:04:05"))
		write(2, e.Filename)
		write(3, e.Vendor)
		write(4, e.Total)
		write(5, e.RiskLevel)
		write(6, e.ActionHash)
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 20) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 32) // filename
	_ = f.SetColWidth(sheet, "C", "C", 28) // vendor
	_ = f.SetColWidth(sheet, "D", "E", 14) // total, risk
	_ = f.SetColWidth(sheet, "F", "F", 68) // hash

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("audit.export.xlsx.ok",
		"rows", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
