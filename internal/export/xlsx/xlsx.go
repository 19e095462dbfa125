// Package xlsx writes a table.Table to an Excel workbook with excelize.
//
// The first row holds the column names. Number cells are written as numeric
// cells, dates and text as strings, and missing cells are left empty.
package xlsx

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

// DefaultSheet names the worksheet when none is given.
const DefaultSheet = "Sheet1"

// WriteFile writes t to a new workbook at path, creating parent directories
// as needed. An existing file is replaced.
func WriteFile(path, sheet string, t *table.Table) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create xlsx directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("xlsx: rename sheet: %w", err)
		}
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("xlsx: stream writer: %w", err)
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("xlsx: header: %w", err)
	}

	vals := make([]any, len(t.Columns))
	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+1, err)
		}
		if cap(vals) < len(r) {
			vals = make([]any, len(r))
		}
		vals = vals[:len(r)]
		for j, c := range r {
			vals[j] = cellValue(c)
		}
		if err := sw.SetRow(cell, vals); err != nil {
			return fmt.Errorf("xlsx: row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx: flush: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", path, err)
	}
	return nil
}

func cellValue(c table.Cell) any {
	switch c.Kind {
	case table.KindMissing:
		return nil
	case table.KindNumber:
		return c.Num
	default:
		return c.String()
	}
}
