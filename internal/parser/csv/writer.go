package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

// Write serializes t to w: one header row of column names, then every row
// rendered through table.Cell.String. Fields are quoted only when needed and
// records end in "\n". No index column is emitted.
func Write(w io.Writer, t *table.Table, comma rune) error {
	cw := csv.NewWriter(w)
	if comma != 0 {
		cw.Comma = comma
	}

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for i, r := range t.Rows {
		if cap(rec) < len(r) {
			rec = make([]string, len(r))
		}
		rec = rec[:len(r)]
		for j, c := range r {
			rec[j] = c.String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates (or truncates) path, creating parent directories as
// needed, and writes t to it. A failure part-way leaves whatever was written.
func WriteFile(path string, t *table.Table, comma rune) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := Write(f, t, comma); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
