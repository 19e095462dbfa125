package builtin

import (
	"testing"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

// textTable builds a table whose cells are Text, except "" which is Missing.
func textTable(t *testing.T, cols []string, rows ...[]string) *table.Table {
	t.Helper()
	tb := table.New(cols)
	for _, rec := range rows {
		if len(rec) != len(cols) {
			t.Fatalf("row %v has %d cells, want %d", rec, len(rec), len(cols))
		}
		r := make(table.Row, len(rec))
		for i, v := range rec {
			if v == "" {
				r[i] = table.Missing()
				continue
			}
			r[i] = table.Text(v)
		}
		tb.Append(r)
	}
	return tb
}
