package builtin

import "github.com/lily4499/superstore-sql-project/internal/table"

// FillMissing replaces Missing cells in the named columns with a Number.
// Missing cells in other columns are kept. A named column the table does not
// have is skipped.
type FillMissing struct {
	Columns []string
	Value   float64

	// Filled counts the cells replaced by the last Apply.
	Filled int
}

func (f *FillMissing) Name() string { return "fill_missing" }

func (f *FillMissing) Apply(t *table.Table) error {
	f.Filled = 0
	for _, name := range f.Columns {
		j := t.Index(name)
		if j < 0 {
			continue
		}
		for _, r := range t.Rows {
			if r[j].IsMissing() {
				r[j] = table.Number(f.Value)
				f.Filled++
			}
		}
	}
	return nil
}
