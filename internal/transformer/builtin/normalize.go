package builtin

import (
	"strings"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

// Normalize strips leading and trailing whitespace from every column name
// and from every Text cell in every column. Number, Date and Missing cells
// are not touched.
type Normalize struct {
	// Trimmed counts the Text cells whose value changed in the last Apply.
	Trimmed int
}

func (n *Normalize) Name() string { return "trim_whitespace" }

func (n *Normalize) Apply(t *table.Table) error {
	n.Trimmed = 0
	for i, c := range t.Columns {
		t.Columns[i] = strings.TrimSpace(c)
	}
	for _, r := range t.Rows {
		for j, c := range r {
			if c.Kind != table.KindText {
				continue
			}
			if s := strings.TrimSpace(c.Str); s != c.Str {
				r[j] = table.Text(s)
				n.Trimmed++
			}
		}
	}
	return nil
}
