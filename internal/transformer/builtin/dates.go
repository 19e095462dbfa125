package builtin

import (
	"fmt"
	"time"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

// ParseDates converts Text cells of the named columns into Date cells using
// one fixed layout. There is no fallback layout: the first non-matching cell
// aborts the step with a *ParseError. Missing cells stay Missing and cells
// that are already dates are left alone.
//
// Columns are located by whitespace-trimmed header name because this step
// runs before header names are trimmed.
type ParseDates struct {
	Columns []string
	Layout  string // Go reference layout, e.g. "1/2/2006"

	// Parsed counts the cells converted by the last Apply.
	Parsed int
}

func (p *ParseDates) Name() string { return "parse_dates" }

func (p *ParseDates) Apply(t *table.Table) error {
	p.Parsed = 0

	idx := make([]int, len(p.Columns))
	for i, name := range p.Columns {
		j := t.IndexTrimmed(name)
		if j < 0 {
			return fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		idx[i] = j
	}

	for ri, r := range t.Rows {
		for ci, j := range idx {
			c := r[j]
			switch c.Kind {
			case table.KindMissing, table.KindDate:
				continue
			case table.KindText:
				d, err := time.Parse(p.Layout, c.Str)
				if err != nil {
					return &ParseError{Column: p.Columns[ci], Row: ri + 1, Value: c.Str, Layout: p.Layout, Err: err}
				}
				r[j] = table.Date(d)
				p.Parsed++
			default:
				return &ParseError{
					Column: p.Columns[ci], Row: ri + 1, Value: c.String(), Layout: p.Layout,
					Err: fmt.Errorf("unexpected %s cell", c.Kind),
				}
			}
		}
	}
	return nil
}
