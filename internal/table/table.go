package table

import "strings"

// Row is one record; cells are aligned with Table.Columns.
type Row []Cell

// Equal reports whether r and o hold the same cells in the same positions.
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if !r[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// AppendKey appends the concatenated cell keys of r to dst.
func (r Row) AppendKey(dst []byte) []byte {
	for _, c := range r {
		dst = c.AppendKey(dst)
	}
	return dst
}

// Table is an ordered collection of rows sharing a fixed set of named
// columns. It is owned by a single caller and is not safe for concurrent use.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with a copy of the given column names.
func New(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Index returns the position of the column named name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// IndexTrimmed is like Index but compares whitespace-trimmed names, so it
// finds " Order Date " when asked for "Order Date".
func (t *Table) IndexTrimmed(name string) int {
	name = strings.TrimSpace(name)
	for i, c := range t.Columns {
		if strings.TrimSpace(c) == name {
			return i
		}
	}
	return -1
}

// Append adds a row. Short rows are padded with Missing cells; the caller is
// responsible for rejecting rows wider than the header.
func (t *Table) Append(r Row) {
	for len(r) < len(t.Columns) {
		r = append(r, Missing())
	}
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Strings renders every row through Cell.String, aligned with Columns.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rec := make([]string, len(r))
		for j, c := range r {
			rec[j] = c.String()
		}
		out[i] = rec
	}
	return out
}
