package builtin

import (
	"github.com/zeebo/xxh3"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

// DeDup removes every row that is a full-value duplicate of an earlier row,
// keeping the first occurrence. Surviving rows keep their relative order.
//
// Rows are bucketed by the xxh3 hash of their kind-tagged key and confirmed
// with a cell-by-cell comparison, so a hash collision can never drop a
// distinct row.
type DeDup struct {
	// Dropped counts the rows removed by the last Apply.
	Dropped int
}

func (d *DeDup) Name() string { return "deduplicate" }

func (d *DeDup) Apply(t *table.Table) error {
	d.Dropped = 0
	if len(t.Rows) < 2 {
		return nil
	}

	buckets := make(map[uint64][]int, len(t.Rows))
	out := t.Rows[:0]
	var key []byte

	for _, r := range t.Rows {
		key = r.AppendKey(key[:0])
		h := xxh3.Hash(key)

		dup := false
		for _, k := range buckets[h] {
			if out[k].Equal(r) {
				dup = true
				break
			}
		}
		if dup {
			d.Dropped++
			continue
		}
		buckets[h] = append(buckets[h], len(out))
		out = append(out, r)
	}

	// Release references held by the tail of the reused backing array.
	for i := len(out); i < len(t.Rows); i++ {
		t.Rows[i] = nil
	}
	t.Rows = out
	return nil
}
