package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to columns) and return the number of rows
// reported as inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// RowValues converts a row to driver values: the rendered text of each cell,
// or nil for a missing cell so it lands as SQL NULL.
func RowValues(r table.Row) []any {
	out := make([]any, len(r))
	for i, c := range r {
		if c.IsMissing() {
			continue
		}
		out[i] = c.String()
	}
	return out
}

// LoadTable groups the rows of t into batches of batchSize and calls copyFn
// for each. It returns the total reported by copyFn and the first error.
// columns names the destination columns in table order.
//
// A progress line is logged on every successful flush.
func LoadTable(ctx context.Context, t *table.Table, columns []string, batchSize int, copyFn CopyFn) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}
	if len(columns) != len(t.Columns) {
		return 0, fmt.Errorf("loader: %d destination columns for %d table columns", len(columns), len(t.Columns))
	}

	var (
		total   int64
		batches int64
		batch   = make([][]any, 0, batchSize)
		start   = time.Now()
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		batch = batch[:0]
		if err != nil {
			log.Printf("loader: copy failed after=%d total=%d err=%v", n, total, err)
			return err
		}
		batches++
		log.Printf("batch #%d: inserted=%d total_inserted=%d elapsed=%s",
			batches, n, total, time.Since(start).Truncate(time.Millisecond))
		return nil
	}

	for _, r := range t.Rows {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		batch = append(batch, RowValues(r))
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
