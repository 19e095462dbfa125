package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lily4499/superstore-sql-project/internal/table"
)

func numberedTable(n int) *table.Table {
	tb := table.New([]string{"id", "note"})
	for i := 0; i < n; i++ {
		note := table.Missing()
		if i%2 == 0 {
			note = table.Text("even")
		}
		tb.Append(table.Row{table.Number(float64(i)), note})
	}
	return tb
}

// TestLoadTableBatches verifies rows are grouped into batches and the total
// equals the sum of all successful copyFn returns.
func TestLoadTableBatches(t *testing.T) {
	t.Parallel()

	var sizes []int
	var first [][]any
	copyFn := func(_ context.Context, cols []string, rows [][]any) (int64, error) {
		if first == nil {
			first = append([][]any(nil), rows...)
		}
		sizes = append(sizes, len(rows))
		return int64(len(rows)), nil
	}

	total, err := LoadTable(context.Background(), numberedTable(7), []string{"id", "note"}, 3, copyFn)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if total != 7 {
		t.Fatalf("total=%d want 7", total)
	}
	if diff := cmp.Diff([]int{3, 3, 1}, sizes); diff != "" {
		t.Fatalf("batch sizes (-want +got):\n%s", diff)
	}
	want := [][]any{{"0", "even"}, {"1", nil}, {"2", "even"}}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("first batch (-want +got):\n%s", diff)
	}
}

// TestLoadTableErrorPropagation ensures the first copy error stops loading.
func TestLoadTableErrorPropagation(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("copy failed")
	calls := 0
	copyFn := func(_ context.Context, _ []string, rows [][]any) (int64, error) {
		calls++
		if calls == 2 {
			return 1, wantErr
		}
		return int64(len(rows)), nil
	}

	total, err := LoadTable(context.Background(), numberedTable(10), []string{"id", "note"}, 2, copyFn)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err=%v want %v", err, wantErr)
	}
	if calls != 2 || total != 3 {
		t.Fatalf("calls=%d total=%d want 2 and 3", calls, total)
	}
}

func TestLoadTableArguments(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, []string, [][]any) (int64, error) { return 0, nil }
	tb := numberedTable(1)
	ctx := context.Background()

	if _, err := LoadTable(ctx, tb, tb.Columns, 0, noop); err == nil {
		t.Error("expected error for zero batch size")
	}
	if _, err := LoadTable(ctx, tb, tb.Columns, 1, nil); err == nil {
		t.Error("expected error for nil copyFn")
	}
	if _, err := LoadTable(ctx, tb, []string{"id"}, 1, noop); err == nil {
		t.Error("expected error for column count mismatch")
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := LoadTable(canceled, tb, tb.Columns, 1, noop); !errors.Is(err, context.Canceled) {
		t.Errorf("err=%v want context.Canceled", err)
	}
}

func TestLoadTableEmpty(t *testing.T) {
	t.Parallel()

	called := false
	copyFn := func(context.Context, []string, [][]any) (int64, error) {
		called = true
		return 0, nil
	}
	total, err := LoadTable(context.Background(), numberedTable(0), []string{"id", "note"}, 5, copyFn)
	if err != nil || total != 0 || called {
		t.Fatalf("total=%d err=%v called=%v", total, err, called)
	}
}
