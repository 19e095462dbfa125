package cleaner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/lily4499/superstore-sql-project/internal/config"
	"github.com/lily4499/superstore-sql-project/internal/metrics"
	pcsv "github.com/lily4499/superstore-sql-project/internal/parser/csv"
	"github.com/lily4499/superstore-sql-project/internal/transformer/builtin"

	_ "github.com/lily4499/superstore-sql-project/internal/storage/sqlite"
)

const header = "Order Date,Ship Date,Sales,Quantity,Discount,Profit\n"

func writeInput(t *testing.T, body string) (in, out string) {
	t.Helper()
	dir := t.TempDir()
	in = filepath.Join(dir, "superstore_orders.csv")
	out = filepath.Join(dir, "out", "superstore_orders_cleaned.csv")
	require.NoError(t, os.WriteFile(in, []byte(body), 0o644))
	return in, out
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRunEndToEnd(t *testing.T) {
	in, out := writeInput(t, header+
		"01/02/2022,01/05/2022,,3,0.1,12.5\n"+
		"01/02/2022,01/05/2022,,3,0.1,12.5\n")

	st, err := Run(context.Background(), Options{Job: "test", Input: in, Output: out})
	require.NoError(t, err)

	want := header + "2022-01-02,2022-01-05,0,3,0.1,12.5\n"
	if diff := cmp.Diff(want, readOutput(t, out)); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
	wantStats := Stats{RowsRead: 2, DatesParsed: 4, DuplicatesDropped: 1, CellsFilled: 1, RowsWritten: 1}
	if diff := cmp.Diff(wantStats, st); diff != "" {
		t.Fatalf("stats (-want +got):\n%s", diff)
	}
}

// TestRunCleansEveryColumn covers the blanket trim (headers and cells in
// columns outside the named six), dedup after trimming, filling a column
// whose header was padded, and missing values outside the fill columns
// staying empty.
func TestRunCleansEveryColumn(t *testing.T) {
	in, out := writeInput(t,
		" Order Date ,Ship Date, Region , Sales ,Quantity,Discount,Profit,Note\n"+
			"3/15/2023,03/20/2023, West ,10,,0,1.5,\n"+
			"03/15/2023,03/20/2023,West,10,,0,1.5,\n"+
			"04/01/2023,,East,,2,,,keep\n")

	_, err := Run(context.Background(), Options{Input: in, Output: out})
	require.NoError(t, err)

	want := "Order Date,Ship Date,Region,Sales,Quantity,Discount,Profit,Note\n" +
		"2023-03-15,2023-03-20,West,10,0,0,1.5,\n" +
		"2023-04-01,,East,0,2,0,0,keep\n"
	if diff := cmp.Diff(want, readOutput(t, out)); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
}

// TestRunPaddedMissingToken pins how a padded NA token in an ordinary
// column is read: tokens match after trimming, so " None " is missing and
// written empty. Reading "None" as text instead would turn it into missing
// on the next pass and break re-runs on the output.
func TestRunPaddedMissingToken(t *testing.T) {
	in, out := writeInput(t,
		"Order Date,Ship Date,Region,Sales,Quantity,Discount,Profit\n"+
			"01/02/2022,01/05/2022, None ,1,3,0.1,12.5\n"+
			"01/03/2022,01/06/2022, West ,2,3,0.1,12.5\n")

	ctx := context.Background()
	_, err := Run(ctx, Options{Input: in, Output: out})
	require.NoError(t, err)

	want := "Order Date,Ship Date,Region,Sales,Quantity,Discount,Profit\n" +
		"2022-01-02,2022-01-05,,1,3,0.1,12.5\n" +
		"2022-01-03,2022-01-06,West,2,3,0.1,12.5\n"
	first := readOutput(t, out)
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}

	// Region stays empty on a second pass over the re-expressed output.
	again := filepath.Join(t.TempDir(), "again.csv")
	require.NoError(t, os.WriteFile(again, []byte(
		"Order Date,Ship Date,Region,Sales,Quantity,Discount,Profit\n"+
			"01/02/2022,01/05/2022,,1,3,0.1,12.5\n"+
			"01/03/2022,01/06/2022,West,2,3,0.1,12.5\n"), 0o644))
	out2 := filepath.Join(t.TempDir(), "cleaned2.csv")
	_, err = Run(ctx, Options{Input: again, Output: out2})
	require.NoError(t, err)
	if diff := cmp.Diff(first, readOutput(t, out2)); diff != "" {
		t.Fatalf("second pass differs (-first +second):\n%s", diff)
	}
}

// TestRunIdempotent feeds the output back in with dates re-expressed as
// MM/DD/YYYY and expects byte-identical output.
func TestRunIdempotent(t *testing.T) {
	in, out := writeInput(t, header+
		"01/02/2022,01/05/2022,,3,0.1,12.5\n"+
		"01/02/2022,01/05/2022, ,3,0.1,12.5\n"+
		"12/31/2021,01/03/2022,7.25,NA,,-1\n")

	ctx := context.Background()
	_, err := Run(ctx, Options{Input: in, Output: out})
	require.NoError(t, err)
	first := readOutput(t, out)

	tb, err := pcsv.NewParser(pcsv.Options{}).Read(strings.NewReader(first))
	require.NoError(t, err)
	for _, name := range DateColumns {
		j := tb.Index(name)
		for _, r := range tb.Rows {
			if r[j].IsMissing() {
				continue
			}
			s := r[j].Str // YYYY-MM-DD
			r[j].Str = s[5:7] + "/" + s[8:10] + "/" + s[0:4]
		}
	}
	again := filepath.Join(t.TempDir(), "again.csv")
	require.NoError(t, pcsv.WriteFile(again, tb, 0))

	out2 := filepath.Join(t.TempDir(), "cleaned2.csv")
	_, err = Run(ctx, Options{Input: again, Output: out2})
	require.NoError(t, err)

	if diff := cmp.Diff(first, readOutput(t, out2)); diff != "" {
		t.Fatalf("second pass differs (-first +second):\n%s", diff)
	}
}

func TestRunErrorKinds(t *testing.T) {
	ctx := context.Background()

	t.Run("input_not_found", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Run(ctx, Options{Input: filepath.Join(dir, "absent.csv"), Output: filepath.Join(dir, "o.csv")})
		require.ErrorIs(t, err, ErrInputNotFound)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("input_is_directory", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Run(ctx, Options{Input: dir, Output: filepath.Join(dir, "o.csv")})
		require.ErrorIs(t, err, ErrInputNotFound)
	})

	t.Run("empty_input", func(t *testing.T) {
		in, out := writeInput(t, "")
		_, err := Run(ctx, Options{Input: in, Output: out})
		require.ErrorIs(t, err, ErrMalformedInput)
		require.ErrorIs(t, err, pcsv.ErrEmptyInput)
	})

	t.Run("missing_date_column", func(t *testing.T) {
		in, out := writeInput(t, "Order Date,Sales\n01/02/2022,1\n")
		_, err := Run(ctx, Options{Input: in, Output: out})
		require.ErrorIs(t, err, ErrMalformedInput)
		require.ErrorIs(t, err, builtin.ErrMissingColumn)
	})

	t.Run("bad_date_writes_nothing", func(t *testing.T) {
		in, out := writeInput(t, header+"01/02/2022,01/05/2022,1,1,0,1\n2022-01-02,01/05/2022,1,1,0,1\n")
		_, err := Run(ctx, Options{Input: in, Output: out})

		var pe *builtin.ParseError
		require.ErrorAs(t, err, &pe)
		require.Equal(t, "Order Date", pe.Column)
		require.Equal(t, 2, pe.Row)
		require.Equal(t, "2022-01-02", pe.Value)
		_, statErr := os.Stat(out)
		require.ErrorIs(t, statErr, os.ErrNotExist)
	})

	t.Run("output_not_writable", func(t *testing.T) {
		in, _ := writeInput(t, header+"01/02/2022,01/05/2022,1,1,0,1\n")
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
		_, err := Run(ctx, Options{Input: in, Output: filepath.Join(blocker, "o.csv")})
		require.ErrorIs(t, err, ErrOutputWrite)
	})

	t.Run("unknown_storage", func(t *testing.T) {
		in, out := writeInput(t, header+"01/02/2022,01/05/2022,1,1,0,1\n")
		_, err := Run(ctx, Options{Input: in, Output: out, Storage: config.Storage{Kind: "nope"}})
		require.ErrorIs(t, err, ErrStorage)
		// The CSV is written before the sinks run.
		require.FileExists(t, out)
	})
}

func TestRunOptionalSinks(t *testing.T) {
	in, out := writeInput(t, header+"01/02/2022,01/05/2022,,3,0.1,12.5\n")
	dir := t.TempDir()

	opt := OptionsFromConfig(config.Run{
		Job:    "sinks",
		Source: config.Source{Path: in},
		Output: config.Output{Path: out, XLSX: filepath.Join(dir, "cleaned.xlsx")},
		Storage: config.Storage{
			Kind: "sqlite",
			DB: config.DBConfig{
				DSN:             filepath.Join(dir, "clean.db"),
				Table:           "orders_cleaned",
				AutoCreateTable: true,
			},
		},
	})
	st, err := Run(context.Background(), opt)
	require.NoError(t, err)
	require.Equal(t, int64(1), st.RowsStored)
	require.FileExists(t, opt.XLSX)
}

type countingBackend struct {
	steps map[string]int
}

func (c *countingBackend) IncCounter(name string, _ float64, l metrics.Labels) {
	if name == metrics.StepTotal && l["status"] == "success" {
		c.steps[l["step"]]++
	}
}
func (c *countingBackend) ObserveHistogram(string, float64, metrics.Labels) {}
func (c *countingBackend) Flush() error                                     { return nil }

// TestRunRecordsSteps swaps the global metrics backend, so it must not run in
// parallel with other tests.
func TestRunRecordsSteps(t *testing.T) {
	b := &countingBackend{steps: map[string]int{}}
	metrics.SetBackend(b)
	t.Cleanup(func() { metrics.SetBackend(nopBackend{}) })

	in, out := writeInput(t, header+"01/02/2022,01/05/2022,,3,0.1,12.5\n")
	_, err := Run(context.Background(), Options{Job: "m", Input: in, Output: out})
	require.NoError(t, err)

	want := map[string]int{
		"read": 1, "parse_dates": 1, "trim_whitespace": 1,
		"deduplicate": 1, "fill_missing": 1, "write_csv": 1,
	}
	if diff := cmp.Diff(want, b.steps); diff != "" {
		t.Fatalf("steps (-want +got):\n%s", diff)
	}
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, metrics.Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, metrics.Labels) {}
func (nopBackend) Flush() error                                     { return nil }

func TestCleanInMemory(t *testing.T) {
	tb, err := pcsv.NewParser(pcsv.Options{}).Read(strings.NewReader(header + "1/2/2022,1/5/2022,,3,0.1,12.5\n"))
	require.NoError(t, err)
	require.NoError(t, Clean(tb))
	if diff := cmp.Diff([][]string{{"2022-01-02", "2022-01-05", "0", "3", "0.1", "12.5"}}, tb.Strings()); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
}
