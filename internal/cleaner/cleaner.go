// Package cleaner runs the fixed cleaning pipeline over one CSV file:
// parse dates, trim whitespace, drop duplicate rows, fill missing numbers,
// write the result. Optional sinks copy the cleaned table to a workbook and
// a database.
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/lily4499/superstore-sql-project/internal/config"
	"github.com/lily4499/superstore-sql-project/internal/datasource/file"
	"github.com/lily4499/superstore-sql-project/internal/export/xlsx"
	"github.com/lily4499/superstore-sql-project/internal/metrics"
	pcsv "github.com/lily4499/superstore-sql-project/internal/parser/csv"
	"github.com/lily4499/superstore-sql-project/internal/storage"
	"github.com/lily4499/superstore-sql-project/internal/table"
	"github.com/lily4499/superstore-sql-project/internal/transformer"
	"github.com/lily4499/superstore-sql-project/internal/transformer/builtin"
)

// InputDateLayout is the only accepted input date form, month/day/year.
const InputDateLayout = "1/2/2006"

var (
	// DateColumns are parsed from InputDateLayout to ISO dates.
	DateColumns = []string{"Order Date", "Ship Date"}

	// FillColumns get Number 0 in place of missing values.
	FillColumns = []string{"Sales", "Quantity", "Discount", "Profit"}
)

// Error kinds. Returned errors wrap one of these together with the cause, so
// both errors.Is(err, ErrInputNotFound) and errors.Is(err, os.ErrNotExist)
// hold for a missing input. Date failures surface as *builtin.ParseError.
var (
	ErrInputNotFound  = errors.New("input not found")
	ErrMalformedInput = errors.New("malformed input")
	ErrOutputWrite    = errors.New("output write failed")
	ErrStorage        = errors.New("storage sink failed")
)

// Options configures one Run.
type Options struct {
	Job      string
	Input    string
	Encoding string
	Output   string
	XLSX     string
	Storage  config.Storage
}

// OptionsFromConfig maps a resolved run config to Options.
func OptionsFromConfig(r config.Run) Options {
	return Options{
		Job:      r.Job,
		Input:    r.Source.Path,
		Encoding: r.Source.Encoding,
		Output:   r.Output.Path,
		XLSX:     r.Output.XLSX,
		Storage:  r.Storage,
	}
}

// Stats summarizes a successful run.
type Stats struct {
	RowsRead          int
	DatesParsed       int
	CellsTrimmed      int
	DuplicatesDropped int
	CellsFilled       int
	RowsWritten       int
	RowsStored        int64
}

// Steps holds the four in-memory transforms in execution order. Their
// counters are read back after the chain has run.
type Steps struct {
	Dates *builtin.ParseDates
	Trim  *builtin.Normalize
	Dedup *builtin.DeDup
	Fill  *builtin.FillMissing
}

// NewSteps returns the cleaning transforms configured for the order data.
func NewSteps() *Steps {
	return &Steps{
		Dates: &builtin.ParseDates{Columns: DateColumns, Layout: InputDateLayout},
		Trim:  &builtin.Normalize{},
		Dedup: &builtin.DeDup{},
		Fill:  &builtin.FillMissing{Columns: FillColumns, Value: 0},
	}
}

// Chain returns the transforms as a transformer.Chain in pipeline order.
func (s *Steps) Chain() transformer.Chain {
	return transformer.Chain{s.Dates, s.Trim, s.Dedup, s.Fill}
}

// Clean applies the in-memory steps to t.
func Clean(t *table.Table) error {
	return classify(NewSteps().Chain().Apply(t))
}

// Run reads opt.Input, cleans it and writes opt.Output, then feeds the
// optional sinks. Nothing is written when loading or cleaning fails.
func Run(ctx context.Context, opt Options) (Stats, error) {
	var st Stats

	tb, err := load(ctx, opt)
	if err != nil {
		return st, err
	}
	st.RowsRead = tb.Len()
	log.Printf("read: path=%s rows=%d columns=%d", opt.Input, tb.Len(), len(tb.Columns))

	steps := NewSteps()
	observe := func(step string, err error, d time.Duration) {
		metrics.RecordStep(opt.Job, step, err, d)
		if err == nil {
			log.Printf("step=%s rows=%d dur=%s", step, tb.Len(), d.Truncate(time.Microsecond))
		}
	}
	if err := steps.Chain().Run(tb, observe); err != nil {
		return st, classify(err)
	}
	st.DatesParsed = steps.Dates.Parsed
	st.CellsTrimmed = steps.Trim.Trimmed
	st.DuplicatesDropped = steps.Dedup.Dropped
	st.CellsFilled = steps.Fill.Filled

	if err := timed(opt.Job, "write_csv", func() error {
		return pcsv.WriteFile(opt.Output, tb, 0)
	}); err != nil {
		return st, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	st.RowsWritten = tb.Len()

	if opt.XLSX != "" {
		if err := timed(opt.Job, "write_xlsx", func() error {
			return xlsx.WriteFile(opt.XLSX, "", tb)
		}); err != nil {
			return st, fmt.Errorf("%w: %w", ErrOutputWrite, err)
		}
		log.Printf("xlsx: path=%s", opt.XLSX)
	}

	if opt.Storage.Kind != "" {
		err := timed(opt.Job, "store", func() error {
			n, err := store(ctx, opt.Storage, tb)
			st.RowsStored = n
			return err
		})
		if err != nil {
			return st, fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}

	recordStats(opt.Job, st)
	return st, nil
}

func load(ctx context.Context, opt Options) (*table.Table, error) {
	var tb *table.Table
	err := timed(opt.Job, "read", func() error {
		rc, err := file.NewLocal(opt.Input).Open(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return fmt.Errorf("%w: %w", ErrInputNotFound, err)
		}
		defer rc.Close()

		tb, err = pcsv.NewParser(pcsv.Options{Encoding: opt.Encoding}).Read(rc)
		if err != nil {
			var pe *fs.PathError
			if errors.As(err, &pe) {
				return fmt.Errorf("%w: %w", ErrInputNotFound, err)
			}
			return fmt.Errorf("%w: %s: %w", ErrMalformedInput, opt.Input, err)
		}
		return nil
	})
	return tb, err
}

// classify maps transform failures onto the package error kinds. A missing
// date column means the input does not have the expected shape.
func classify(err error) error {
	if err != nil && errors.Is(err, builtin.ErrMissingColumn) {
		return fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	return err
}

func store(ctx context.Context, s config.Storage, tb *table.Table) (int64, error) {
	repo, err := storage.New(ctx, storage.Config{
		Kind:    s.Kind,
		DSN:     s.DB.DSN,
		Table:   s.DB.Table,
		Columns: tb.Columns,
	})
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if s.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, s.Kind, repo, s.DB.Table, tb.Columns); err != nil {
			return 0, fmt.Errorf("ensure table: %w", err)
		}
	}

	batch := s.DB.BatchSize
	if batch <= 0 {
		batch = config.DefaultBatchSize
	}
	return storage.LoadTable(ctx, tb, tb.Columns, batch, repo.CopyFrom)
}

func timed(job, step string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, step, err, time.Since(start))
	return err
}

func recordStats(job string, st Stats) {
	metrics.RecordRows(job, "read", int64(st.RowsRead))
	metrics.RecordRows(job, "dates_parsed", int64(st.DatesParsed))
	metrics.RecordRows(job, "duplicates_dropped", int64(st.DuplicatesDropped))
	metrics.RecordRows(job, "cells_filled", int64(st.CellsFilled))
	metrics.RecordRows(job, "written", int64(st.RowsWritten))
	metrics.RecordRows(job, "stored", st.RowsStored)
}
