package sqlite

import (
	"context"
	"fmt"

	"github.com/lily4499/superstore-sql-project/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adapts *Repository to storage.Repository, adding a Close method
// that calls the cleanup function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

// createTable creates the destination table with every column as TEXT.
func createTable(ctx context.Context, repo storage.Repository, table string, columns []string) error {
	stmt, err := storage.BuildCreateTableSQL(storage.DoubleQuote, table, columns, "TEXT")
	if err != nil {
		return fmt.Errorf("sqlite ddl: %w", err)
	}
	return repo.Exec(ctx, stmt)
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL("sqlite", createTable)
}
