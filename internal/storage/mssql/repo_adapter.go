package mssql

import (
	"context"
	"fmt"

	"github.com/lily4499/superstore-sql-project/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// createTableSQL returns a guarded CREATE TABLE with every column
// NVARCHAR(MAX). SQL Server has no CREATE TABLE IF NOT EXISTS, so the
// statement checks OBJECT_ID first.
func createTableSQL(table string, columns []string) (string, error) {
	fqn := storage.QuoteFQN(msIdent, table)
	if fqn == "" {
		return "", fmt.Errorf("mssql ddl: table name must not be empty")
	}
	defs, err := storage.ColumnDefs(msIdent, columns, "NVARCHAR(MAX)")
	if err != nil {
		return "", fmt.Errorf("mssql ddl: %w", err)
	}
	return fmt.Sprintf(
		"IF OBJECT_ID(%s, N'U') IS NULL\nCREATE TABLE %s (\n  %s\n);",
		sqlString(fqn), fqn, defs,
	), nil
}

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("mssql", func(ctx context.Context, repo storage.Repository, table string, columns []string) error {
		stmt, err := createTableSQL(table, columns)
		if err != nil {
			return err
		}
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply DDL: %w", err)
		}
		return nil
	})
}
