package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Quoter quotes a single identifier segment for a SQL dialect.
type Quoter func(ident string) string

// DDLBootstrapper creates the destination table for a backend if it does not
// exist yet. Every column is created as the backend's unbounded text type.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string, columns []string) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the DDLBootstrapper for kind. It is
// typically called from backend packages' init functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for kind and invokes it.
func EnsureTable(ctx context.Context, kind string, repo Repository, table string, columns []string) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, table, columns)
}

// QuoteFQN quotes each dot-separated segment of name with q, so that
// "main.orders" becomes "main"."orders" for a double-quote dialect.
func QuoteFQN(q Quoter, name string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, q(p))
	}
	return strings.Join(out, ".")
}

// ColumnDefs renders the column list of a CREATE TABLE statement, one column
// per line, every column typed sqlType and nullable. Empty and duplicate
// column names are rejected because no dialect accepts them.
func ColumnDefs(q Quoter, columns []string, sqlType string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}
	seen := make(map[string]struct{}, len(columns))
	defs := make([]string, 0, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c) == "" {
			return "", fmt.Errorf("ddl: column %d has an empty name", i+1)
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			return "", fmt.Errorf("ddl: duplicate column %q", c)
		}
		seen[key] = struct{}{}
		defs = append(defs, q(c)+" "+sqlType)
	}
	return strings.Join(defs, ",\n  "), nil
}

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement with
// every column typed sqlType. It suits dialects that support IF NOT EXISTS
// (Postgres, SQLite).
func BuildCreateTableSQL(q Quoter, table string, columns []string, sqlType string) (string, error) {
	fqn := QuoteFQN(q, table)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	defs, err := ColumnDefs(q, columns, sqlType)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", fqn, defs), nil
}

// DoubleQuote is the ANSI identifier quoter used by Postgres and SQLite.
func DoubleQuote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
