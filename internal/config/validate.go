package config

import (
	"fmt"
	"path/filepath"
	"strings"

	pcsv "github.com/lily4499/superstore-sql-project/internal/parser/csv"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to the user but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into
// the config, e.g. "storage.db.dsn".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// KnownStorageKinds lists the storage kinds the binary can build.
var KnownStorageKinds = []string{"sqlite", "postgres", "mssql"}

// Validate lints a fully resolved Run (after ApplyEnv and Defaults). It does
// not touch the filesystem or the network.
func Validate(r Run) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, a ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, a...)})
	}

	if strings.TrimSpace(r.Job) == "" {
		add(SeverityError, "job", "job must not be empty; it labels logs and metrics")
	}

	if strings.TrimSpace(r.Source.Path) == "" {
		add(SeverityError, "source.path", "input path must not be empty")
	}
	if !pcsv.ValidEncoding(r.Source.Encoding) {
		add(SeverityError, "source.encoding", "unknown encoding %q", r.Source.Encoding)
	}

	if strings.TrimSpace(r.Output.Path) == "" {
		add(SeverityError, "output.path", "output path must not be empty")
	} else if samePath(r.Source.Path, r.Output.Path) {
		add(SeverityWarning, "output.path", "output path equals the input path; the input will be overwritten")
	}
	if x := r.Output.XLSX; x != "" && !strings.EqualFold(filepath.Ext(x), ".xlsx") {
		add(SeverityWarning, "output.xlsx", "%q does not end in .xlsx; spreadsheet tools may refuse it", x)
	}

	issues = append(issues, validateStorage(r.Storage)...)
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	if s.Kind == "" {
		return nil
	}

	known := false
	for _, k := range KnownStorageKinds {
		if s.Kind == k {
			known = true
			break
		}
	}
	if !known {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q (want one of %s)", s.Kind, strings.Join(KnownStorageKinds, ", ")),
		})
	}

	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "storage.db.dsn", Message: "dsn must not be empty"})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{Severity: SeverityError, Path: "storage.db.table", Message: "table must not be empty"})
	}
	if s.DB.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.batch_size",
			Message:  fmt.Sprintf("batch_size must be positive, got %d", s.DB.BatchSize),
		})
	}
	return issues
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
