// Package config defines the JSON-serializable run configuration for the
// cleaner. It covers where data comes from and goes to; the cleaning rules
// themselves (date columns, fill columns) are fixed in the cleaner package
// and deliberately not configurable.
//
// Example:
//
//	{
//	  "job":     "superstore_clean",
//	  "source":  { "path": "data/superstore_orders.csv", "encoding": "windows-1252" },
//	  "output":  { "path": "data/superstore_orders_cleaned.csv", "xlsx": "" },
//	  "storage": { "kind": "sqlite",
//	               "db": { "dsn": "file:clean.db", "table": "orders_cleaned",
//	                       "auto_create_table": true } }
//	}
//
// Values are resolved flag → config file → environment → built-in default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Built-in defaults.
const (
	DefaultJob       = "superstore_clean"
	DefaultInput     = "data/superstore_orders.csv"
	DefaultOutput    = "data/superstore_orders_cleaned.csv"
	DefaultEncoding  = "utf-8"
	DefaultBatchSize = 1000
)

// Environment variables consulted by ApplyEnv.
const (
	EnvInput     = "CLEAN_INPUT"
	EnvOutput    = "CLEAN_OUTPUT"
	EnvEncoding  = "CLEAN_ENCODING"
	EnvDSN       = "CLEAN_DB_DSN"
	EnvBatchSize = "CLEAN_BATCH_SIZE"
)

// Run is the top-level object decoded from a run config file.
type Run struct {
	// Job names the run in logs and metrics.
	Job string `json:"job"`

	Source  Source  `json:"source"`
	Output  Output  `json:"output"`
	Storage Storage `json:"storage"`
}

// Source describes the input file.
type Source struct {
	// Path is the local filesystem path to the input CSV.
	Path string `json:"path"`

	// Encoding is the input character set label (utf-8, windows-1252, latin1, ...).
	Encoding string `json:"encoding"`
}

// Output describes where the cleaned table is written.
type Output struct {
	// Path is the cleaned CSV destination.
	Path string `json:"path"`

	// XLSX optionally names a workbook that receives a copy of the table.
	XLSX string `json:"xlsx"`
}

// Storage optionally selects a database that receives a copy of the table.
// An empty Kind disables it.
type Storage struct {
	// Kind selects the backend: "sqlite", "postgres" or "mssql".
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the driver connection string.
	DSN string `json:"dsn"`

	// Table is the (optionally schema-qualified) destination table.
	Table string `json:"table"`

	// AutoCreateTable issues CREATE TABLE IF NOT EXISTS before loading.
	AutoCreateTable bool `json:"auto_create_table"`

	// BatchSize is the number of rows per CopyFrom call.
	BatchSize int `json:"batch_size"`
}

// Load decodes a run config from path.
func Load(path string) (Run, error) {
	var r Run
	f, err := os.Open(path)
	if err != nil {
		return r, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return r, fmt.Errorf("decode config %s: %w", path, err)
	}
	return r, nil
}

// ApplyEnv fills empty fields from the environment. getenv is usually
// os.Getenv. A malformed CLEAN_BATCH_SIZE is reported rather than ignored.
func ApplyEnv(r *Run, getenv func(string) string) error {
	setIfEmpty(&r.Source.Path, getenv(EnvInput))
	setIfEmpty(&r.Output.Path, getenv(EnvOutput))
	setIfEmpty(&r.Source.Encoding, getenv(EnvEncoding))
	setIfEmpty(&r.Storage.DB.DSN, getenv(EnvDSN))

	if r.Storage.DB.BatchSize == 0 {
		if v := strings.TrimSpace(getenv(EnvBatchSize)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", EnvBatchSize, err)
			}
			r.Storage.DB.BatchSize = n
		}
	}
	return nil
}

// Defaults fills whatever is still empty with the built-in defaults.
func Defaults(r *Run) {
	setIfEmpty(&r.Job, DefaultJob)
	setIfEmpty(&r.Source.Path, DefaultInput)
	setIfEmpty(&r.Output.Path, DefaultOutput)
	setIfEmpty(&r.Source.Encoding, DefaultEncoding)
	if r.Storage.DB.BatchSize == 0 {
		r.Storage.DB.BatchSize = DefaultBatchSize
	}
}

func setIfEmpty(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}
