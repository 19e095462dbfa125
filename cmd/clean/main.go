// Command clean reads the Superstore orders CSV, cleans it and writes the
// cleaned copy next to it.
//
//	clean                                  # data/superstore_orders.csv → data/superstore_orders_cleaned.csv
//	clean -in orders.csv -out clean.csv -encoding windows-1252
//	clean -config configs/run.json -metrics-backend pushgateway -v
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/lily4499/superstore-sql-project/internal/cleaner"
	"github.com/lily4499/superstore-sql-project/internal/config"
	"github.com/lily4499/superstore-sql-project/internal/metrics"
	"github.com/lily4499/superstore-sql-project/internal/metrics/datadog"
	"github.com/lily4499/superstore-sql-project/internal/metrics/prompush"

	// register all backends with the storage factory; the run config picks one.
	_ "github.com/lily4499/superstore-sql-project/internal/storage/all"
)

// Defaults for the metrics endpoints when neither flag nor env is set.
const (
	defaultPushgatewayURL = "http://localhost:9091"
	defaultStatsdAddr     = "127.0.0.1:8125"
)

func main() {
	var (
		cfgPath           string
		inFlg             string
		outFlg            string
		encodingFlg       string
		xlsxFlg           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		statsdAddrFlg     string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "", "optional run config JSON path")
	flag.StringVar(&inFlg, "in", "", "input CSV (overrides config and env CLEAN_INPUT)")
	flag.StringVar(&outFlg, "out", "", "output CSV (overrides config and env CLEAN_OUTPUT)")
	flag.StringVar(&encodingFlg, "encoding", "", "input encoding, e.g. utf-8, windows-1252, latin1")
	flag.StringVar(&xlsxFlg, "xlsx", "", "also write the cleaned table to this .xlsx workbook")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend: none, pushgateway, datadog (overrides env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&statsdAddrFlg, "statsd-addr", "", "DogStatsD address (overrides env DD_AGENT_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	var r config.Run
	if cfgPath != "" {
		var err error
		if r, err = config.Load(cfgPath); err != nil {
			fatalf("%v", err)
		}
	}
	applyFlags(&r, inFlg, outFlg, encodingFlg, xlsxFlg)
	if err := config.ApplyEnv(&r, os.Getenv); err != nil {
		fatalf("config: %v", err)
	}
	config.Defaults(&r)

	issues := config.Validate(r)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid")
	}
	if validate {
		log.Printf("configuration is valid: %v", cfgPath)
		return
	}

	flush := setupMetrics(
		firstNonEmpty(metricsBackendFlg, os.Getenv("METRICS_BACKEND")),
		firstNonEmpty(pushGatewayURLFlg, os.Getenv("PUSHGATEWAY_URL"), defaultPushgatewayURL),
		firstNonEmpty(statsdAddrFlg, os.Getenv("DD_AGENT_ADDR"), defaultStatsdAddr),
		r.Job,
	)

	start := time.Now()
	log.Printf("run: job=%s in=%s out=%s encoding=%s storage=%s",
		r.Job, r.Source.Path, r.Output.Path, r.Source.Encoding, r.Storage.Kind)

	st, err := cleaner.Run(context.Background(), cleaner.OptionsFromConfig(r))
	flush()
	if err != nil {
		fatalf("%v", err)
	}

	log.Printf("completed in %s: read=%d dropped=%d filled=%d written=%d",
		time.Since(start).Truncate(time.Millisecond),
		st.RowsRead, st.DuplicatesDropped, st.CellsFilled, st.RowsWritten)
	fmt.Printf("Clean CSV saved as: %s\n", r.Output.Path)
}

// applyFlags overlays non-empty flag values onto the run config.
func applyFlags(r *config.Run, in, out, encoding, xlsx string) {
	if in != "" {
		r.Source.Path = in
	}
	if out != "" {
		r.Output.Path = out
	}
	if encoding != "" {
		r.Source.Encoding = encoding
	}
	if xlsx != "" {
		r.Output.XLSX = xlsx
	}
}

// setupMetrics installs the named backend and returns a function that flushes
// it. Unknown names and init failures leave metrics disabled: metrics never
// fail a run.
func setupMetrics(backendName, gwURL, statsdAddr, job string) (flush func()) {
	flush = func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}

	switch backendName {
	case "pushgateway":
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
			return func() {}
		}
		log.Printf("metrics: url=%v, backend=%v, job_name=%v", gwURL, backendName, job)
		metrics.SetBackend(b)

	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       statsdAddr,
			GlobalTags: []string{"job:" + job},
		})
		if err != nil {
			log.Printf("metrics: failed to init datadog backend: %v; using nop", err)
			return func() {}
		}
		log.Printf("metrics: addr=%v, backend=%v", statsdAddr, backendName)
		metrics.SetBackend(b)

	case "", "none":
		log.Printf("metrics: disabled")
		return func() {}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
		return func() {}
	}
	return flush
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
