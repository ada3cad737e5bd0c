// Command prepare runs the dashboard preparation pipeline once and writes the
// unified visit table and cleaned metric tables to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"naads/internal/config"
	"naads/internal/dataprocessing"
	"naads/internal/exporter"
	"naads/internal/infrastructure"
	"naads/internal/validation"
	"naads/pkg/contracts"
	"naads/pkg/contracts/domain"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"

	visitsFile   = "na_ads_visits.csv"
	workbookFile = "na_ads_dashboard.xlsx"
	metricsDir   = "metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "prepare: %v\n", err)
		os.Exit(1)
	}
}

// run parses args, prepares the data and writes the outputs. Logs go to
// logOut.
func run(ctx context.Context, args []string, logOut io.Writer) error {
	fs := flag.NewFlagSet("prepare", flag.ContinueOnError)
	fs.SetOutput(logOut)
	dataDir := fs.String("data", "", "directory holding the metric workbooks and ads/ (default from config)")
	outDir := fs.String("out", "prepared", "output directory")
	format := fs.String("format", formatCSV, "output format: csv or xlsx")
	join := fs.String("join", "", "ad spend join mode: fanout or collapse (default from config)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Fprintln(logOut, contracts.GetFullVersionString())
		return nil
	}

	if *format != formatCSV && *format != formatXLSX {
		return fmt.Errorf("unknown format %q (want csv or xlsx)", *format)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *dataDir != "" {
		abs, err := filepath.Abs(*dataDir)
		if err != nil {
			return err
		}
		cfg.Paths.DataDir = abs
	}
	if *join != "" {
		cfg.Pipeline.AdJoinMode = *join
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := infrastructure.NewLogger(logOut, cfg.Logging.Level)

	opts, err := dataprocessing.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}

	validator := validation.NewSourceValidator(logger)
	if err := validator.ValidateSources(opts.Sources); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		return err
	}

	data, err := dataprocessing.NewPipeline(opts, logger, nil).Run(ctx)
	if err != nil {
		return err
	}
	if err := validation.ValidateVisitTable(data.Visits); err != nil {
		return err
	}

	var written []string
	switch *format {
	case formatXLSX:
		path := filepath.Join(*outDir, workbookFile)
		if err := exporter.SaveWorkbook(path, data); err != nil {
			return err
		}
		written = append(written, path)
	default:
		written, err = writeCSVs(*outDir, data)
		if err != nil {
			return err
		}
	}

	summary := dataprocessing.Summarize(data.Visits)
	logger.InfoContext(ctx, "Prepared dashboard data",
		slog.Int("rows", len(data.Visits.Rows)),
		slog.Int("metric_tables", len(data.Metrics)),
		slog.Float64("total_visitors", summary.TotalVisitors),
		slog.Int64("total_est_cost", summary.TotalEstCost),
		slog.Any("files", written))
	return nil
}

// writeCSVs writes the unified table and one CSV per metric table
func writeCSVs(outDir string, data *domain.PreparedData) ([]string, error) {
	w := exporter.NewCSVWriter(outDir)

	err := w.WriteCSV(visitsFile, exporter.WriteOptions{
		Headers:   exporter.VisitTableHeaders,
		Records:   exporter.VisitRecords(data.Visits),
		BOMPrefix: true,
	})
	if err != nil {
		return nil, err
	}
	written := []string{filepath.Join(outDir, visitsFile)}

	keys := make([]string, 0, len(data.Metrics))
	for k := range data.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		table := data.Metrics[key]
		name := filepath.Join(metricsDir, key+".csv")
		err := w.WriteCSV(name, exporter.WriteOptions{
			Headers:   table.Columns,
			Records:   exporter.MetricRecords(table),
			BOMPrefix: true,
		})
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", key, err)
		}
		written = append(written, filepath.Join(outDir, name))
	}
	return written, nil
}
