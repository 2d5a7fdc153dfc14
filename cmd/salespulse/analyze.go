package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"salespulse/internal/charts"
	"salespulse/internal/config"
	"salespulse/internal/exporter"
	"salespulse/internal/infrastructure"
	"salespulse/internal/operations"
)

// analyzeOptions holds flag values that override the loaded config
type analyzeOptions struct {
	period         string
	topN           int
	turnoverTopN   int
	slowWindowDays int
	slowThreshold  float64
	minRows        int
	date           string
	baseDir        string
	reportFile     string
	chartsDir      string
	exportDir      string
	charts         bool
	csv            bool
	workbook       bool
	logLevel       string
	logFormat      string
	tracing        bool
	metricsFile    string
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Run the full analysis and write report, exports and charts",
		Long: `Analyze loads every given transaction log (or the configured input files),
concatenates them and runs the full analysis. Files that are missing or
cannot be read are skipped with a warning. The run stops when no file
loads or fewer rows than --min-rows survive cleaning.`,
		Example: `  salespulse analyze "Данные 1.csv" "Данные 2.csv"
  salespulse analyze --period W --top-n 10 sales.csv
  salespulse analyze --date 15.03.2024 --no-charts sales.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			opts.apply(cmd.Flags(), cfg)
			if len(args) > 0 {
				cfg.Input.Files = args
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.period, "period", "p", "", "revenue and profit bucket: D, W or M")
	f.IntVarP(&opts.topN, "top-n", "n", 0, "number of products in the top rankings")
	f.IntVar(&opts.turnoverTopN, "turnover-top-n", 0, "number of products in the turnover table")
	f.IntVar(&opts.slowWindowDays, "slow-window", 0, "slow-mover look-back window in days")
	f.Float64Var(&opts.slowThreshold, "slow-threshold", 0, "units sold in the window below which a product is slow")
	f.IntVar(&opts.minRows, "min-rows", 0, "minimum cleaned rows required to analyze")
	f.StringVar(&opts.date, "date", "", "rank top products on one day only (DD.MM.YYYY)")
	f.StringVarP(&opts.baseDir, "out", "o", "", "base directory for relative output paths")
	f.StringVar(&opts.reportFile, "report", "", "text report file")
	f.StringVar(&opts.chartsDir, "charts-dir", "", "directory for PNG charts")
	f.StringVar(&opts.exportDir, "export-dir", "", "directory for CSV and xlsx exports")
	f.BoolVar(&opts.charts, "charts", true, "render PNG charts")
	f.BoolVar(&opts.csv, "csv", true, "write one CSV file per aggregation")
	f.BoolVar(&opts.workbook, "workbook", false, "write the xlsx workbook")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", "", "log format: json or text")
	f.BoolVar(&opts.tracing, "trace", false, "export run spans to the trace file")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")

	_ = cmd.RegisterFlagCompletionFunc("period", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"D", "W", "M"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// apply copies explicitly set flags over cfg
func (o *analyzeOptions) apply(flags *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if flags.Changed(name) {
			fn()
		}
	}
	set("period", func() { cfg.Analysis.Period = o.period })
	set("top-n", func() { cfg.Analysis.TopN = o.topN })
	set("turnover-top-n", func() { cfg.Analysis.TurnoverTopN = o.turnoverTopN })
	set("slow-window", func() { cfg.Analysis.SlowWindowDays = o.slowWindowDays })
	set("slow-threshold", func() { cfg.Analysis.SlowThreshold = o.slowThreshold })
	set("min-rows", func() { cfg.Analysis.MinRows = o.minRows })
	set("date", func() { cfg.Analysis.Date = o.date })
	set("out", func() { cfg.Output.BaseDir = o.baseDir })
	set("report", func() { cfg.Output.ReportFile = o.reportFile })
	set("charts-dir", func() { cfg.Output.ChartsDir = o.chartsDir })
	set("export-dir", func() { cfg.Output.ExportDir = o.exportDir })
	set("charts", func() { cfg.Output.Charts = o.charts })
	set("csv", func() { cfg.Output.CSV = o.csv })
	set("workbook", func() { cfg.Output.Workbook = o.workbook })
	set("log-level", func() { cfg.Logging.Level = o.logLevel })
	set("log-format", func() { cfg.Logging.Format = o.logFormat })
	set("trace", func() { cfg.Telemetry.Tracing = o.tracing })
	set("metrics-file", func() { cfg.Telemetry.MetricsFile = o.metricsFile })
}

// runAnalyze wires the run from cfg, executes it and prints a summary to out
func runAnalyze(ctx context.Context, out io.Writer, cfg *config.Config) error {
	paths, err := cfg.GetPaths()
	if err != nil {
		return err
	}

	logCfg := cfg.Logging
	logCfg.FilePath = paths.LogFile
	logger, closer, err := infrastructure.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	paths.LogPathResolution(logger)

	if err := paths.EnsureDirectories(logger); err != nil {
		return err
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry, paths), logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", shutdownErr.Error()))
		}
	}()

	tracer, err := operations.NewRunTracer(providers)
	if err != nil {
		return err
	}

	params, err := operations.NewAnalysisParams(cfg.Analysis, logger)
	if err != nil {
		return err
	}

	registry, err := operations.NewAnalysisRegistry(logger, artifactWriters(cfg.Output, paths, logger)...)
	if err != nil {
		return err
	}
	manager := operations.NewManager(registry, operations.NewConfig(), tracer, logger)

	resp, runErr := manager.Execute(ctx, operations.RunRequest{
		ID:     infrastructure.GenerateRunID(),
		Files:  cfg.Input.Files,
		Params: params,
		Now:    time.Now(),
	})
	printSummary(out, resp)
	return runErr
}

// artifactWriters returns the report writer plus the enabled exporters
func artifactWriters(out config.OutputConfig, paths *config.Paths, logger *slog.Logger) []operations.ArtifactWriter {
	writers := []operations.ArtifactWriter{exporter.NewReportWriter(paths, logger)}
	if out.CSV {
		writers = append(writers, exporter.NewCSVExporter(paths, logger))
	}
	if out.Workbook {
		writers = append(writers, exporter.NewWorkbookExporter(paths, logger))
	}
	if out.Charts {
		writers = append(writers, charts.NewChartWriter(paths, logger))
	}
	return writers
}

func printSummary(out io.Writer, resp *operations.RunResponse) {
	if resp == nil {
		return
	}
	fmt.Fprintf(out, "Run %s: %s in %s\n", resp.ID, resp.Status, resp.Duration.Round(time.Millisecond))
	for _, f := range resp.Loaded {
		fmt.Fprintf(out, "  loaded  %s (%s, %q, %d rows)\n", f.Path, f.Encoding, f.Delimiter, f.Rows)
	}
	for _, f := range resp.Skipped {
		fmt.Fprintf(out, "  skipped %s: %s\n", f.Path, f.Reason)
	}
	if resp.Result != nil {
		fmt.Fprintf(out, "Rows analyzed: %d (dropped %d)\n", resp.Result.RowCount, resp.Result.RowsDropped)
	}
	for _, path := range resp.Artifacts {
		fmt.Fprintf(out, "  wrote   %s\n", path)
	}
}
