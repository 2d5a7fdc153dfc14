package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	"salespulse/internal/infrastructure"
	"salespulse/pkg/contracts/domain"
)

func newInspectCmd() *cobra.Command {
	var (
		logLevel  string
		operation string
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Load and clean one file and show what was detected",
		Long: `Inspect loads a single transaction log, reports the detected encoding,
delimiter and canonical columns, then cleans it and shows how many rows
were dropped and why. With --operation it also counts the cleaned rows of
one operation kind. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			logCfg := cfg.Logging
			if cmd.Flags().Changed("log-level") {
				logCfg.Level = logLevel
			}
			logCfg.Output = "console"
			logger, closer, err := infrastructure.NewLogger(logCfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			return runInspect(cmd, args[0], operation, logger)
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&operation, "operation", "", "count cleaned rows of one operation kind (e.g. продажа, поступление)")
	return cmd
}

func runInspect(cmd *cobra.Command, path, operation string, logger *slog.Logger) error {
	ctx := infrastructure.EnsureRunID(cmd.Context())

	raw, err := dataprocessing.NewLoader(logger).LoadFile(ctx, path)
	if err != nil {
		return err
	}
	cleaned, stats, err := dataprocessing.NewCleaner(logger).Clean(ctx, raw)
	if err != nil {
		return err
	}

	selected, err := dataprocessing.FilterByOperation(cleaned, operation)
	if err != nil {
		return err
	}

	renderInspection(cmd.OutOrStdout(), raw, cleaned, stats)
	if operation != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Операция %q: %d строк\n", strings.TrimSpace(operation), selected.Len())
	}
	return nil
}

func renderInspection(out io.Writer, raw *domain.RawTable, cleaned *domain.Table, stats dataprocessing.CleanStats) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(raw.Source)
	t.AppendRows([]table.Row{
		{"Кодировка", raw.Encoding},
		{"Разделитель", fmt.Sprintf("%q", raw.Delimiter)},
		{"Колонки", strings.Join(raw.Columns, ", ")},
		{"Строк прочитано", raw.Len()},
		{"Строк после очистки", cleaned.Len()},
		{"Отброшено", stats.Dropped()},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"  пустые поля", stats.Missing},
		{"  неверная дата", stats.InvalidDate},
		{"  неверное число", stats.InvalidNumber},
		{"  отрицательные значения", stats.Negative},
		{"  неизвестная операция", stats.UnknownOperation},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 80},
	})
	t.Render()
}
