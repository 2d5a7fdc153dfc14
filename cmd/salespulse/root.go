package main

import (
	"github.com/spf13/cobra"

	"salespulse/internal/infrastructure"
)

// configFile is the --config flag shared by every subcommand
var configFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "salespulse",
		Short: "Sales and inventory analytics over CSV transaction logs",
		Long: `salespulse loads retail transaction logs (CSV in UTF-8 or Windows-1251,
separated by ';' or ','), cleans them and produces revenue, profit,
department, top product, turnover and slow-mover analytics as a text
report, CSV and xlsx exports and a set of PNG charts.`,
		Version:       infrastructure.ServiceVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./salespulse.yaml or ./configs/salespulse.yaml)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newInspectCmd())
	return rootCmd
}
