// Package config loads and validates the settings of an analysis run.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources in order of precedence:
//
//  1. Command-line flags (applied by the CLI, highest priority)
//  2. Environment variables
//  3. YAML file (salespulse.yaml or configs/salespulse.yaml)
//  4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALESPULSE_<SECTION>_<FIELD>:
//
//	SALESPULSE_ANALYSIS_PERIOD=W
//	SALESPULSE_ANALYSIS_TOP_N=10
//	SALESPULSE_INPUT_FILES="Данные 1.csv,Данные 2.csv"
//	SALESPULSE_OUTPUT_CHARTS=false
//	SALESPULSE_LOGGING_LEVEL=debug
//
// # Paths
//
// GetPaths resolves every output location against Output.BaseDir (or the
// working directory) so the rest of the application only sees absolute paths.
package config
