package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "salespulse/internal/errors"
)

// EnvPrefix prefixes every environment variable, e.g. SALESPULSE_ANALYSIS_TOP_N.
const EnvPrefix = "SALESPULSE"

// Config represents the complete application configuration
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// AnalysisConfig holds the parameters of the aggregations
type AnalysisConfig struct {
	Period         string  `yaml:"period" envconfig:"PERIOD" validate:"required,oneof=D W M"`
	TopN           int     `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`
	TurnoverTopN   int     `yaml:"turnover_top_n" envconfig:"TURNOVER_TOP_N" validate:"min=1"`
	SlowWindowDays int     `yaml:"slow_window_days" envconfig:"SLOW_WINDOW_DAYS" validate:"min=1"`
	SlowThreshold  float64 `yaml:"slow_threshold" envconfig:"SLOW_THRESHOLD" validate:"gte=0"`
	MinRows        int     `yaml:"min_rows" envconfig:"MIN_ROWS" validate:"min=1"`
	// Date restricts the top-N rankings to one calendar day (DD.MM.YYYY).
	Date string `yaml:"date" envconfig:"DATE"`
}

// InputConfig lists the transaction logs to analyze
type InputConfig struct {
	Files []string `yaml:"files" envconfig:"FILES" validate:"min=1,dive,required"`
}

// OutputConfig contains report and artifact locations
type OutputConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	ReportFile string `yaml:"report_file" envconfig:"REPORT_FILE" validate:"required"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR" validate:"required"`
	ExportDir  string `yaml:"export_dir" envconfig:"EXPORT_DIR" validate:"required"`
	Workbook   bool   `yaml:"workbook" envconfig:"WORKBOOK"`
	CSV        bool   `yaml:"csv" envconfig:"CSV"`
	Charts     bool   `yaml:"charts" envconfig:"CHARTS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_if=Output file,required_if=Output both"`
}

// TelemetryConfig controls span and metric export
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" envconfig:"TRACING"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// configLocations are searched when no explicit file is given.
var configLocations = []string{
	"salespulse.yaml",
	"configs/salespulse.yaml",
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing precedence. An explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewConfigError("config file not accessible", err).WithContext("path", path)
	}

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to load config from %s", path), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func findConfigFile() string {
	for _, location := range configLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// normalize canonicalizes case-insensitive enumerations
func (c *Config) normalize() {
	c.Analysis.Period = strings.ToUpper(strings.TrimSpace(c.Analysis.Period))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report YAML names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every section. It is called by Load and again by the CLI
// after flags are applied.
func (c *Config) Validate() error {
	c.normalize()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewConfigError("config validation failed", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return apperrors.NewConfigError("config validation failed: "+strings.Join(msgs, "; "), nil).
		WithContext("fields", len(msgs))
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Period:         "D",
			TopN:           5,
			TurnoverTopN:   10,
			SlowWindowDays: 90,
			SlowThreshold:  5,
			MinRows:        10,
		},
		Input: InputConfig{
			Files: []string{"Данные 1.csv", "Данные 2.csv"},
		},
		Output: OutputConfig{
			ReportFile: "inventory_report.txt",
			ChartsDir:  "sales_visualizations",
			ExportDir:  "exports",
			Charts:     true,
			CSV:        true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/salespulse.log",
		},
		Telemetry: TelemetryConfig{
			Tracing:   false,
			TraceFile: "logs/traces.json",
		},
	}
}
