package operations

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salespulse/internal/config"
	"salespulse/internal/dataprocessing"
	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// Config represents the run execution configuration
type Config struct {
	// Step-specific timeouts
	StepTimeouts map[string]time.Duration `json:"step_timeouts"`
}

// NewConfig returns the default run configuration
func NewConfig() *Config {
	return &Config{
		StepTimeouts: map[string]time.Duration{
			StepIDExport: DefaultExportTimeout,
		},
	}
}

// GetStepTimeout returns the timeout for a specific step
func (c *Config) GetStepTimeout(stepID string) time.Duration {
	if c != nil {
		if timeout, ok := c.StepTimeouts[stepID]; ok {
			return timeout
		}
	}
	return DefaultStepTimeout
}

// SetStepTimeout sets the timeout for a specific step
func (c *Config) SetStepTimeout(stepID string, timeout time.Duration) {
	if c.StepTimeouts == nil {
		c.StepTimeouts = make(map[string]time.Duration)
	}
	c.StepTimeouts[stepID] = timeout
}

// AnalysisParams are the typed aggregation parameters of a run
type AnalysisParams struct {
	Period         domain.Granularity `json:"period"`
	TopN           int                `json:"top_n"`
	TurnoverTopN   int                `json:"turnover_top_n"`
	SlowWindowDays int                `json:"slow_window_days"`
	SlowThreshold  decimal.Decimal    `json:"slow_threshold"`
	MinRows        int                `json:"min_rows"`
	// TopDate restricts the rankings to one calendar day when set.
	TopDate *time.Time `json:"top_date,omitempty"`
}

// DefaultAnalysisParams mirrors config.Default
func DefaultAnalysisParams() AnalysisParams {
	params, _ := NewAnalysisParams(config.Default().Analysis, nil)
	return params
}

// NewAnalysisParams converts the analysis section of the configuration. An
// unparseable ranking date is dropped with a warning so the rankings cover
// the whole period.
func NewAnalysisParams(cfg config.AnalysisConfig, logger *slog.Logger) (AnalysisParams, error) {
	if logger == nil {
		logger = slog.Default()
	}
	period, ok := domain.ParseGranularity(cfg.Period)
	if !ok {
		return AnalysisParams{}, apperrors.NewValidationError(fmt.Sprintf("unsupported period %q, expected D, W or M", cfg.Period))
	}

	params := AnalysisParams{
		Period:         period,
		TopN:           cfg.TopN,
		TurnoverTopN:   cfg.TurnoverTopN,
		SlowWindowDays: cfg.SlowWindowDays,
		SlowThreshold:  decimal.NewFromFloat(cfg.SlowThreshold),
		MinRows:        cfg.MinRows,
	}

	if text := strings.TrimSpace(cfg.Date); text != "" {
		if day, ok := dataprocessing.ParseDate(text); ok {
			params.TopDate = &day
		} else {
			logger.Warn("ranking date not recognized, ranking the whole period",
				slog.String("date", text))
		}
	}

	return params, params.Validate()
}

// Validate checks the numeric parameters
func (p AnalysisParams) Validate() error {
	switch {
	case p.TopN < 1:
		return apperrors.NewValidationError(fmt.Sprintf("top-n must be at least 1, got %d", p.TopN))
	case p.TurnoverTopN < 1:
		return apperrors.NewValidationError(fmt.Sprintf("turnover top-n must be at least 1, got %d", p.TurnoverTopN))
	case p.SlowWindowDays < 1:
		return apperrors.NewValidationError(fmt.Sprintf("slow-mover window must be at least 1 day, got %d", p.SlowWindowDays))
	case p.SlowThreshold.IsNegative():
		return apperrors.NewValidationError("slow-mover threshold must not be negative")
	case p.MinRows < 1:
		return apperrors.NewValidationError(fmt.Sprintf("minimum row count must be at least 1, got %d", p.MinRows))
	}
	return nil
}
