package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalysisResult bundles every aggregation computed for one run. It is the
// input of the text report, the table exports and the chart set.
type AnalysisResult struct {
	RunID          string            `json:"run_id"`
	GeneratedAt    time.Time         `json:"generated_at"`
	RowCount       int               `json:"row_count"`
	RowsDropped    int               `json:"rows_dropped"`
	Sources        []string          `json:"sources"`
	Period         Granularity       `json:"period"`
	Revenue        []PeriodMetric    `json:"revenue"`
	Profit         []PeriodMetric    `json:"profit"`
	ProfitStats    PeriodStats       `json:"profit_stats"`
	Categories     CategoryBreakdown `json:"categories"`
	TopN           int               `json:"top_n"`
	TopDate        *time.Time        `json:"top_date,omitempty"`
	TopByQuantity  []ProductRank     `json:"top_by_quantity"`
	TopByRevenue   []ProductRank     `json:"top_by_revenue"`
	TurnoverTopN   int               `json:"turnover_top_n"`
	Turnover       []TurnoverRow     `json:"turnover"`
	Insights       TurnoverInsights  `json:"insights"`
	SlowMovers     []SlowMoverRow    `json:"slow_movers"`
	SlowWindowDays int               `json:"slow_window_days"`
	SlowThreshold  decimal.Decimal   `json:"slow_threshold"`
}
