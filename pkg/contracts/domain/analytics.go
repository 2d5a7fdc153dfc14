package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Granularity is the calendar interval used to bucket transactions.
type Granularity string

const (
	GranularityDay   Granularity = "D"
	GranularityWeek  Granularity = "W"
	GranularityMonth Granularity = "M"
)

// ParseGranularity accepts the single-letter codes and their long names.
func ParseGranularity(s string) (Granularity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d", "day", "daily":
		return GranularityDay, true
	case "w", "week", "weekly":
		return GranularityWeek, true
	case "m", "month", "monthly":
		return GranularityMonth, true
	}
	return "", false
}

// Label returns a human-readable name of the interval.
func (g Granularity) Label() string {
	switch g {
	case GranularityWeek:
		return "week"
	case GranularityMonth:
		return "month"
	default:
		return "day"
	}
}

// PeriodMetric is a metric summed over one period bucket.
type PeriodMetric struct {
	PeriodStart time.Time       `json:"period_start"`
	Value       decimal.Decimal `json:"value"`
}

// PeriodStats summarizes a period series.
type PeriodStats struct {
	Periods int             `json:"periods"`
	Max     decimal.Decimal `json:"max"`
	Min     decimal.Decimal `json:"min"`
	Mean    decimal.Decimal `json:"mean"`
	Total   decimal.Decimal `json:"total"`
}

// CategoryStats holds per-department sales figures.
type CategoryStats struct {
	Department     string          `json:"department"`
	Revenue        decimal.Decimal `json:"revenue"`
	UnitsSold      decimal.Decimal `json:"units_sold"`
	UniqueProducts int             `json:"unique_products"`
	UnitsReceived  decimal.Decimal `json:"units_received"`
	Net            decimal.Decimal `json:"net"`
}

// CategoryBreakdown is the department table. WithReceipts is false when the
// input had no receipts, in which case UnitsReceived and Net are not meaningful.
type CategoryBreakdown struct {
	Stats        []CategoryStats `json:"stats"`
	WithReceipts bool            `json:"with_receipts"`
}

// RankMetric selects the value a product ranking sums.
type RankMetric string

const (
	RankByQuantity RankMetric = "quantity"
	RankByRevenue  RankMetric = "revenue"
)

// ProductRank is one row of a top-N ranking.
type ProductRank struct {
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Value       decimal.Decimal `json:"metric_value"`
}

// TurnoverRow compares sales and receipts of one product.
type TurnoverRow struct {
	SKU             string          `json:"sku"`
	ProductName     string          `json:"product_name"`
	SoldUnits       decimal.Decimal `json:"sold_units"`
	ReceivedUnits   decimal.Decimal `json:"received_units"`
	SoldRevenue     decimal.Decimal `json:"sold_revenue"`
	ReceivedCost    decimal.Decimal `json:"received_cost"`
	UnitDelta       decimal.Decimal `json:"unit_delta"`
	Profit          decimal.Decimal `json:"profit"`
	ProfitMarginPct decimal.Decimal `json:"profit_margin_pct"`
}

// TurnoverSummary aggregates the ranked turnover set.
type TurnoverSummary struct {
	TotalItems       int             `json:"total_items"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalCosts       decimal.Decimal `json:"total_costs"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	AvgMarginPct     decimal.Decimal `json:"avg_profitability"`
	ItemsWithDeficit int             `json:"items_with_deficit"`
	ItemsWithExcess  int             `json:"items_with_excess"`
}

// TurnoverInsights flags deficit and excess candidates and profit extremes.
// Deficit means more units sold than received (a re-order signal).
type TurnoverInsights struct {
	Deficit         []TurnoverRow   `json:"deficit_candidates"`
	Excess          []TurnoverRow   `json:"excess_candidates"`
	MostProfitable  []TurnoverRow   `json:"most_profitable"`
	LeastProfitable []TurnoverRow   `json:"least_profitable"`
	Summary         TurnoverSummary `json:"summary_stats"`
}

// SlowMoverRow is a stocked product that barely sold in the lookback window.
// DaysSinceLastSale is nil when the product has no sale inside the window.
type SlowMoverRow struct {
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	SoldInWindow      decimal.Decimal `json:"sold_in_window"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	DaysSinceLastSale *int            `json:"days_since_last_sale"`
}
