package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"salespulse/pkg/contracts/domain"
)

// noValue is rendered for undefined cells such as a missing last-sale date
const noValue = "—"

// formatMoney formats an amount with exactly 2 decimal places
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatQuantity formats a unit count without trailing zeros
func formatQuantity(d decimal.Decimal) string {
	return d.String()
}

// formatInt formats an int value
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatDays formats an optional day count
func formatDays(days *int) string {
	if days == nil {
		return noValue
	}
	return strconv.Itoa(*days)
}

// formatPeriod formats a bucket start for its granularity
func formatPeriod(t time.Time, g domain.Granularity) string {
	if g == domain.GranularityMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}
