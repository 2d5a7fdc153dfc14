package dataprocessing

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

const secondsPerDay = 24 * 60 * 60

// SlowMovers returns stocked products whose sales inside the lookback
// window are at or below threshold. Stock is measured over the full
// history. Products without a sale in the window have a nil
// DaysSinceLastSale and sort after dated rows with the same recent sales.
func SlowMovers(table *domain.Table, now time.Time, windowDays int, threshold decimal.Decimal) ([]domain.SlowMoverRow, error) {
	if windowDays < 1 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("slow-mover window must be at least 1 day, got %d", windowDays))
	}
	if table.IsEmpty() {
		return []domain.SlowMoverRow{}, nil
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	stock := make(map[domain.ProductKey]decimal.Decimal)
	recent := make(map[domain.ProductKey]decimal.Decimal)
	lastSale := make(map[domain.ProductKey]time.Time)
	for _, tx := range table.Records() {
		key := tx.Product()
		switch {
		case tx.IsReceipt():
			stock[key] = stock[key].Add(tx.Quantity)
		case tx.IsSale():
			stock[key] = stock[key].Sub(tx.Quantity)
			if tx.Date.Before(cutoff) {
				continue
			}
			recent[key] = recent[key].Add(tx.Quantity)
			if last, ok := lastSale[key]; !ok || tx.Date.After(last) {
				lastSale[key] = tx.Date
			}
		}
	}

	rows := make([]domain.SlowMoverRow, 0)
	for key, onHand := range stock {
		if !onHand.IsPositive() {
			continue
		}
		sold := recent[key]
		if sold.GreaterThan(threshold) {
			continue
		}
		row := domain.SlowMoverRow{
			SKU:          key.SKU,
			ProductName:  key.Name,
			SoldInWindow: sold,
			CurrentStock: onHand,
		}
		if last, ok := lastSale[key]; ok {
			days := wholeDaysBetween(last, now)
			row.DaysSinceLastSale = &days
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.SoldInWindow.Equal(b.SoldInWindow) {
			return a.SoldInWindow.LessThan(b.SoldInWindow)
		}
		if da, db := a.DaysSinceLastSale, b.DaysSinceLastSale; (da == nil) != (db == nil) {
			return da != nil
		} else if da != nil && *da != *db {
			return *da > *db
		}
		return domain.ProductKey{SKU: a.SKU, Name: a.ProductName}.Less(domain.ProductKey{SKU: b.SKU, Name: b.ProductName})
	})
	return rows, nil
}

// wholeDaysBetween counts the full 24-hour periods from since to until.
// It works on Unix seconds so that spans longer than time.Duration can
// hold are still exact.
func wholeDaysBetween(since, until time.Time) int {
	elapsed := until.Unix() - since.Unix()
	if elapsed > 0 && until.Nanosecond() < since.Nanosecond() {
		elapsed--
	} else if elapsed < 0 && until.Nanosecond() > since.Nanosecond() {
		elapsed++
	}
	return int(elapsed / secondsPerDay)
}
