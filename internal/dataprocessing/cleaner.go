package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// strictDateLayout is the primary DD.MM.YYYY format of the logs.
const strictDateLayout = "02.01.2006"

// lenientDateLayouts are day-first fallbacks tried after the strict layout.
var lenientDateLayouts = []string{
	"2.1.2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"2.1.2006 15:04",
	"02.01.06",
	"2.1.06",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CleanStats counts what the cleaner removed and why. A row is counted once,
// under the first defect found.
type CleanStats struct {
	Input            int `json:"input"`
	Output           int `json:"output"`
	Missing          int `json:"missing"`
	InvalidDate      int `json:"invalid_date"`
	InvalidNumber    int `json:"invalid_number"`
	Negative         int `json:"negative"`
	UnknownOperation int `json:"unknown_operation"`
}

// Dropped returns the number of removed rows.
func (s CleanStats) Dropped() int {
	return s.Input - s.Output
}

// Cleaner coerces raw cells into typed transactions.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

type columnPositions struct {
	id, date, address, region, sku, name, department, quantity, operation, price int
}

// Clean converts raw rows into the cleansed table. Rows with a missing or
// invalid required value, or a negative quantity or price, are dropped.
func (c *Cleaner) Clean(ctx context.Context, raw *domain.RawTable) (*domain.Table, CleanStats, error) {
	var stats CleanStats
	if raw.Len() == 0 {
		return nil, stats, apperrors.NewNoInputDataError("no rows to clean")
	}
	if raw.ColumnIndex(ColumnDate) < 0 {
		return nil, stats, apperrors.NewDateParseError("date column " + ColumnDate + " is absent")
	}
	if missing := MissingRequired(raw.Columns); len(missing) > 0 {
		return nil, stats, apperrors.NewMissingColumnsError(raw.Source, missing)
	}

	pos := columnPositions{
		id:         raw.ColumnIndex(ColumnID),
		date:       raw.ColumnIndex(ColumnDate),
		address:    raw.ColumnIndex(ColumnStoreAddress),
		region:     raw.ColumnIndex(ColumnStoreRegion),
		sku:        raw.ColumnIndex(ColumnSKU),
		name:       raw.ColumnIndex(ColumnProductName),
		department: raw.ColumnIndex(ColumnDepartment),
		quantity:   raw.ColumnIndex(ColumnQuantity),
		operation:  raw.ColumnIndex(ColumnOperation),
		price:      raw.ColumnIndex(ColumnUnitPrice),
	}

	stats.Input = raw.Len()
	records := make([]domain.Transaction, 0, raw.Len())
	for _, row := range raw.Rows {
		tx, ok := c.cleanRow(row, pos, &stats)
		if ok {
			records = append(records, tx)
		}
	}
	stats.Output = len(records)

	if dropped := stats.Dropped(); dropped > 0 {
		c.logger.InfoContext(ctx, "removed rows with missing or invalid values",
			slog.String("source", raw.Source),
			slog.Int("removed", dropped),
			slog.Int("missing", stats.Missing),
			slog.Int("invalid_date", stats.InvalidDate),
			slog.Int("invalid_number", stats.InvalidNumber),
			slog.Int("negative", stats.Negative),
			slog.Int("unknown_operation", stats.UnknownOperation))
	}

	return domain.NewTable(records), stats, nil
}

func (c *Cleaner) cleanRow(row []string, pos columnPositions, stats *CleanStats) (domain.Transaction, bool) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	tx := domain.Transaction{
		ID:            cell(pos.id),
		StoreAddress:  cell(pos.address),
		StoreRegion:   cell(pos.region),
		SKU:           cell(pos.sku),
		ProductName:   cell(pos.name),
		Department:    cell(pos.department),
		OperationText: cell(pos.operation),
	}
	dateText, qtyText, priceText := cell(pos.date), cell(pos.quantity), cell(pos.price)

	for _, v := range []string{tx.ID, tx.StoreAddress, tx.StoreRegion, tx.SKU, tx.ProductName,
		tx.Department, tx.OperationText, dateText, qtyText, priceText} {
		if v == "" {
			stats.Missing++
			return tx, false
		}
	}

	date, ok := ParseDate(dateText)
	if !ok {
		stats.InvalidDate++
		return tx, false
	}
	qty, ok := ParseDecimal(qtyText)
	if !ok {
		stats.InvalidNumber++
		return tx, false
	}
	price, ok := ParseDecimal(priceText)
	if !ok {
		stats.InvalidNumber++
		return tx, false
	}
	if qty.IsNegative() || price.IsNegative() {
		stats.Negative++
		return tx, false
	}
	kind, ok := domain.ParseOperationKind(tx.OperationText)
	if !ok {
		stats.UnknownOperation++
		return tx, false
	}

	tx.Date = date
	tx.Quantity = qty
	tx.UnitPrice = price
	tx.Operation = kind
	tx.Amount = qty.Mul(price)
	return tx, true
}

// ParseDate parses a day-first date, trying the strict DD.MM.YYYY layout
// before the lenient ones. The result is in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(strictDateLayout, s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range lenientDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseDecimal parses a number written with either a decimal comma or a
// decimal point. Spaces used as thousands separators are ignored.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
