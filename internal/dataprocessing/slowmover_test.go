package dataprocessing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

func TestSlowMovers(t *testing.T) {
	now := date(2024, time.June, 30)
	jan := date(2024, time.January, 10)
	table := domain.NewTable([]domain.Transaction{
		// stock 40, no sale inside the window
		receipt(jan, "S-1", "Залежалый", "x", 50, 1),
		sale(jan, "S-1", "Залежалый", "x", 10, 2),
		// recent 3, last sale 10 days ago
		receipt(jan, "S-2", "Редкий", "x", 20, 1),
		sale(date(2024, time.June, 20), "S-2", "Редкий", "x", 3, 2),
		// recent 10 is above the threshold
		receipt(jan, "S-3", "Ходовой", "x", 20, 1),
		sale(date(2024, time.June, 25), "S-3", "Ходовой", "x", 10, 2),
		// sold out
		receipt(jan, "S-4", "Распродан", "x", 5, 1),
		sale(date(2024, time.June, 1), "S-4", "Распродан", "x", 5, 2),
		// recent 2, last sale 60 days ago
		receipt(jan, "S-5", "Сезонный", "x", 30, 1),
		sale(date(2024, time.May, 1), "S-5", "Сезонный", "x", 2, 2),
		// sale exactly at the cutoff counts as recent
		receipt(jan, "S-6", "Граничный", "x", 10, 1),
		sale(date(2024, time.April, 1), "S-6", "Граничный", "x", 3, 2),
		// never sold
		receipt(jan, "S-7", "Новинка", "x", 8, 1),
		// recent equals the threshold
		receipt(jan, "S-8", "Пороговый", "x", 10, 1),
		sale(date(2024, time.June, 29), "S-8", "Пороговый", "x", 5, 2),
	})

	rows, err := SlowMovers(table, now, 90, decimal.NewFromInt(5))
	require.NoError(t, err)

	skus := make([]string, len(rows))
	for i, r := range rows {
		skus[i] = r.SKU
	}
	assert.Equal(t, []string{"S-1", "S-7", "S-5", "S-6", "S-2", "S-8"}, skus)

	first := rows[0]
	assert.True(t, first.SoldInWindow.IsZero())
	assert.Equal(t, "40", first.CurrentStock.String())
	assert.Nil(t, first.DaysSinceLastSale)

	days := func(r domain.SlowMoverRow) int {
		require.NotNil(t, r.DaysSinceLastSale, r.SKU)
		return *r.DaysSinceLastSale
	}
	assert.Equal(t, 60, days(rows[2]))
	assert.Equal(t, 90, days(rows[3]))
	assert.Equal(t, 10, days(rows[4]))
	assert.Equal(t, 1, days(rows[5]))
}

func TestSlowMovers_EdgeCases(t *testing.T) {
	now := date(2024, time.June, 30)

	t.Run("empty table", func(t *testing.T) {
		rows, err := SlowMovers(domain.NewTable(nil), now, 90, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("nil table", func(t *testing.T) {
		rows, err := SlowMovers(nil, now, 90, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("invalid window", func(t *testing.T) {
		_, err := SlowMovers(domain.NewTable(nil), now, 0, decimal.NewFromInt(5))
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestSlowMovers_AncientLastSale(t *testing.T) {
	now := date(2024, time.June, 30)
	table := domain.NewTable([]domain.Transaction{
		receipt(date(1, time.January, 1), "S-1", "Архивный", "x", 10, 1),
		sale(date(1, time.January, 2), "S-1", "Архивный", "x", 1, 2),
	})

	rows, err := SlowMovers(table, now, 800000, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].DaysSinceLastSale)
	assert.Equal(t, 739065, *rows[0].DaysSinceLastSale)
	assert.Equal(t, "1", rows[0].SoldInWindow.String())
}

func TestWholeDaysBetween(t *testing.T) {
	base := date(2024, time.June, 1)
	tests := []struct {
		name  string
		since time.Time
		until time.Time
		want  int
	}{
		{name: "same instant", since: base, until: base, want: 0},
		{name: "one day", since: base, until: base.AddDate(0, 0, 1), want: 1},
		{name: "just short of a day", since: base, until: base.Add(24*time.Hour - time.Nanosecond), want: 0},
		{name: "partial day rounds down", since: base.Add(18 * time.Hour), until: base.Add(36 * time.Hour), want: 0},
		{name: "future sale", since: base.AddDate(0, 0, 2), until: base, want: -2},
		{name: "beyond duration range", since: date(1, time.January, 2), until: date(2024, time.June, 30), want: 739065},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wholeDaysBetween(tt.since, tt.until))
		})
	}
}
