package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

func TestFilterByOperation(t *testing.T) {
	d := date(2024, time.March, 1)
	table := domain.NewTable([]domain.Transaction{
		sale(d, "A-1", "Молоко", "Молочные", 1, 10),
		receipt(d, "A-1", "Молоко", "Молочные", 5, 7),
		sale(d, "A-2", "Хлеб", "Выпечка", 2, 3),
	})
	salesOnly := domain.NewTable([]domain.Transaction{sale(d, "A-1", "Молоко", "Молочные", 1, 10)})

	tests := []struct {
		name    string
		table   *domain.Table
		tag     string
		wantLen int
		wantErr error
	}{
		{name: "no tag returns everything", table: table, tag: "", wantLen: 3},
		{name: "sales in source language", table: table, tag: "Продажа", wantLen: 2},
		{name: "receipts with padding", table: table, tag: "  ПОСТУПЛЕНИЕ ", wantLen: 1},
		{name: "english tag", table: table, tag: "sale", wantLen: 2},
		{name: "valid tag without rows", table: salesOnly, tag: "поступление", wantLen: 0},
		{name: "unknown tag", table: table, tag: "продажи", wantErr: apperrors.ErrLookupMiss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterByOperation(tt.table, tt.tag)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, got.Len())
		})
	}
}

func TestSalesAndReceiptsSplit(t *testing.T) {
	d := date(2024, time.March, 1)
	table := domain.NewTable([]domain.Transaction{
		sale(d, "A-1", "Молоко", "Молочные", 1, 10),
		receipt(d, "A-1", "Молоко", "Молочные", 5, 7),
		sale(d, "A-2", "Хлеб", "Выпечка", 2, 3),
	})

	out := sales(table)
	require.Equal(t, 2, out.Len())
	for _, row := range out.Records() {
		assert.True(t, row.IsSale())
	}

	in := receipts(table)
	require.Equal(t, 1, in.Len())
	assert.True(t, in.Records()[0].IsReceipt())
	assert.False(t, in.Records()[0].IsSale())
}
