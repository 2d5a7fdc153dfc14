package dataprocessing

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"salespulse/pkg/contracts/domain"
)

const canonicalHeader = "ID операции;Дата;Адрес магазина;Район магазина;Артикул;Название товара;Отдел товара;Количество упаковок;Тип операции (продажа/поступление);Стоимость одной единицы"

// csvRow builds one ';'-separated data row.
func csvRow(id, date, sku, name, dept, qty, op, price string) string {
	return strings.Join([]string{id, date, "ул. Ленина 1", "Центральный", sku, name, dept, qty, op, price}, ";")
}

func csvDocument(header string, rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// tx builds a cleansed transaction with Amount derived from qty and price.
func tx(day time.Time, sku, name, dept string, op domain.OperationKind, qty, price int64) domain.Transaction {
	q, p := decimal.NewFromInt(qty), decimal.NewFromInt(price)
	return domain.Transaction{
		ID:          sku + "-" + day.Format("20060102"),
		Date:        day,
		SKU:         sku,
		ProductName: name,
		Department:  dept,
		Quantity:    q,
		Operation:   op,
		UnitPrice:   p,
		Amount:      q.Mul(p),
	}
}

func sale(day time.Time, sku, name, dept string, qty, price int64) domain.Transaction {
	return tx(day, sku, name, dept, domain.OperationSale, qty, price)
}

func receipt(day time.Time, sku, name, dept string, qty, price int64) domain.Transaction {
	return tx(day, sku, name, dept, domain.OperationReceipt, qty, price)
}

// commaDocument re-delimits a ';' document with ',' and quotes fields that
// contain a comma, the way spreadsheet exports do.
func commaDocument(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		fields := strings.Split(line, ";")
		for j, f := range fields {
			if strings.Contains(f, ",") {
				fields[j] = `"` + f + `"`
			}
		}
		lines[i] = strings.Join(fields, ",")
	}
	return strings.Join(lines, "\n")
}
