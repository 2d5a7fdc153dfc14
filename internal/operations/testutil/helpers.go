package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// SalesHeader is the canonical header of a transaction log
const SalesHeader = "ID операции;Дата;Адрес магазина;Район магазина;Артикул;Название товара;Отдел товара;Количество упаковок;Тип операции (продажа/поступление);Стоимость одной единицы"

// CreateTestFile writes content to dir/name and returns the path
func CreateTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file %s: %v", path, err)
	}
	return path
}

// SalesRows generates valid ';'-separated rows. Every third row is a
// receipt, the rest are sales spread over consecutive days from start.
func SalesRows(prefix string, valid int, start time.Time) []string {
	rows := make([]string, 0, valid)
	for i := 0; i < valid; i++ {
		op := "Продажа"
		if i%3 == 2 {
			op = "Поступление"
		}
		day := start.AddDate(0, 0, i)
		rows = append(rows, strings.Join([]string{
			fmt.Sprintf("%s-%03d", prefix, i),
			day.Format("02.01.2006"),
			"ул. Ленина 1",
			"Центральный",
			fmt.Sprintf("SKU-%d", i%4),
			fmt.Sprintf("Товар %d", i%4),
			[]string{"Молочные продукты", "Бакалея"}[i%2],
			fmt.Sprintf("%d", 1+i%5),
			op,
			fmt.Sprintf("%d,50", 10+i%7),
		}, ";"))
	}
	return rows
}

// InvalidRows generates rows the cleaner drops: bad date, negative price
// and unknown operation, cycling.
func InvalidRows(prefix string, count int) []string {
	rows := make([]string, 0, count)
	for i := 0; i < count; i++ {
		fields := []string{fmt.Sprintf("%s-bad-%03d", prefix, i), "01.02.2024", "ул. Ленина 1", "Центральный", "SKU-9", "Товар 9", "Бакалея", "1", "Продажа", "10"}
		switch i % 3 {
		case 0:
			fields[1] = "31.02.2024"
		case 1:
			fields[9] = "-10"
		case 2:
			fields[8] = "Списание"
		}
		rows = append(rows, strings.Join(fields, ";"))
	}
	return rows
}

// CreateSalesFile writes a UTF-8 transaction log with the given rows
func CreateSalesFile(t *testing.T, dir, name string, rows []string) string {
	t.Helper()
	return CreateTestFile(t, dir, name, SalesHeader+"\n"+strings.Join(rows, "\n")+"\n")
}
