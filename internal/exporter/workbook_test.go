package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookExporter_Write(t *testing.T) {
	dir := t.TempDir()
	exporter := NewWorkbookExporter(testPaths(dir), nil)
	assert.Equal(t, "workbook", exporter.Name())

	written, err := exporter.Write(context.Background(), sampleResult())
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "exports", WorkbookFile)}, written)

	f, err := excelize.OpenFile(written[0])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Выручка", "Прибыль", "Отделы", "Топ по количеству", "Топ по выручке", "Оборачиваемость", "Залежавшиеся товары",
	}, f.GetSheetList())

	rows, err := f.GetRows("Оборачиваемость")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Артикул", rows[0][0])
	assert.Equal(t, "A-1", rows[1][0])

	profit, err := f.GetCellValue("Оборачиваемость", "H3")
	require.NoError(t, err)
	assert.Equal(t, "-600", profit)

	days, err := f.GetCellValue("Залежавшиеся товары", "E2")
	require.NoError(t, err)
	assert.Equal(t, "—", days)
}

func TestCellValue(t *testing.T) {
	sheet := Sheet{Numeric: []bool{false, true}}

	assert.Equal(t, "007", cellValue(sheet, 0, "007"))
	assert.Equal(t, 12.5, cellValue(sheet, 1, "12.5"))
	assert.Equal(t, "—", cellValue(sheet, 1, "—"))
	assert.Equal(t, "x", cellValue(sheet, 5, "x"))
}
