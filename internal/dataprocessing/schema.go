package dataprocessing

import (
	"regexp"
	"strings"
)

// Canonical column names of a transaction log.
const (
	ColumnID           = "ID операции"
	ColumnDate         = "Дата"
	ColumnStoreAddress = "Адрес магазина"
	ColumnStoreRegion  = "Район магазина"
	ColumnSKU          = "Артикул"
	ColumnProductName  = "Название товара"
	ColumnDepartment   = "Отдел товара"
	ColumnQuantity     = "Количество упаковок"
	ColumnOperation    = "Тип операции (продажа/поступление)"
	ColumnUnitPrice    = "Стоимость одной единицы"
)

// RequiredColumns is the canonical schema, in report order.
var RequiredColumns = []string{
	ColumnID,
	ColumnDate,
	ColumnStoreAddress,
	ColumnStoreRegion,
	ColumnSKU,
	ColumnProductName,
	ColumnDepartment,
	ColumnQuantity,
	ColumnOperation,
	ColumnUnitPrice,
}

// headerAliases maps historical header spellings (normalized) to canonical names.
var headerAliases = map[string]string{
	"количество упаковок, шт.":          ColumnQuantity,
	"количество упаковок, шт":           ColumnQuantity,
	"количество":                        ColumnQuantity,
	"операция":                          ColumnOperation,
	"тип операции":                      ColumnOperation,
	"тип операции (продажа/поступление": ColumnOperation,
	"цена руб./шт.":                     ColumnUnitPrice,
	"цена, руб./шт.":                    ColumnUnitPrice,
	"цена руб./шт":                      ColumnUnitPrice,
	"стоимость единицы":                 ColumnUnitPrice,
	"id":                                ColumnID,
	"адрес":                             ColumnStoreAddress,
	"район":                             ColumnStoreRegion,
	"отдел":                             ColumnDepartment,
}

var canonicalByKey = func() map[string]string {
	m := make(map[string]string, len(RequiredColumns)+len(headerAliases))
	for alias, canonical := range headerAliases {
		m[alias] = canonical
	}
	for _, col := range RequiredColumns {
		m[headerKey(col)] = col
	}
	return m
}()

// unnamedColumn matches index-column artifacts such as "Unnamed: 0".
var unnamedColumn = regexp.MustCompile(`(?i)^unnamed:?\s*\d*$`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// headerKey normalizes a header for lookup: BOM and zero-width characters
// removed, whitespace collapsed, lower-cased.
func headerKey(header string) string {
	cleaned := strings.TrimPrefix(header, "\ufeff")
	cleaned = strings.ReplaceAll(cleaned, "\u200b", "")
	cleaned = strings.ReplaceAll(cleaned, "\u00a0", " ")
	cleaned = whitespaceRun.ReplaceAllString(strings.TrimSpace(cleaned), " ")
	return strings.ToLower(cleaned)
}

// CanonicalHeader translates a source header to its canonical name. Unknown
// headers are returned trimmed but otherwise unchanged.
func CanonicalHeader(header string) string {
	key := headerKey(header)
	if canonical, ok := canonicalByKey[key]; ok {
		return canonical
	}
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")), " ")
}

// IsPlaceholderColumn reports whether a header is an unnamed index artifact.
func IsPlaceholderColumn(header string) bool {
	key := headerKey(header)
	return key == "" || unnamedColumn.MatchString(key)
}

// MissingRequired returns the required columns absent from columns, in schema order.
func MissingRequired(columns []string) []string {
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
