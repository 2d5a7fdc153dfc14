package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind distinguishes outbound sales from inbound replenishment.
type OperationKind string

const (
	OperationSale    OperationKind = "SALE"
	OperationReceipt OperationKind = "RECEIPT"
)

// operationSpellings maps normalized source text to an operation kind.
var operationSpellings = map[string]OperationKind{
	"продажа":     OperationSale,
	"sale":        OperationSale,
	"поступление": OperationReceipt,
	"receipt":     OperationReceipt,
}

// ParseOperationKind normalizes text (case and surrounding whitespace) and
// resolves it to a known operation kind.
func ParseOperationKind(text string) (OperationKind, bool) {
	kind, ok := operationSpellings[NormalizeOperationText(text)]
	return kind, ok
}

// NormalizeOperationText lower-cases and trims operation text.
func NormalizeOperationText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// String returns the kind tag.
func (k OperationKind) String() string {
	return string(k)
}

// ProductKey identifies a product by its article code and name.
type ProductKey struct {
	SKU  string `json:"sku"`
	Name string `json:"product_name"`
}

// Less orders keys by SKU, then by name.
func (k ProductKey) Less(other ProductKey) bool {
	if k.SKU != other.SKU {
		return k.SKU < other.SKU
	}
	return k.Name < other.Name
}

// Transaction is one cleansed row of a sales/inventory log.
type Transaction struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	StoreAddress  string          `json:"store_address"`
	StoreRegion   string          `json:"store_region"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"product_name"`
	Department    string          `json:"department"`
	Quantity      decimal.Decimal `json:"quantity"`
	Operation     OperationKind   `json:"operation"`
	OperationText string          `json:"operation_text"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Amount        decimal.Decimal `json:"amount"`
}

// Product returns the grouping key of the transaction.
func (t Transaction) Product() ProductKey {
	return ProductKey{SKU: t.SKU, Name: t.ProductName}
}

// IsSale reports whether the transaction is an outbound sale.
func (t Transaction) IsSale() bool {
	return t.Operation == OperationSale
}

// IsReceipt reports whether the transaction is an inbound receipt.
func (t Transaction) IsReceipt() bool {
	return t.Operation == OperationReceipt
}
