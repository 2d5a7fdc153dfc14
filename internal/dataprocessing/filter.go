package dataprocessing

import (
	"strings"

	apperrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

// FilterByOperation returns the rows whose operation kind matches tag. An
// empty tag returns the whole table. A tag that names no known operation
// kind fails with LookupMiss; a known tag without matching rows yields an
// empty table.
func FilterByOperation(table *domain.Table, tag string) (*domain.Table, error) {
	if strings.TrimSpace(tag) == "" {
		return domain.NewTable(table.Records()), nil
	}
	kind, ok := domain.ParseOperationKind(tag)
	if !ok {
		return nil, apperrors.NewLookupMissError(tag)
	}
	return byKind(table, kind), nil
}

func byKind(table *domain.Table, kind domain.OperationKind) *domain.Table {
	return table.Where(func(tx domain.Transaction) bool {
		return tx.Operation == kind
	})
}

func sales(table *domain.Table) *domain.Table {
	return table.Where(domain.Transaction.IsSale)
}

func receipts(table *domain.Table) *domain.Table {
	return table.Where(domain.Transaction.IsReceipt)
}
