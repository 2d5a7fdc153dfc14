package domain

// RawTable is a delimited file decoded into canonical columns and string cells.
type RawTable struct {
	Source    string     `json:"source"`
	Encoding  string     `json:"encoding"`
	Delimiter rune       `json:"delimiter"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
}

// Len returns the number of data rows. A nil table has none.
func (r *RawTable) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// ColumnIndex returns the position of a column or -1 when absent.
func (r *RawTable) ColumnIndex(name string) int {
	if r == nil {
		return -1
	}
	for i, col := range r.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Table is the cleansed transaction set. It is never mutated after
// construction; every accessor hands out copies.
type Table struct {
	records []Transaction
}

// NewTable copies records into a new immutable table.
func NewTable(records []Transaction) *Table {
	owned := make([]Transaction, len(records))
	copy(owned, records)
	return &Table{records: owned}
}

// Len returns the number of records. A nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// IsEmpty reports whether the table holds no records.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// Records returns a copy of the records in input order.
func (t *Table) Records() []Transaction {
	if t == nil {
		return nil
	}
	out := make([]Transaction, len(t.records))
	copy(out, t.records)
	return out
}

// Where returns a new table holding the records accepted by keep.
func (t *Table) Where(keep func(Transaction) bool) *Table {
	if t == nil {
		return NewTable(nil)
	}
	out := make([]Transaction, 0, len(t.records))
	for _, rec := range t.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return &Table{records: out}
}
