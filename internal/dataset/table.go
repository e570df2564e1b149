package dataset

import "github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"

// Table is an immutable, ordered set of mortality records.
// Every transformation returns a new Table; the backing records are never modified.
type Table struct {
	records []model.Record
}

// NewTable copies records into a new Table
func NewTable(records []model.Record) Table {
	if len(records) == 0 {
		return Table{}
	}
	return Table{records: append([]model.Record(nil), records...)}
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.records)
}

// Empty reports whether the table has no rows
func (t Table) Empty() bool {
	return len(t.records) == 0
}

// At returns row i
func (t Table) At(i int) model.Record {
	return t.records[i]
}

// Records returns a copy of the rows
func (t Table) Records() []model.Record {
	return append([]model.Record(nil), t.records...)
}

// Filter returns the rows for which keep returns true, preserving order
func (t Table) Filter(keep func(model.Record) bool) Table {
	var out []model.Record
	for _, r := range t.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Table{records: out}
}

// Each calls fn for every row in order
func (t Table) Each(fn func(model.Record)) {
	for _, r := range t.records {
		fn(r)
	}
}
