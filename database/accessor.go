package database

import "fmt"

// Accessor is an in-memory table store with per-table row offsets. The
// offset is the generator index at which a table's first row was committed,
// so data and commitments line up.
type Accessor struct {
	tables  map[TableRef]*Table
	offsets map[TableRef]int
}

// NewAccessor returns an empty accessor.
func NewAccessor() *Accessor {
	return &Accessor{
		tables:  make(map[TableRef]*Table),
		offsets: make(map[TableRef]int),
	}
}

// AddTable registers a table at the given row offset, replacing any previous
// registration of the same ref.
func (a *Accessor) AddTable(ref TableRef, table *Table, offset int) {
	a.tables[ref] = table
	a.offsets[ref] = offset
}

// Table returns the registered table. It panics on an unknown ref: plans
// only reference tables their construction already validated.
func (a *Accessor) Table(ref TableRef) *Table {
	t, ok := a.tables[ref]
	if !ok {
		panic(fmt.Sprintf("unknown table %q", ref))
	}
	return t
}

// TableLength returns the row count of the registered table.
func (a *Accessor) TableLength(ref TableRef) int {
	return a.Table(ref).NumRows()
}

// TableOffset returns the row offset of the registered table.
func (a *Accessor) TableOffset(ref TableRef) int {
	t, ok := a.offsets[ref]
	if !ok {
		panic(fmt.Sprintf("unknown table %q", ref))
	}
	return t
}
