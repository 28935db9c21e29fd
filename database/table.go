package database

import "fmt"

// TableRef names a table, e.g. "sxt.employees".
type TableRef string

// Table is an ordered collection of named, equal-length columns.
type Table struct {
	names   []string
	columns []Column
	numRows int
}

// NewTable builds a table from parallel name/column slices. All columns must
// share the same length and names must be unique.
func NewTable(names []string, columns []Column) (*Table, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("table has %d names but %d columns", len(names), len(columns))
	}
	numRows := 0
	if len(columns) > 0 {
		numRows = columns[0].Len()
	}
	seen := make(map[string]struct{}, len(names))
	for i := range columns {
		if columns[i].Len() != numRows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", names[i], columns[i].Len(), numRows)
		}
		if _, dup := seen[names[i]]; dup {
			return nil, fmt.Errorf("duplicate column %q", names[i])
		}
		seen[names[i]] = struct{}{}
	}
	return &Table{names: names, columns: columns, numRows: numRows}, nil
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.numRows }

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string { return t.names }

// Column returns the named column, or false when absent.
func (t *Table) Column(name string) (*Column, bool) {
	for i, n := range t.names {
		if n == name {
			return &t.columns[i], true
		}
	}
	return nil, false
}

// ColumnAt returns the i-th column.
func (t *Table) ColumnAt(i int) *Column { return &t.columns[i] }
