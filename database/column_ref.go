package database

// ColumnRef names a column within a table, together with its type. Plans use
// refs to declare which committed columns they read.
type ColumnRef struct {
	Table TableRef
	Ident string
	Type  ColumnType
}

// ColumnField describes one column of a result table: its output name and
// data type. The verifier decodes the untrusted result bytes against these.
type ColumnField struct {
	Name string
	Type ColumnType
}
