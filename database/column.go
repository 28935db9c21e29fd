// Package database holds the minimal table model the proof layer operates
// on: typed columns, tables, and the accessors plans read witness data and
// commitments through.
package database

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/scalar"
)

// ColumnType identifies the data type of a column.
type ColumnType uint8

const (
	// ColumnTypeBoolean is a bool column.
	ColumnTypeBoolean ColumnType = iota
	// ColumnTypeSmallInt is an int16 column.
	ColumnTypeSmallInt
	// ColumnTypeInt is an int32 column.
	ColumnTypeInt
	// ColumnTypeBigInt is an int64 column.
	ColumnTypeBigInt
	// ColumnTypeInt128 is a signed 128-bit column.
	ColumnTypeInt128
	// ColumnTypeTimestampTZ is an int64 epoch-time column.
	ColumnTypeTimestampTZ
	// ColumnTypeScalar is a raw field-element column.
	ColumnTypeScalar
	// ColumnTypeVarChar is a string column, committed via hashes.
	ColumnTypeVarChar
)

func (t ColumnType) String() string {
	switch t {
	case ColumnTypeBoolean:
		return "boolean"
	case ColumnTypeSmallInt:
		return "smallint"
	case ColumnTypeInt:
		return "int"
	case ColumnTypeBigInt:
		return "bigint"
	case ColumnTypeInt128:
		return "int128"
	case ColumnTypeTimestampTZ:
		return "timestamptz"
	case ColumnTypeScalar:
		return "scalar"
	case ColumnTypeVarChar:
		return "varchar"
	default:
		return "unknown"
	}
}

// Column is a typed column of data. Exactly one of the data slices is
// populated, matching the column type.
type Column struct {
	typ ColumnType

	bools   []bool
	int16s  []int16
	int32s  []int32
	int64s  []int64 // BigInt and TimestampTZ
	int128s []scalar.Int128
	scalars []fr.Element
	strs    []string
}

// NewBooleanColumn wraps a bool slice.
func NewBooleanColumn(data []bool) Column {
	return Column{typ: ColumnTypeBoolean, bools: data}
}

// NewSmallIntColumn wraps an int16 slice.
func NewSmallIntColumn(data []int16) Column {
	return Column{typ: ColumnTypeSmallInt, int16s: data}
}

// NewIntColumn wraps an int32 slice.
func NewIntColumn(data []int32) Column {
	return Column{typ: ColumnTypeInt, int32s: data}
}

// NewBigIntColumn wraps an int64 slice.
func NewBigIntColumn(data []int64) Column {
	return Column{typ: ColumnTypeBigInt, int64s: data}
}

// NewInt128Column wraps a 128-bit integer slice.
func NewInt128Column(data []scalar.Int128) Column {
	return Column{typ: ColumnTypeInt128, int128s: data}
}

// NewTimestampTZColumn wraps an int64 epoch-time slice.
func NewTimestampTZColumn(data []int64) Column {
	return Column{typ: ColumnTypeTimestampTZ, int64s: data}
}

// NewScalarColumn wraps a field-element slice.
func NewScalarColumn(data []fr.Element) Column {
	return Column{typ: ColumnTypeScalar, scalars: data}
}

// NewVarCharColumn wraps a string slice.
func NewVarCharColumn(data []string) Column {
	return Column{typ: ColumnTypeVarChar, strs: data}
}

// Type returns the column type.
func (c *Column) Type() ColumnType {
	return c.typ
}

// Len returns the number of rows.
func (c *Column) Len() int {
	switch c.typ {
	case ColumnTypeBoolean:
		return len(c.bools)
	case ColumnTypeSmallInt:
		return len(c.int16s)
	case ColumnTypeInt:
		return len(c.int32s)
	case ColumnTypeBigInt, ColumnTypeTimestampTZ:
		return len(c.int64s)
	case ColumnTypeInt128:
		return len(c.int128s)
	case ColumnTypeScalar:
		return len(c.scalars)
	case ColumnTypeVarChar:
		return len(c.strs)
	default:
		return 0
	}
}

// Bools returns the underlying data of a boolean column.
func (c *Column) Bools() []bool { return c.bools }

// Int16s returns the underlying data of a smallint column.
func (c *Column) Int16s() []int16 { return c.int16s }

// Int32s returns the underlying data of an int column.
func (c *Column) Int32s() []int32 { return c.int32s }

// Int64s returns the underlying data of a bigint or timestamp column.
func (c *Column) Int64s() []int64 { return c.int64s }

// Int128s returns the underlying data of an int128 column.
func (c *Column) Int128s() []scalar.Int128 { return c.int128s }

// RawScalars returns the underlying data of a scalar column.
func (c *Column) RawScalars() []fr.Element { return c.scalars }

// Strings returns the underlying data of a varchar column.
func (c *Column) Strings() []string { return c.strs }

// Scalars lifts the column data into the field, row by row.
func (c *Column) Scalars() []fr.Element {
	out := make([]fr.Element, c.Len())
	switch c.typ {
	case ColumnTypeBoolean:
		for i, v := range c.bools {
			out[i] = scalar.FromBool(v)
		}
	case ColumnTypeSmallInt:
		for i, v := range c.int16s {
			out[i] = scalar.FromInt64(int64(v))
		}
	case ColumnTypeInt:
		for i, v := range c.int32s {
			out[i] = scalar.FromInt64(int64(v))
		}
	case ColumnTypeBigInt, ColumnTypeTimestampTZ:
		for i, v := range c.int64s {
			out[i] = scalar.FromInt64(v)
		}
	case ColumnTypeInt128:
		for i, v := range c.int128s {
			out[i] = scalar.FromInt128(v)
		}
	case ColumnTypeScalar:
		copy(out, c.scalars)
	case ColumnTypeVarChar:
		for i, v := range c.strs {
			out[i] = scalar.FromString(v)
		}
	}
	return out
}
