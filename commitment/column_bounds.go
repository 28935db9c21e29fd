package commitment

import (
	"fmt"
	"math"

	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// ColumnBoundsKind discriminates which column variant a ColumnBounds belongs
// to. Bounds of different variants cannot operate with each other.
type ColumnBoundsKind uint8

const (
	// ColumnBoundsNoOrder marks columns without order.
	ColumnBoundsNoOrder ColumnBoundsKind = iota
	// ColumnBoundsSmallInt bounds an int16 column.
	ColumnBoundsSmallInt
	// ColumnBoundsInt bounds an int32 column.
	ColumnBoundsInt
	// ColumnBoundsBigInt bounds an int64 column.
	ColumnBoundsBigInt
	// ColumnBoundsInt128 bounds a 128-bit integer column.
	ColumnBoundsInt128
	// ColumnBoundsTimestampTZ bounds a timestamp column.
	ColumnBoundsTimestampTZ
)

func (k ColumnBoundsKind) String() string {
	switch k {
	case ColumnBoundsNoOrder:
		return "NoOrder"
	case ColumnBoundsSmallInt:
		return "SmallInt"
	case ColumnBoundsInt:
		return "Int"
	case ColumnBoundsBigInt:
		return "BigInt"
	case ColumnBoundsInt128:
		return "Int128"
	case ColumnBoundsTimestampTZ:
		return "TimestampTZ"
	default:
		return "unknown"
	}
}

// ColumnBounds stores the bounds for column types that have order. Values are
// widened to 128 bits internally; the kind records the source variant so that
// mismatched variants cannot be combined.
//
// Other orderable column variants exist (Scalar, Boolean, VarChar), but
// bounding them is useless until indexing over them is supported.
type ColumnBounds struct {
	kind   ColumnBoundsKind
	bounds Bounds[scalar.Int128]
}

// NoOrderColumnBounds returns the bounds of a column without order.
func NoOrderColumnBounds() ColumnBounds {
	return ColumnBounds{kind: ColumnBoundsNoOrder}
}

// SmallIntColumnBounds wraps int16 bounds.
func SmallIntColumnBounds(b Bounds[int16]) ColumnBounds {
	return ColumnBounds{kind: ColumnBoundsSmallInt, bounds: widen(b, func(v int16) scalar.Int128 {
		return scalar.Int128FromInt64(int64(v))
	})}
}

// IntColumnBounds wraps int32 bounds.
func IntColumnBounds(b Bounds[int32]) ColumnBounds {
	return ColumnBounds{kind: ColumnBoundsInt, bounds: widen(b, func(v int32) scalar.Int128 {
		return scalar.Int128FromInt64(int64(v))
	})}
}

// BigIntColumnBounds wraps int64 bounds.
func BigIntColumnBounds(b Bounds[int64]) ColumnBounds {
	return ColumnBounds{kind: ColumnBoundsBigInt, bounds: widen(b, scalar.Int128FromInt64)}
}

// Int128ColumnBounds wraps 128-bit bounds.
func Int128ColumnBounds(b Bounds[scalar.Int128]) ColumnBounds {
	return ColumnBounds{kind: ColumnBoundsInt128, bounds: b}
}

// TimestampTZColumnBounds wraps timestamp bounds.
func TimestampTZColumnBounds(b Bounds[int64]) ColumnBounds {
	return ColumnBounds{kind: ColumnBoundsTimestampTZ, bounds: widen(b, scalar.Int128FromInt64)}
}

func widen[T Ordered](b Bounds[T], conv func(T) scalar.Int128) Bounds[scalar.Int128] {
	return Bounds[scalar.Int128]{kind: b.kind, min: conv(b.min), max: conv(b.max)}
}

// ColumnBoundsFromColumn computes the bounds of a column. Column variants
// with order get sharp min/max bounds; the rest get NoOrder.
func ColumnBoundsFromColumn(col *database.Column) ColumnBounds {
	switch col.Type() {
	case database.ColumnTypeSmallInt:
		return SmallIntColumnBounds(BoundsFromSlice(col.Int16s()))
	case database.ColumnTypeInt:
		return IntColumnBounds(BoundsFromSlice(col.Int32s()))
	case database.ColumnTypeBigInt:
		return BigIntColumnBounds(BoundsFromSlice(col.Int64s()))
	case database.ColumnTypeInt128:
		return Int128ColumnBounds(BoundsFromSlice(col.Int128s()))
	case database.ColumnTypeTimestampTZ:
		return TimestampTZColumnBounds(BoundsFromSlice(col.Int64s()))
	default:
		return NoOrderColumnBounds()
	}
}

// MaxColumnBounds returns the widest possible bounds for a column type, used
// when metadata must be constructed without the data.
func MaxColumnBounds(typ database.ColumnType) ColumnBounds {
	bounded := func(min, max scalar.Int128) Bounds[scalar.Int128] {
		return Bounds[scalar.Int128]{kind: BoundsBounded, min: min, max: max}
	}
	switch typ {
	case database.ColumnTypeSmallInt:
		return ColumnBounds{kind: ColumnBoundsSmallInt, bounds: bounded(
			scalar.Int128FromInt64(math.MinInt16), scalar.Int128FromInt64(math.MaxInt16))}
	case database.ColumnTypeInt:
		return ColumnBounds{kind: ColumnBoundsInt, bounds: bounded(
			scalar.Int128FromInt64(math.MinInt32), scalar.Int128FromInt64(math.MaxInt32))}
	case database.ColumnTypeBigInt:
		return ColumnBounds{kind: ColumnBoundsBigInt, bounds: bounded(
			scalar.Int128FromInt64(math.MinInt64), scalar.Int128FromInt64(math.MaxInt64))}
	case database.ColumnTypeInt128:
		return ColumnBounds{kind: ColumnBoundsInt128, bounds: bounded(
			scalar.MinInt128(), scalar.MaxInt128())}
	case database.ColumnTypeTimestampTZ:
		return ColumnBounds{kind: ColumnBoundsTimestampTZ, bounds: bounded(
			scalar.Int128FromInt64(math.MinInt64), scalar.Int128FromInt64(math.MaxInt64))}
	default:
		return NoOrderColumnBounds()
	}
}

// Kind returns the column variant of these bounds.
func (cb ColumnBounds) Kind() ColumnBoundsKind { return cb.kind }

// Bounds returns the widened value bounds. Meaningless for NoOrder.
func (cb ColumnBounds) Bounds() Bounds[scalar.Int128] { return cb.bounds }

func (cb ColumnBounds) String() string {
	if cb.kind == ColumnBoundsNoOrder {
		return cb.kind.String()
	}
	return fmt.Sprintf("%s(kind=%d)", cb.kind, cb.bounds.kind)
}

// TryUnion combines two column bounds as if their source collections are
// being unioned. Errors if the variants differ.
func (cb ColumnBounds) TryUnion(other ColumnBounds) (ColumnBounds, error) {
	if cb.kind != other.kind {
		return ColumnBounds{}, &ColumnBoundsMismatchError{A: cb, B: other}
	}
	if cb.kind == ColumnBoundsNoOrder {
		return cb, nil
	}
	return ColumnBounds{kind: cb.kind, bounds: cb.bounds.Union(other.bounds)}, nil
}

// TryDifference combines two column bounds as if their source collections
// are being differenced. Errors if the variants differ.
func (cb ColumnBounds) TryDifference(other ColumnBounds) (ColumnBounds, error) {
	if cb.kind != other.kind {
		return ColumnBounds{}, &ColumnBoundsMismatchError{A: cb, B: other}
	}
	if cb.kind == ColumnBoundsNoOrder {
		return cb, nil
	}
	return ColumnBounds{kind: cb.kind, bounds: cb.bounds.Difference(other.bounds)}, nil
}
