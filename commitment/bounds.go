package commitment

import (
	"cmp"

	"golang.org/x/exp/constraints"

	"github.com/verifiabledb/sqlproofs/scalar"
)

// Ordered covers the integer types whose columns carry bounds.
type Ordered interface {
	constraints.Signed | scalar.Int128
}

func compare[T Ordered](a, b T) int {
	switch a := any(a).(type) {
	case scalar.Int128:
		return a.Cmp(any(b).(scalar.Int128))
	case int8:
		return cmp.Compare(a, any(b).(int8))
	case int16:
		return cmp.Compare(a, any(b).(int16))
	case int32:
		return cmp.Compare(a, any(b).(int32))
	case int64:
		return cmp.Compare(a, any(b).(int64))
	case int:
		return cmp.Compare(a, any(b).(int))
	default:
		panic("unreachable: Ordered admits no other types")
	}
}

// BoundsKind discriminates the bounds variants.
type BoundsKind uint8

const (
	// BoundsEmpty means the source collection is empty so has no bounds.
	BoundsEmpty BoundsKind = iota
	// BoundsSharp means min and max are the exact inclusive bounds of the
	// source collection.
	BoundsSharp
	// BoundsBounded means the exact bounds cannot be determined; min
	// underestimates and max overestimates.
	BoundsBounded
)

// Bounds holds the minimum and maximum values (inclusive) of a collection of
// data. The zero value is the empty bounds.
//
// Min and max are only meaningful for the sharp and bounded kinds; keeping
// them unexported prevents invalid states.
type Bounds[T Ordered] struct {
	kind     BoundsKind
	min, max T
}

// EmptyBounds returns the bounds of an empty collection.
func EmptyBounds[T Ordered]() Bounds[T] {
	return Bounds[T]{}
}

// SharpBounds constructs exact bounds. Errors if min > max.
func SharpBounds[T Ordered](min, max T) (Bounds[T], error) {
	if compare(min, max) > 0 {
		return Bounds[T]{}, ErrNegativeBounds
	}
	return Bounds[T]{kind: BoundsSharp, min: min, max: max}, nil
}

// BoundedBounds constructs inexact bounds. Errors if min > max.
func BoundedBounds[T Ordered](min, max T) (Bounds[T], error) {
	if compare(min, max) > 0 {
		return Bounds[T]{}, ErrNegativeBounds
	}
	return Bounds[T]{kind: BoundsBounded, min: min, max: max}, nil
}

// BoundsFromSlice computes sharp bounds over the data, or empty bounds for an
// empty slice.
func BoundsFromSlice[T Ordered](data []T) Bounds[T] {
	if len(data) == 0 {
		return Bounds[T]{}
	}
	b := Bounds[T]{kind: BoundsSharp, min: data[0], max: data[0]}
	for _, v := range data[1:] {
		if compare(v, b.min) < 0 {
			b.min = v
		}
		if compare(v, b.max) > 0 {
			b.max = v
		}
	}
	return b
}

// Kind returns the bounds variant.
func (b Bounds[T]) Kind() BoundsKind { return b.kind }

// Min returns the minimum. Meaningless for empty bounds.
func (b Bounds[T]) Min() T { return b.min }

// Max returns the maximum. Meaningless for empty bounds.
func (b Bounds[T]) Max() T { return b.max }

// Union combines two bounds as if their source collections are being
// unioned. Sharpness survives only when both sides are sharp.
func (b Bounds[T]) Union(other Bounds[T]) Bounds[T] {
	if b.kind == BoundsEmpty {
		return other
	}
	if other.kind == BoundsEmpty {
		return b
	}
	out := Bounds[T]{kind: BoundsSharp, min: b.min, max: b.max}
	if b.kind == BoundsBounded || other.kind == BoundsBounded {
		out.kind = BoundsBounded
	}
	if compare(other.min, out.min) < 0 {
		out.min = other.min
	}
	if compare(other.max, out.max) > 0 {
		out.max = other.max
	}
	return out
}

// Difference combines two bounds as if their source collections are being
// differenced (the rows in b that are not also rows in other).
//
// Which values are removed cannot be determined, so the result is usually
// bounded with b's min and max. The exceptions are cases where no value can
// have been removed: other is empty, or b is sharp and provably disjoint
// from other.
func (b Bounds[T]) Difference(other Bounds[T]) Bounds[T] {
	switch {
	case b.kind == BoundsEmpty:
		return b
	case other.kind == BoundsEmpty:
		return b
	case b.kind == BoundsSharp &&
		(compare(b.max, other.min) < 0 || compare(other.max, b.min) < 0):
		// disjoint source collections, so no rows are removed
		return b
	default:
		return Bounds[T]{kind: BoundsBounded, min: b.min, max: b.max}
	}
}

// Surrounds returns true if the value is within these bounds.
//
// This doesn't necessarily mean the source collection contains the value, but
// a false result implies the source collection cannot contain it.
func (b Bounds[T]) Surrounds(value T) bool {
	if b.kind == BoundsEmpty {
		return false
	}
	return compare(b.min, value) <= 0 && compare(value, b.max) <= 0
}
