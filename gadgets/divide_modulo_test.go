package gadgets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verifiabledb/sqlproofs/scalar"
)

func TestDivideAndModulo(t *testing.T) {
	lhs := []int64{7, -7, 7, -7, 5, 0}
	rhs := []int64{2, 2, -2, -2, 5, 3}

	q, r := DivideAndModulo(lhs, rhs)

	// truncated division: quotient rounds toward zero, remainder keeps the
	// sign of the dividend
	assert.Equal(t, []scalar.Int128{
		scalar.Int128FromInt64(3),
		scalar.Int128FromInt64(-3),
		scalar.Int128FromInt64(-3),
		scalar.Int128FromInt64(3),
		scalar.Int128FromInt64(1),
		scalar.Int128FromInt64(0),
	}, q)
	assert.Equal(t, []int64{1, -1, 1, -1, 0, 0}, r)
}

func TestDivideAndModuloByZero(t *testing.T) {
	q, r := DivideAndModulo([]int64{9, -4, 0}, []int64{0, 0, 0})
	assert.Equal(t, []scalar.Int128{{}, {}, {}}, q)
	assert.Equal(t, []int64{9, -4, 0}, r)
}

func TestDivideAndModuloOverflow(t *testing.T) {
	q, r := DivideAndModulo([]int64{math.MinInt64}, []int64{-1})
	// the exact quotient 2^63 does not fit in int64
	assert.Equal(t, []scalar.Int128{{Lo: 1 << 63}}, q)
	assert.Equal(t, []int64{0}, r)

	// identity lhs = rhs*q + r holds in the field
	var prod = scalar.FromInt128(q[0])
	rhsScalar := scalar.FromInt64(-1)
	prod.Mul(&prod, &rhsScalar)
	assert.Equal(t, scalar.FromInt64(math.MinInt64), prod)
}
