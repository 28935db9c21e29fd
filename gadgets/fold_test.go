package gadgets

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"

	"github.com/verifiabledb/sqlproofs/scalar"
)

func elems(vs ...int64) []fr.Element {
	out := make([]fr.Element, len(vs))
	for i, v := range vs {
		out[i] = scalar.FromInt64(v)
	}
	return out
}

func TestFoldVals(t *testing.T) {
	beta := scalar.FromInt64(10)

	// 3*100 + 4*10 + 5 = 345
	got := FoldVals(beta, scalar.FromInt64(3), scalar.FromInt64(4), scalar.FromInt64(5))
	assert.Equal(t, scalar.FromInt64(345), got)

	assert.Equal(t, scalar.FromInt64(7), FoldVals(beta, scalar.FromInt64(7)))
	empty := FoldVals(beta)
	assert.True(t, empty.IsZero())
}

func TestFoldColumns(t *testing.T) {
	beta := scalar.FromInt64(10)
	mult := scalar.FromInt64(2)
	acc := elems(1, 1, 1)

	FoldColumns(acc, mult, beta, [][]fr.Element{
		elems(1, 2, 3),
		elems(4, 5, 6),
	})

	// acc[i] = 1 + 2*(col0[i]*10 + col1[i])
	assert.Equal(t, elems(29, 51, 73), acc)
}

func TestFoldColumnsShortColumn(t *testing.T) {
	beta := scalar.FromInt64(10)
	acc := make([]fr.Element, 3)

	// second column runs out after one row; missing rows fold as zero
	FoldColumns(acc, scalar.FromInt64(1), beta, [][]fr.Element{
		elems(1, 2, 3),
		elems(7),
	})
	assert.Equal(t, elems(17, 20, 30), acc)
}
