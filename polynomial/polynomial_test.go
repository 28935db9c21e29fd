package polynomial

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifiabledb/sqlproofs/scalar"
)

func TestComputeEvaluationVectorBasis(t *testing.T) {
	a := scalar.FromInt64(2)
	b := scalar.FromInt64(3)
	v := make([]fr.Element, 4)
	ComputeEvaluationVector(v, []fr.Element{a, b})

	var one, notA, notB, want fr.Element
	one.SetOne()
	notA.Sub(&one, &a)
	notB.Sub(&one, &b)

	want.Mul(&notA, &notB)
	assert.Equal(t, want, v[0])
	want.Mul(&a, &notB)
	assert.Equal(t, want, v[1])
	want.Mul(&notA, &b)
	assert.Equal(t, want, v[2])
	want.Mul(&a, &b)
	assert.Equal(t, want, v[3])

	// basis sums to one for any point
	assert.Equal(t, scalar.FromInt64(1), scalar.Sum(v))
}

func TestComputeEvaluationVectorTruncated(t *testing.T) {
	point := []fr.Element{scalar.FromInt64(5), scalar.FromInt64(-2), scalar.FromInt64(9)}
	full := make([]fr.Element, 8)
	ComputeEvaluationVector(full, point)
	short := make([]fr.Element, 5)
	ComputeEvaluationVector(short, point)
	assert.Equal(t, full[:5], short)
}

func TestComputeEvaluationVectorAtCorner(t *testing.T) {
	// point (1, 0, 1) selects hypercube index 0b101 = 5
	point := []fr.Element{scalar.FromInt64(1), scalar.FromInt64(0), scalar.FromInt64(1)}
	v := make([]fr.Element, 8)
	ComputeEvaluationVector(v, point)
	for i := range v {
		if i == 5 {
			assert.Equal(t, scalar.FromInt64(1), v[i])
		} else {
			assert.True(t, v[i].IsZero(), "index %d", i)
		}
	}
}

func TestToSumcheckTerm(t *testing.T) {
	data := []fr.Element{scalar.FromInt64(1), scalar.FromInt64(2), scalar.FromInt64(3)}
	padded := ToSumcheckTerm(2, data)
	require.Len(t, padded, 4)
	assert.Equal(t, data, padded[:3])
	assert.True(t, padded[3].IsZero())

	assert.Panics(t, func() { ToSumcheckTerm(1, data) })
}

func TestInterpolateEvaluationsAt(t *testing.T) {
	// f(x) = x^2 + 1 sampled on 0..3
	values := []fr.Element{
		scalar.FromInt64(1), scalar.FromInt64(2), scalar.FromInt64(5), scalar.FromInt64(10),
	}
	assert.Equal(t, scalar.FromInt64(26), InterpolateEvaluationsAt(scalar.FromInt64(5), values))
	assert.Equal(t, scalar.FromInt64(10), InterpolateEvaluationsAt(scalar.FromInt64(-3), values))
	// landing on a node returns the sample
	assert.Equal(t, scalar.FromInt64(5), InterpolateEvaluationsAt(scalar.FromInt64(2), values))
	// degree-0
	assert.Equal(t, scalar.FromInt64(7),
		InterpolateEvaluationsAt(scalar.FromInt64(42), []fr.Element{scalar.FromInt64(7)}))
}

func TestCompositeEvaluateAtCorner(t *testing.T) {
	f := []fr.Element{scalar.FromInt64(1), scalar.FromInt64(2), scalar.FromInt64(3), scalar.FromInt64(4)}
	g := []fr.Element{scalar.FromInt64(5), scalar.FromInt64(6), scalar.FromInt64(7), scalar.FromInt64(8)}

	c := NewComposite(2)
	c.AddProduct(scalar.FromInt64(1), f, g)
	assert.Equal(t, 2, c.MaxMultiplicands)

	// corner (0, 1) is index 2: f[2]*g[2] = 21
	point := []fr.Element{scalar.FromInt64(0), scalar.FromInt64(1)}
	assert.Equal(t, scalar.FromInt64(21), c.Evaluate(point))
}

func TestCompositeDeduplicatesSharedMLEs(t *testing.T) {
	f := []fr.Element{scalar.FromInt64(2), scalar.FromInt64(3)}
	c := NewComposite(1)
	c.AddProduct(scalar.FromInt64(1), f)
	c.AddProduct(scalar.FromInt64(-1), f, f)
	assert.Len(t, c.FlattenedMLEs, 1)
	assert.Len(t, c.Products, 2)

	// f - f^2 at corner 1: 3 - 9 = -6
	assert.Equal(t, scalar.FromInt64(-6), c.Evaluate([]fr.Element{scalar.FromInt64(1)}))
}

func TestMulAdd(t *testing.T) {
	res := []fr.Element{scalar.FromInt64(1), scalar.FromInt64(0)}
	MulAdd(res, scalar.FromInt64(2), []fr.Element{scalar.FromInt64(10), scalar.FromInt64(-1)})
	assert.Equal(t, scalar.FromInt64(21), res[0])
	assert.Equal(t, scalar.FromInt64(-2), res[1])
}
