package sumcheck

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifiabledb/sqlproofs/polynomial"
	"github.com/verifiabledb/sqlproofs/scalar"
	"github.com/verifiabledb/sqlproofs/transcript"
)

func elems(vs ...int64) []fr.Element {
	out := make([]fr.Element, len(vs))
	for i, v := range vs {
		out[i] = scalar.FromInt64(v)
	}
	return out
}

func testPoly() *polynomial.Composite {
	f := elems(1, 2, 3, 4)
	g := elems(5, 6, 7, 8)
	c := polynomial.NewComposite(2)
	c.AddProduct(scalar.FromInt64(1), f, g)
	c.AddProduct(scalar.FromInt64(-2), f)
	return c
}

// sum over the hypercube: 1*5+2*6+3*7+4*8 - 2*(1+2+3+4) = 70 - 20 = 50
func testPolySum() fr.Element { return scalar.FromInt64(50) }

func TestProveVerifyRoundTrip(t *testing.T) {
	poly := testPoly()
	proof, point := Prove(transcript.New(), NewProverState(poly))
	require.Len(t, point, 2)
	// round messages: degree 2 means 3 evaluations per round
	require.Len(t, proof.Coefficients, 6)

	subclaim, err := proof.VerifyWithoutEvaluation(transcript.New(), 2, testPolySum())
	require.NoError(t, err)
	assert.Equal(t, point, subclaim.EvaluationPoint)
	assert.Equal(t, poly.Evaluate(subclaim.EvaluationPoint), subclaim.ExpectedEvaluation)
}

func TestVerifyRejectsWrongSum(t *testing.T) {
	poly := testPoly()
	proof, _ := Prove(transcript.New(), NewProverState(poly))
	_, err := proof.VerifyWithoutEvaluation(transcript.New(), 2, scalar.FromInt64(51))
	assert.ErrorIs(t, err, ErrRoundSum)
}

func TestVerifyRejectsTamperedRound(t *testing.T) {
	poly := testPoly()
	proof, _ := Prove(transcript.New(), NewProverState(poly))
	var one fr.Element
	one.SetOne()
	proof.Coefficients[0].Add(&proof.Coefficients[0], &one)
	_, err := proof.VerifyWithoutEvaluation(transcript.New(), 2, testPolySum())
	assert.ErrorIs(t, err, ErrRoundSum)
}

func TestVerifyRejectsBadShape(t *testing.T) {
	poly := testPoly()
	proof, _ := Prove(transcript.New(), NewProverState(poly))

	_, err := proof.VerifyWithoutEvaluation(transcript.New(), 0, testPolySum())
	assert.ErrorIs(t, err, ErrProofShape)

	// coefficient count not divisible by the round count
	truncated := Proof{Coefficients: proof.Coefficients[:5]}
	_, err = truncated.VerifyWithoutEvaluation(transcript.New(), 2, testPolySum())
	assert.ErrorIs(t, err, ErrProofShape)

	empty := Proof{}
	_, err = empty.VerifyWithoutEvaluation(transcript.New(), 2, testPolySum())
	assert.ErrorIs(t, err, ErrProofShape)
}

func TestSingleVariable(t *testing.T) {
	f := elems(3, 9)
	c := polynomial.NewComposite(1)
	c.AddProduct(scalar.FromInt64(1), f, f)
	proof, _ := Prove(transcript.New(), NewProverState(c))

	// 9 + 81
	subclaim, err := proof.VerifyWithoutEvaluation(transcript.New(), 1, scalar.FromInt64(90))
	require.NoError(t, err)
	assert.Equal(t, c.Evaluate(subclaim.EvaluationPoint), subclaim.ExpectedEvaluation)
}

func TestProverStateCopiesTables(t *testing.T) {
	f := elems(1, 2)
	c := polynomial.NewComposite(1)
	c.AddProduct(scalar.FromInt64(1), f)
	Prove(transcript.New(), NewProverState(c))
	// folding must not clobber the caller's data
	assert.Equal(t, elems(1, 2), f)
}
