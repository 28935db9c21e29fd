package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/bit"
	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

var errSignDecomposition = &proof.VerificationError{Reason: "invalid sign bit decomposition"}

// FinalRoundEvaluateSign proves the sign decomposition of a column of
// scalars and returns the sign column: true where the entry is negative
// under the balanced representative. Only non-zero scalars within the
// accepted magnitude range have a unique sign; the verifier enforces the
// range through the bit distribution.
func FinalRoundEvaluateSign(b *proof.FinalRoundBuilder, expr []fr.Element) []bool {
	dist := bit.NewDistribution(expr)
	b.ProduceBitDistribution(dist)

	signs := make([]bool, len(expr))
	for i := range expr {
		signs[i] = scalar.IsNegative(&expr[i])
	}
	if dist.NumVaryingBits() == 0 {
		return signs
	}

	bits := varyingBitMatrix(expr, &dist)
	proveBitsAreBinary(b, bits)
	if !dist.HasVaryingSignBit() {
		return signs
	}

	if dist.NumVaryingBits() > 1 {
		proveBitDecomposition(b, expr, bits, &dist)
	}
	return signs
}

// VerifierEvaluateSign mirrors FinalRoundEvaluateSign. exprEval is the
// column's claimed evaluation and chiEval the indicator evaluation for its
// length; the returned value is the sign column's evaluation.
func VerifierEvaluateSign(b *proof.VerificationBuilder, exprEval, chiEval fr.Element) (fr.Element, error) {
	dist, err := b.TryConsumeBitDistribution()
	if err != nil {
		return fr.Element{}, err
	}
	if !dist.IsWithinAcceptableRange() {
		return fr.Element{}, &proof.VerificationError{Reason: "bit distribution outside of acceptable range"}
	}
	numVaryingBits := dist.NumVaryingBits()

	bitEvals := make([]fr.Element, numVaryingBits)
	for i := range bitEvals {
		if bitEvals[i], err = b.TryConsumeFinalRoundMLEEvaluation(); err != nil {
			return fr.Element{}, err
		}
	}

	if err := verifyBitsAreBinary(b, bitEvals); err != nil {
		return fr.Element{}, err
	}

	if !dist.HasVaryingSignBit() {
		if err := verifyConstantSignDecomposition(&dist, exprEval, chiEval, bitEvals); err != nil {
			return fr.Element{}, err
		}
		if dist.SignBit() {
			return chiEval, nil
		}
		return fr.Element{}, nil
	}

	// the sign column is always the last varying bit
	signEval := bitEvals[numVaryingBits-1]
	if numVaryingBits == 1 {
		if err := verifyConstantAbsDecomposition(&dist, exprEval, chiEval, signEval); err != nil {
			return fr.Element{}, err
		}
		return signEval, nil
	}
	if err := verifyBitDecomposition(b, exprEval, chiEval, bitEvals, &dist); err != nil {
		return fr.Element{}, err
	}
	return signEval, nil
}

// varyingBitMatrix extracts one 0/1 column per varying bit, in mask order
// with the sign bit last.
func varyingBitMatrix(expr []fr.Element, dist *bit.Distribution) [][]fr.Element {
	var positions [][2]int
	dist.ForEachVaryingBit(func(word, pos int) {
		positions = append(positions, [2]int{word, pos})
	})
	matrix := make([][]fr.Element, len(positions))
	for j := range matrix {
		matrix[j] = make([]fr.Element, len(expr))
	}
	for i := range expr {
		mask := scalar.MakeAbsBitMask(expr[i])
		for j, p := range positions {
			if mask[p[0]]>>uint(p[1])&1 == 1 {
				matrix[j][i].SetOne()
			}
		}
	}
	return matrix
}

func proveBitsAreBinary(b *proof.FinalRoundBuilder, bits [][]fr.Element) {
	for _, seq := range bits {
		b.ProduceIntermediateMLE(seq)
		b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
			proof.NewTerm(scalar.FromInt64(1), seq),
			proof.NewTerm(scalar.FromInt64(-1), seq, seq),
		})
	}
}

func verifyBitsAreBinary(b *proof.VerificationBuilder, bitEvals []fr.Element) error {
	var eval fr.Element
	for i := range bitEvals {
		eval.Mul(&bitEvals[i], &bitEvals[i])
		eval.Sub(&bitEvals[i], &eval)
		if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2); err != nil {
			return err
		}
	}
	return nil
}

// proveBitDecomposition binds the column to its bits when both the sign and
// the magnitude vary: expr = sign_mle * (constant_part + sum 2^i bit_i)
// with sign_mle = 1 - 2*sign.
func proveBitDecomposition(b *proof.FinalRoundBuilder, expr []fr.Element, bits [][]fr.Element, dist *bit.Distribution) {
	signBits := bits[len(bits)-1]
	signMLE := make([]fr.Element, len(signBits))
	var two fr.Element
	two.SetUint64(2)
	var t fr.Element
	for i := range signBits {
		t.Mul(&two, &signBits[i])
		signMLE[i].SetOne()
		signMLE[i].Sub(&signMLE[i], &t)
	}

	terms := []proof.Term{proof.NewTerm(scalar.FromInt64(1), expr)}
	constPart := dist.ConstantPart()
	if constPart != [4]uint64{} {
		constScalar := scalar.FromAbsBitMask(constPart)
		var coeff fr.Element
		coeff.Neg(&constScalar)
		terms = append(terms, proof.NewTerm(coeff, signMLE))
	}
	varyIndex := 0
	dist.ForEachAbsVaryingBit(func(word, pos int) {
		var mask [4]uint64
		mask[word] = 1 << uint(pos)
		weight := scalar.FromAbsBitMask(mask)
		var coeff fr.Element
		coeff.Neg(&weight)
		terms = append(terms, proof.NewTerm(coeff, signMLE, bits[varyIndex]))
		varyIndex++
	})
	b.ProduceSumcheckSubpolynomial(proof.Identity, terms)
}

func verifyBitDecomposition(b *proof.VerificationBuilder, exprEval, chiEval fr.Element, bitEvals []fr.Element, dist *bit.Distribution) error {
	signEval := bitEvals[len(bitEvals)-1]
	var two, signFactor fr.Element
	two.SetUint64(2)
	signFactor.Mul(&two, &signEval)
	signFactor.Sub(&chiEval, &signFactor)

	eval := exprEval
	var t fr.Element
	constPartScalar := scalar.FromAbsBitMask(dist.ConstantPart())
	t.Mul(&signFactor, &constPartScalar)
	eval.Sub(&eval, &t)

	varyIndex := 0
	dist.ForEachAbsVaryingBit(func(word, pos int) {
		var mask [4]uint64
		mask[word] = 1 << uint(pos)
		weight := scalar.FromAbsBitMask(mask)
		t.Mul(&signFactor, &bitEvals[varyIndex])
		t.Mul(&t, &weight)
		eval.Sub(&eval, &t)
		varyIndex++
	})
	return b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2)
}

// verifyConstantSignDecomposition checks, at the evaluation point, a column
// whose sign bit never varies: expr = +-(constant_part + sum 2^i bit_i).
func verifyConstantSignDecomposition(dist *bit.Distribution, exprEval, chiEval fr.Element, bitEvals []fr.Element) error {
	rhs := fr.Element{}
	constPartScalar := scalar.FromAbsBitMask(dist.ConstantPart())
	rhs.Mul(&constPartScalar, &chiEval)

	varyIndex := 0
	var t fr.Element
	dist.ForEachAbsVaryingBit(func(word, pos int) {
		var mask [4]uint64
		mask[word] = 1 << uint(pos)
		weight := scalar.FromAbsBitMask(mask)
		t.Mul(&weight, &bitEvals[varyIndex])
		rhs.Add(&rhs, &t)
		varyIndex++
	})
	if dist.SignBit() {
		rhs.Neg(&rhs)
	}
	if !exprEval.Equal(&rhs) {
		return errSignDecomposition
	}
	return nil
}

// verifyConstantAbsDecomposition checks, at the evaluation point, a column
// whose magnitude is constant and only the sign varies:
// expr = constant_part * (1 - 2*sign).
func verifyConstantAbsDecomposition(dist *bit.Distribution, exprEval, chiEval, signEval fr.Element) error {
	var two, factor, rhs fr.Element
	two.SetUint64(2)
	factor.Mul(&two, &signEval)
	factor.Sub(&chiEval, &factor)
	constPartScalar := scalar.FromAbsBitMask(dist.ConstantPart())
	rhs.Mul(&constPartScalar, &factor)
	if !exprEval.Equal(&rhs) {
		return errSignDecomposition
	}
	return nil
}
