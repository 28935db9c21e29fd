package gadgets

import (
	"math"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// DivideAndModulo computes the truncated quotient and remainder witness
// columns. Division by zero yields quotient 0 and remainder lhs. The
// quotient is widened to 128 bits so MinInt64 / -1 does not wrap and the
// defining identity lhs = rhs*q + r holds exactly for every row.
func DivideAndModulo(lhs, rhs []int64) (quotient []scalar.Int128, remainder []int64) {
	quotient = make([]scalar.Int128, len(lhs))
	remainder = make([]int64, len(lhs))
	for i := range lhs {
		switch {
		case rhs[i] == 0:
			remainder[i] = lhs[i]
		case lhs[i] == math.MinInt64 && rhs[i] == -1:
			quotient[i] = scalar.Int128{Lo: 1 << 63} // 2^63
		default:
			quotient[i] = scalar.Int128FromInt64(lhs[i] / rhs[i])
			remainder[i] = lhs[i] % rhs[i]
		}
	}
	return quotient, remainder
}

// FinalRoundEvaluateDivideModulo proves the defining identity
// lhs = rhs * quotient + remainder over committed quotient and remainder
// witness columns.
//
// TODO: magnitude constraints on the remainder (|r| < |rhs|, matching
// signs) still need range-check claims before the quotient is unique.
func FinalRoundEvaluateDivideModulo(b *proof.FinalRoundBuilder, lhs, rhs, quotient, remainder []fr.Element) {
	b.ProduceIntermediateMLE(quotient)
	b.ProduceIntermediateMLE(remainder)

	// lhs - rhs * quotient - remainder = 0
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), lhs),
		proof.NewTerm(scalar.FromInt64(-1), rhs, quotient),
		proof.NewTerm(scalar.FromInt64(-1), remainder),
	})
}

// VerifyDivideModulo mirrors FinalRoundEvaluateDivideModulo and returns the
// quotient and remainder evaluations.
func VerifyDivideModulo(b *proof.VerificationBuilder, lhsEval, rhsEval fr.Element) (quotientEval, remainderEval fr.Element, err error) {
	if quotientEval, err = b.TryConsumeFinalRoundMLEEvaluation(); err != nil {
		return fr.Element{}, fr.Element{}, err
	}
	if remainderEval, err = b.TryConsumeFinalRoundMLEEvaluation(); err != nil {
		return fr.Element{}, fr.Element{}, err
	}

	// lhs - rhs * quotient - remainder = 0
	var eval, t fr.Element
	t.Mul(&rhsEval, &quotientEval)
	eval.Sub(&lhsEval, &t)
	eval.Sub(&eval, &remainderEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2); err != nil {
		return fr.Element{}, fr.Element{}, err
	}
	return quotientEval, remainderEval, nil
}
