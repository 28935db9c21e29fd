package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/proof"
)

var errNotMonotonic = &proof.VerificationError{Reason: "monotonicity check failed"}

// FirstRoundEvaluateMonotonic declares the structural columns the
// monotonicity argument needs for a column of numRows rows.
func FirstRoundEvaluateMonotonic(b *proof.FirstRoundBuilder, numRows int) {
	b.ProduceChiEvaluationLength(numRows + 1)
	FirstRoundEvaluateShift(b, numRows)
}

// FinalRoundEvaluateMonotonic proves that column is sorted: strictly or
// non-strictly, ascending or descending. It shifts the column down one row
// and proves the sign of the consecutive differences.
func FinalRoundEvaluateMonotonic(b *proof.FinalRoundBuilder, alpha, beta fr.Element, column []fr.Element, strict, ascending bool) {
	numRows := len(column)
	shifted := make([]fr.Element, numRows+1)
	copy(shifted[1:], column)
	b.ProduceIntermediateMLE(shifted)

	FinalRoundEvaluateShift(b, alpha, beta, column, shifted)

	// consecutive differences, wrapped so the head and tail rows carry the
	// boundary values
	diff := make([]fr.Element, numRows+1)
	if numRows >= 1 {
		for i := 0; i < numRows; i++ {
			diff[i].Sub(&column[i], &shifted[i])
		}
		diff[numRows].Neg(&column[numRows-1])
	}

	// sign distinguishes negative from non-negative, so flip the
	// difference for the orders where the body must be negative
	ind := diff
	if strict == ascending {
		ind = make([]fr.Element, numRows+1)
		for i := range diff {
			ind[i].Neg(&diff[i])
		}
	}

	FinalRoundEvaluateSign(b, ind)
}

// VerifyMonotonic mirrors FinalRoundEvaluateMonotonic. chiEval is the
// indicator evaluation for the column's length.
func VerifyMonotonic(b *proof.VerificationBuilder, alpha, beta fr.Element, columnEval, chiEval fr.Element, strict, ascending bool) error {
	shiftedColumnEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return err
	}
	shiftedChiEval, _, err := b.TryConsumeChiEvaluation()
	if err != nil {
		return err
	}
	if err := VerifyShift(b, alpha, beta, columnEval, shiftedColumnEval, chiEval, shiftedChiEval); err != nil {
		return err
	}

	var indEval fr.Element
	if strict == ascending {
		indEval.Sub(&shiftedColumnEval, &columnEval)
	} else {
		indEval.Sub(&columnEval, &shiftedColumnEval)
	}
	signEval, err := VerifierEvaluateSign(b, indEval, shiftedChiEval)
	if err != nil {
		return err
	}

	// The body rows pin the sign; only the first and last row of the
	// extended column are free, so the sign evaluation can only take a
	// handful of values.
	singletonChiEval := b.SingletonChiEvaluation()
	var allowed []fr.Element
	if strict {
		var a, c fr.Element
		a.Sub(&shiftedChiEval, &singletonChiEval)
		c.Sub(&chiEval, &singletonChiEval)
		allowed = []fr.Element{chiEval, a, c}
	} else {
		var a, c fr.Element
		a.Sub(&shiftedChiEval, &chiEval)
		c.Add(&singletonChiEval, &a)
		allowed = []fr.Element{singletonChiEval, a, c, {}}
	}
	for i := range allowed {
		if signEval.Equal(&allowed[i]) {
			return nil
		}
	}
	return errNotMonotonic
}
