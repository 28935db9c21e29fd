package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// FinalRoundEvaluateIsZero proves the zero test of a column: the returned
// selection column is 1 exactly where lhs is zero. The pseudo-inverse
// witness makes both directions of the equivalence a degree-2 identity.
func FinalRoundEvaluateIsZero(b *proof.FinalRoundBuilder, lhs []fr.Element) []fr.Element {
	n := len(lhs)

	pseudoInv := scalar.BatchInvert(append([]fr.Element(nil), lhs...))
	b.ProduceIntermediateMLE(pseudoInv)

	selectionNot := make([]fr.Element, n)
	selection := make([]fr.Element, n)
	for i := range lhs {
		if lhs[i].IsZero() {
			selection[i].SetOne()
		} else {
			selectionNot[i].SetOne()
		}
	}
	b.ProduceIntermediateMLE(selectionNot)

	// selection * lhs = 0
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), lhs, selection),
	})

	// selection_not - lhs * lhs_pseudo_inv = 0
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), selectionNot),
		proof.NewTerm(scalar.FromInt64(-1), lhs, pseudoInv),
	})

	return selection
}

// VerifyIsZero mirrors FinalRoundEvaluateIsZero and returns the selection
// column's evaluation. chiEval is the indicator evaluation for the column's
// length.
func VerifyIsZero(b *proof.VerificationBuilder, lhsEval, chiEval fr.Element) (fr.Element, error) {
	pseudoInvEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return fr.Element{}, err
	}
	selectionNotEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return fr.Element{}, err
	}
	var selectionEval fr.Element
	selectionEval.Sub(&chiEval, &selectionNotEval)

	// selection * lhs = 0
	var eval fr.Element
	eval.Mul(&selectionEval, &lhsEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2); err != nil {
		return fr.Element{}, err
	}

	// selection_not - lhs * lhs_pseudo_inv = 0
	eval.Mul(&lhsEval, &pseudoInvEval)
	eval.Sub(&selectionNotEval, &eval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2); err != nil {
		return fr.Element{}, err
	}

	return selectionEval, nil
}
