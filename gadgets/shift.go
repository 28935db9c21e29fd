package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// FirstRoundEvaluateShift declares the structural columns the downward
// shift argument needs: row indexes over n and n+1 rows.
func FirstRoundEvaluateShift(b *proof.FirstRoundBuilder, numRows int) {
	b.ProduceRhoEvaluationLength(numRows)
	b.ProduceRhoEvaluationLength(numRows + 1)
}

// FinalRoundEvaluateShift proves that shiftedColumn is column shifted down
// one row with a zero front-filled, via a log-derivative permutation
// argument over rows tagged with their index. shiftedColumn must be one
// entry longer than column.
func FinalRoundEvaluateShift(b *proof.FinalRoundBuilder, alpha, beta fr.Element, column, shiftedColumn []fr.Element) {
	numRows := len(column)
	if len(shiftedColumn) != numRows+1 {
		panic("shifted column must be one row longer than the column")
	}

	rhoPlusChi := make([]fr.Element, numRows)
	for i := range rhoPlusChi {
		rhoPlusChi[i].SetUint64(uint64(i + 1))
	}
	rho := rhoColumn(numRows + 1)
	chi := onesColumn(numRows + 1)

	cFold := make([]fr.Element, numRows)
	FoldColumns(cFold, alpha, beta, [][]fr.Element{rhoPlusChi, column})
	cFoldExtended := make([]fr.Element, numRows+1)
	copy(cFoldExtended, cFold)
	cStar := scalar.BatchInvert(scalar.AddConst(cFoldExtended, scalar.FromInt64(1)))

	dFold := make([]fr.Element, numRows+1)
	FoldColumns(dFold, alpha, beta, [][]fr.Element{rho, shiftedColumn})
	dStar := scalar.BatchInvert(scalar.AddConst(dFold, scalar.FromInt64(1)))

	b.ProduceIntermediateMLE(cStar)
	b.ProduceIntermediateMLE(dStar)

	// sum c_star - d_star = 0
	b.ProduceSumcheckSubpolynomial(proof.ZeroSum, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), cStar),
		proof.NewTerm(scalar.FromInt64(-1), dStar),
	})

	// c_star + c_fold * c_star - chi_{n+1} = 0
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), cStar),
		proof.NewTerm(scalar.FromInt64(1), cFoldExtended, cStar),
		proof.NewTerm(scalar.FromInt64(-1), chi),
	})

	// d_star + d_fold * d_star - chi_{n+1} = 0
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), dStar),
		proof.NewTerm(scalar.FromInt64(1), dFold, dStar),
		proof.NewTerm(scalar.FromInt64(-1), chi),
	})
}

// VerifyShift mirrors FinalRoundEvaluateShift, popping the two row-index
// evaluations the first round declared.
func VerifyShift(b *proof.VerificationBuilder, alpha, beta fr.Element, columnEval, shiftedColumnEval, chiEval, shiftedChiEval fr.Element) error {
	rhoEval, _, err := b.TryConsumeRhoEvaluation()
	if err != nil {
		return err
	}
	rhoPlusOneEval, _, err := b.TryConsumeRhoEvaluation()
	if err != nil {
		return err
	}

	var rhoPlusChiEval fr.Element
	rhoPlusChiEval.Add(&rhoEval, &chiEval)
	cFoldEval := FoldVals(beta, rhoPlusChiEval, columnEval)
	cFoldEval.Mul(&alpha, &cFoldEval)
	dFoldEval := FoldVals(beta, rhoPlusOneEval, shiftedColumnEval)
	dFoldEval.Mul(&alpha, &dFoldEval)

	cStarEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return err
	}
	dStarEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return err
	}

	// sum c_star - d_star = 0
	var eval fr.Element
	eval.Sub(&cStarEval, &dStarEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.ZeroSum, eval, 1); err != nil {
		return err
	}

	// c_star + c_fold * c_star - chi_{n+1} = 0
	eval.Mul(&cFoldEval, &cStarEval)
	eval.Add(&eval, &cStarEval)
	eval.Sub(&eval, &shiftedChiEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2); err != nil {
		return err
	}

	// d_star + d_fold * d_star - chi_{n+1} = 0
	eval.Mul(&dFoldEval, &dStarEval)
	eval.Add(&eval, &dStarEval)
	eval.Sub(&eval, &shiftedChiEval)
	return b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2)
}
