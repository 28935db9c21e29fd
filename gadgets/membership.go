package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

var errMembershipShape = &proof.VerificationError{Reason: "source and candidate column counts differ"}

// Multiplicities returns, per source row, how many candidate rows equal it.
// Duplicate source rows split the count: only the first occurrence carries
// it, so the total over equal rows stays the candidate count.
func Multiplicities(source, candidate [][]fr.Element) []fr.Element {
	numRows := 0
	if len(source) > 0 {
		numRows = len(source[0])
	}
	candidateRows := 0
	if len(candidate) > 0 {
		candidateRows = len(candidate[0])
	}

	counts := make(map[string]uint64, candidateRows)
	for j := 0; j < candidateRows; j++ {
		counts[rowKey(candidate, j)]++
	}

	multiplicities := make([]fr.Element, numRows)
	seen := make(map[string]struct{}, numRows)
	for i := 0; i < numRows; i++ {
		key := rowKey(source, i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		multiplicities[i].SetUint64(counts[key])
	}
	return multiplicities
}

func rowKey(columns [][]fr.Element, row int) string {
	key := make([]byte, 0, len(columns)*fr.Bytes)
	for _, col := range columns {
		b := col[row].Bytes()
		key = append(key, b[:]...)
	}
	return string(key)
}

// FirstRoundEvaluateMembershipCheck commits the multiplicity column before
// any challenge is drawn and returns it for the final round.
func FirstRoundEvaluateMembershipCheck(b *proof.FirstRoundBuilder, source, candidate [][]fr.Element) []fr.Element {
	if len(source) != len(candidate) || len(source) == 0 {
		panic("membership check needs matching, non-empty column sets")
	}
	multiplicities := Multiplicities(source, candidate)
	b.ProduceIntermediateMLE(multiplicities)
	return multiplicities
}

// FinalRoundEvaluateMembershipCheck proves that every candidate row appears
// among the source rows, with the committed multiplicities balancing the
// log-derivative sums.
func FinalRoundEvaluateMembershipCheck(b *proof.FinalRoundBuilder, alpha, beta fr.Element, source, candidate [][]fr.Element, multiplicities []fr.Element) {
	if len(source) != len(candidate) || len(source) == 0 {
		panic("membership check needs matching, non-empty column sets")
	}
	numRows := len(source[0])
	candidateRows := len(candidate[0])

	cFold := make([]fr.Element, numRows)
	FoldColumns(cFold, alpha, beta, source)
	dFold := make([]fr.Element, candidateRows)
	FoldColumns(dFold, alpha, beta, candidate)

	cStar := scalar.BatchInvert(scalar.AddConst(cFold, scalar.FromInt64(1)))
	dStar := scalar.BatchInvert(scalar.AddConst(dFold, scalar.FromInt64(1)))

	b.ProduceIntermediateMLE(cStar)
	b.ProduceIntermediateMLE(dStar)

	// sum c_star * multiplicities - d_star = 0
	b.ProduceSumcheckSubpolynomial(proof.ZeroSum, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), cStar, multiplicities),
		proof.NewTerm(scalar.FromInt64(-1), dStar),
	})

	// c_star + c_fold * c_star - chi_n = 0
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), cStar),
		proof.NewTerm(scalar.FromInt64(1), cStar, cFold),
		proof.NewTerm(scalar.FromInt64(-1), onesColumn(numRows)),
	})

	// d_star + d_fold * d_star - chi_m = 0
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), dStar),
		proof.NewTerm(scalar.FromInt64(1), dStar, dFold),
		proof.NewTerm(scalar.FromInt64(-1), onesColumn(candidateRows)),
	})
}

// VerifyMembershipCheck mirrors the two membership rounds and returns the
// multiplicity column's evaluation. chiNEval and chiMEval are the indicator
// evaluations for the source and candidate lengths.
func VerifyMembershipCheck(b *proof.VerificationBuilder, alpha, beta fr.Element, chiNEval, chiMEval fr.Element, columnEvals, candidateEvals []fr.Element) (fr.Element, error) {
	if len(columnEvals) != len(candidateEvals) {
		return fr.Element{}, errMembershipShape
	}
	multiplicityEval, err := b.TryConsumeFirstRoundMLEEvaluation()
	if err != nil {
		return fr.Element{}, err
	}
	cFoldEval := FoldVals(beta, columnEvals...)
	cFoldEval.Mul(&alpha, &cFoldEval)
	dFoldEval := FoldVals(beta, candidateEvals...)
	dFoldEval.Mul(&alpha, &dFoldEval)

	cStarEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return fr.Element{}, err
	}
	dStarEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return fr.Element{}, err
	}

	// sum c_star * multiplicities - d_star = 0
	var eval fr.Element
	eval.Mul(&cStarEval, &multiplicityEval)
	eval.Sub(&eval, &dStarEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.ZeroSum, eval, 2); err != nil {
		return fr.Element{}, err
	}

	// c_star + c_fold * c_star - chi_n = 0
	eval.Mul(&cFoldEval, &cStarEval)
	eval.Add(&eval, &cStarEval)
	eval.Sub(&eval, &chiNEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2); err != nil {
		return fr.Element{}, err
	}

	// d_star + d_fold * d_star - chi_m = 0
	eval.Mul(&dFoldEval, &dStarEval)
	eval.Add(&eval, &dStarEval)
	eval.Sub(&eval, &chiMEval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2); err != nil {
		return fr.Element{}, err
	}

	return multiplicityEval, nil
}
