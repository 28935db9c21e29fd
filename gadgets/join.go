package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/proof"
)

// The sort-merge join gadget proves a joined key column correct in three
// claims: the output keys appear among the left keys, they appear among the
// right keys, and they are sorted. The two multiplicity columns tie the
// output row counts to the inputs.

// FirstRoundEvaluateSortMergeJoin commits the output key column and the
// membership multiplicities of the output keys against both inputs, and
// declares the monotonicity structure. It returns the left and right
// multiplicity columns.
func FirstRoundEvaluateSortMergeJoin(b *proof.FirstRoundBuilder, leftKeys, rightKeys, outputKeys []fr.Element) (leftMultiplicities, rightMultiplicities []fr.Element) {
	b.RequestPostResultChallenges(2)
	b.ProduceIntermediateMLE(outputKeys)
	b.ProduceChiEvaluationLength(len(outputKeys))
	output := [][]fr.Element{outputKeys}
	leftMultiplicities = FirstRoundEvaluateMembershipCheck(b, [][]fr.Element{leftKeys}, output)
	rightMultiplicities = FirstRoundEvaluateMembershipCheck(b, [][]fr.Element{rightKeys}, output)
	FirstRoundEvaluateMonotonic(b, len(outputKeys))
	return leftMultiplicities, rightMultiplicities
}

// FinalRoundEvaluateSortMergeJoin proves the three join claims over the
// committed multiplicities.
func FinalRoundEvaluateSortMergeJoin(b *proof.FinalRoundBuilder, leftKeys, rightKeys, outputKeys, leftMultiplicities, rightMultiplicities []fr.Element) {
	alpha := b.ConsumePostResultChallenge()
	beta := b.ConsumePostResultChallenge()
	output := [][]fr.Element{outputKeys}
	FinalRoundEvaluateMembershipCheck(b, alpha, beta, [][]fr.Element{leftKeys}, output, leftMultiplicities)
	FinalRoundEvaluateMembershipCheck(b, alpha, beta, [][]fr.Element{rightKeys}, output, rightMultiplicities)
	FinalRoundEvaluateMonotonic(b, alpha, beta, outputKeys, false, true)
}

// VerifySortMergeJoin mirrors the join rounds. The output key column and its
// length come out of the proof itself, so the verifier needs only the two
// input key evaluations and their table indicators. It returns the output
// key evaluation for the result check.
func VerifySortMergeJoin(b *proof.VerificationBuilder, leftKeyEval, rightKeyEval, chiLeftEval, chiRightEval fr.Element) (outputKeyEval fr.Element, err error) {
	alpha, err := b.TryConsumePostResultChallenge()
	if err != nil {
		return fr.Element{}, err
	}
	beta, err := b.TryConsumePostResultChallenge()
	if err != nil {
		return fr.Element{}, err
	}
	if outputKeyEval, err = b.TryConsumeFirstRoundMLEEvaluation(); err != nil {
		return fr.Element{}, err
	}
	chiOutputEval, _, err := b.TryConsumeChiEvaluation()
	if err != nil {
		return fr.Element{}, err
	}
	if _, err := VerifyMembershipCheck(b, alpha, beta, chiLeftEval, chiOutputEval,
		[]fr.Element{leftKeyEval}, []fr.Element{outputKeyEval}); err != nil {
		return fr.Element{}, err
	}
	if _, err := VerifyMembershipCheck(b, alpha, beta, chiRightEval, chiOutputEval,
		[]fr.Element{rightKeyEval}, []fr.Element{outputKeyEval}); err != nil {
		return fr.Element{}, err
	}
	if err := VerifyMonotonic(b, alpha, beta, outputKeyEval, chiOutputEval, false, true); err != nil {
		return fr.Element{}, err
	}
	return outputKeyEval, nil
}
