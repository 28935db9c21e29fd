package gadgets

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// numWords is the base-256 word count of the shifted 256-bit value.
const numWords = 32

var (
	errOutOfRange = &proof.VerificationError{Reason: "column contains values outside of the selected range"}
	// twoPow255 is the offset added to every value before decomposition.
	twoPow255 fr.Element
)

func init() {
	twoPow255.SetBigInt(new(big.Int).Lsh(big.NewInt(1), 255))
}

// wordColumns decomposes column into 32 base-256 word columns of
// value + 2^255, word 0 least significant.
func wordColumns(column []fr.Element) [][]fr.Element {
	words := make([][]fr.Element, numWords)
	for j := range words {
		words[j] = make([]fr.Element, len(column))
	}
	for i := range column {
		mask := scalar.MakeOffsetBitMask(column[i])
		for j := 0; j < numWords; j++ {
			words[j][i].SetUint64(mask[j/8] >> uint(8*(j%8)) & 0xff)
		}
	}
	return words
}

// FirstRoundEvaluateRangeCheck commits the word decomposition of the column
// before any challenge is drawn. The lookup table of all 256 word values
// forces the committed range to cover at least 256 rows.
func FirstRoundEvaluateRangeCheck(b *proof.FirstRoundBuilder, column []fr.Element) {
	b.UpdateRangeLength(256)
	b.ProduceChiEvaluationLength(256)
	b.ProduceRhoEvaluationLength(256)
	b.RequestPostResultChallenges(1)
	for _, words := range wordColumns(column) {
		b.ProduceIntermediateMLE(words)
	}
}

// FinalRoundEvaluateRangeCheck proves that every word of the decomposition
// is a byte, using a log-derivative lookup against the 0..255 word table.
func FinalRoundEvaluateRangeCheck(b *proof.FinalRoundBuilder, column []fr.Element) {
	numRows := len(column)
	alpha := b.ConsumePostResultChallenge()
	chiN := onesColumn(numRows)
	chi256 := onesColumn(256)
	rho256 := rhoColumn(256)

	words := wordColumns(column)
	inverseColumns := make([][]fr.Element, numWords)
	for j, wordColumn := range words {
		inverse := scalar.BatchInvert(scalar.AddConst(wordColumn, alpha))
		inverseColumns[j] = inverse
		b.ProduceIntermediateMLE(inverse)
		// (word_j + alpha) * (word_j + alpha)^-1 - 1 = 0
		b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
			proof.NewTerm(alpha, inverse),
			proof.NewTerm(scalar.FromInt64(1), wordColumn, inverse),
			proof.NewTerm(scalar.FromInt64(-1), chiN),
		})
	}

	rhoInverse := scalar.BatchInvert(scalar.AddConst(rho256, alpha))
	b.ProduceIntermediateMLE(rhoInverse)
	// (rho + alpha) * (rho + alpha)^-1 - 1 = 0
	b.ProduceSumcheckSubpolynomial(proof.Identity, []proof.Term{
		proof.NewTerm(alpha, rhoInverse),
		proof.NewTerm(scalar.FromInt64(1), rho256, rhoInverse),
		proof.NewTerm(scalar.FromInt64(-1), chi256),
	})

	// how often each byte value occurs across the whole word matrix
	counts := make([]fr.Element, 256)
	var one fr.Element
	one.SetOne()
	for i := range column {
		mask := scalar.MakeOffsetBitMask(column[i])
		for j := 0; j < numWords; j++ {
			w := mask[j/8] >> uint(8*(j%8)) & 0xff
			counts[w].Add(&counts[w], &one)
		}
	}
	b.ProduceIntermediateMLE(counts)

	// per-row sum of the inverse words
	inverseRowSum := make([]fr.Element, numRows)
	for _, inverse := range inverseColumns {
		for i := range inverseRowSum {
			inverseRowSum[i].Add(&inverseRowSum[i], &inverse[i])
		}
	}

	// sum (rho + alpha)^-1 * count - sum sum (word + alpha)^-1 = 0
	b.ProduceSumcheckSubpolynomial(proof.ZeroSum, []proof.Term{
		proof.NewTerm(scalar.FromInt64(1), rhoInverse, counts),
		proof.NewTerm(scalar.FromInt64(-1), inverseRowSum),
	})
}

// VerifierEvaluateRangeCheck mirrors the two range-check rounds and checks
// that the words recompose to the claimed column evaluation.
func VerifierEvaluateRangeCheck(b *proof.VerificationBuilder, inputEval, chiNEval fr.Element) error {
	alpha, err := b.TryConsumePostResultChallenge()
	if err != nil {
		return err
	}
	chi256Eval, _, err := b.TryConsumeChiEvaluation()
	if err != nil {
		return err
	}
	rho256Eval, _, err := b.TryConsumeRhoEvaluation()
	if err != nil {
		return err
	}

	wordEvals := make([]fr.Element, numWords)
	for j := range wordEvals {
		if wordEvals[j], err = b.TryConsumeFirstRoundMLEEvaluation(); err != nil {
			return err
		}
	}

	var eval, t fr.Element
	inverseSum := fr.Element{}
	for j := range wordEvals {
		inverseEval, err := b.TryConsumeFinalRoundMLEEvaluation()
		if err != nil {
			return err
		}
		inverseSum.Add(&inverseSum, &inverseEval)
		// (word_j + alpha) * (word_j + alpha)^-1 - 1 = 0
		eval.Add(&wordEvals[j], &alpha)
		eval.Mul(&eval, &inverseEval)
		eval.Sub(&eval, &chiNEval)
		if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2); err != nil {
			return err
		}
	}

	rhoInverseEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return err
	}
	// (rho + alpha) * (rho + alpha)^-1 - 1 = 0
	eval.Add(&rho256Eval, &alpha)
	eval.Mul(&eval, &rhoInverseEval)
	eval.Sub(&eval, &chi256Eval)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.Identity, eval, 2); err != nil {
		return err
	}

	countEval, err := b.TryConsumeFinalRoundMLEEvaluation()
	if err != nil {
		return err
	}
	// sum (rho + alpha)^-1 * count - sum sum (word + alpha)^-1 = 0
	eval.Mul(&countEval, &rhoInverseEval)
	eval.Sub(&eval, &inverseSum)
	if err := b.TryProduceSumcheckSubpolynomialEvaluation(proof.ZeroSum, eval, 2); err != nil {
		return err
	}

	// words recompose to value + 2^255
	var sum fr.Element
	weight := fr.Element{}
	weight.SetOne()
	var base fr.Element
	base.SetUint64(256)
	for j := range wordEvals {
		t.Mul(&wordEvals[j], &weight)
		sum.Add(&sum, &t)
		weight.Mul(&weight, &base)
	}
	t.Mul(&twoPow255, &chiNEval)
	sum.Sub(&sum, &t)
	if !sum.Equal(&inputEval) {
		return errOutOfRange
	}
	return nil
}
