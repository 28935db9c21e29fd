package proof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/bit"
)

// MLESource records where the commitment of a consumed column evaluation
// lives: with the verifier (anchored) or inside the proof (intermediate).
type MLESource uint8

const (
	// SourceAnchored marks a column whose commitment the verifier holds.
	SourceAnchored MLESource = iota
	// SourceIntermediate marks a column committed inside the proof.
	SourceIntermediate
)

// VerificationBuilder is the verifier-side mirror of the two prover
// builders. Every Try* call advances a cursor over prover-supplied values;
// consuming past the end, or leaving anything unconsumed, is a
// SizeMismatchError - the proof and the plan disagree about shape.
type VerificationBuilder struct {
	evals                    *SumcheckMleEvaluations
	bitDistributions         []bit.Distribution
	subpolynomialMultipliers []fr.Element
	innerProductMultipliers  []fr.Element
	postResultChallenges     []fr.Element

	sumcheckEvaluation       fr.Element
	foldedPCSProofEvaluation fr.Element

	// chi/rho lengths declared in the proof, consumed in declaration order
	declaredChiLengths []int
	declaredRhoLengths []int

	numFirstRoundMLEs  int
	consumedFirstRound int
	consumedFinal      int
	consumedBitDists   int
	consumedChi        int
	consumedRho        int
	producedSubpolys   int
	maxMultiplicands   int

	finalSources []MLESource
}

// NewVerificationBuilder wires the verifier state together. The challenge
// stack is consumed back to front, matching the prover.
func NewVerificationBuilder(
	evals *SumcheckMleEvaluations,
	bitDistributions []bit.Distribution,
	subpolynomialMultipliers []fr.Element,
	innerProductMultipliers []fr.Element,
	postResultChallenges []fr.Element,
	numFirstRoundMLEs int,
	declaredChiLengths, declaredRhoLengths []int,
) *VerificationBuilder {
	if len(innerProductMultipliers) != len(evals.PCSProofEvaluations) {
		panic("inner product multipliers must align with the claimed evaluations")
	}
	return &VerificationBuilder{
		evals:                    evals,
		bitDistributions:         bitDistributions,
		subpolynomialMultipliers: subpolynomialMultipliers,
		innerProductMultipliers:  innerProductMultipliers,
		postResultChallenges:     postResultChallenges,
		numFirstRoundMLEs:        numFirstRoundMLEs,
		declaredChiLengths:       declaredChiLengths,
		declaredRhoLengths:       declaredRhoLengths,
	}
}

// Evaluations exposes the MLE evaluation bookkeeping.
func (b *VerificationBuilder) Evaluations() *SumcheckMleEvaluations { return b.evals }

// RangeLength returns the committed row range.
func (b *VerificationBuilder) RangeLength() int { return b.evals.RangeLength }

// SingletonChiEvaluation returns the first-row indicator's evaluation at
// the sumcheck point.
func (b *VerificationBuilder) SingletonChiEvaluation() fr.Element {
	return b.evals.SingletonChiEvaluation
}

// TryConsumeFirstRoundMLEEvaluation consumes the next first-round column
// evaluation.
func (b *VerificationBuilder) TryConsumeFirstRoundMLEEvaluation() (fr.Element, error) {
	if b.consumedFirstRound >= b.numFirstRoundMLEs {
		return fr.Element{}, sizeMismatch("no first round mle evaluation left")
	}
	eval := b.fold(b.consumedFirstRound)
	b.consumedFirstRound++
	return eval, nil
}

// TryConsumeAnchoredMLEEvaluation consumes the next evaluation of a column
// the verifier holds a commitment for.
func (b *VerificationBuilder) TryConsumeAnchoredMLEEvaluation() (fr.Element, error) {
	return b.consumeFinalSegment(SourceAnchored)
}

// TryConsumeFinalRoundMLEEvaluation consumes the next evaluation of a
// column committed inside the proof.
func (b *VerificationBuilder) TryConsumeFinalRoundMLEEvaluation() (fr.Element, error) {
	return b.consumeFinalSegment(SourceIntermediate)
}

func (b *VerificationBuilder) consumeFinalSegment(src MLESource) (fr.Element, error) {
	idx := b.numFirstRoundMLEs + b.consumedFinal
	if idx >= len(b.evals.PCSProofEvaluations) {
		return fr.Element{}, sizeMismatch("no mle evaluation left")
	}
	eval := b.fold(idx)
	b.consumedFinal++
	b.finalSources = append(b.finalSources, src)
	return eval, nil
}

func (b *VerificationBuilder) fold(idx int) fr.Element {
	eval := b.evals.PCSProofEvaluations[idx]
	var t fr.Element
	t.Mul(&b.innerProductMultipliers[idx], &eval)
	b.foldedPCSProofEvaluation.Add(&b.foldedPCSProofEvaluation, &t)
	return eval
}

// TryConsumeBitDistribution consumes the next bit distribution.
func (b *VerificationBuilder) TryConsumeBitDistribution() (bit.Distribution, error) {
	if b.consumedBitDists >= len(b.bitDistributions) {
		return bit.Distribution{}, sizeMismatch("no bit distribution left")
	}
	d := b.bitDistributions[b.consumedBitDists]
	b.consumedBitDists++
	return d, nil
}

// TryConsumePostResultChallenge pops the next post-result challenge.
func (b *VerificationBuilder) TryConsumePostResultChallenge() (fr.Element, error) {
	n := len(b.postResultChallenges)
	if n == 0 {
		return fr.Element{}, sizeMismatch("no post-result challenge left")
	}
	c := b.postResultChallenges[n-1]
	b.postResultChallenges = b.postResultChallenges[:n-1]
	return c, nil
}

// TryConsumeChiEvaluation pops the next declared indicator length and
// returns its evaluation together with the length.
func (b *VerificationBuilder) TryConsumeChiEvaluation() (fr.Element, int, error) {
	if b.consumedChi >= len(b.declaredChiLengths) {
		return fr.Element{}, 0, sizeMismatch("no chi evaluation length left")
	}
	n := b.declaredChiLengths[b.consumedChi]
	v, ok := b.evals.ChiEvaluation(n)
	if !ok {
		return fr.Element{}, 0, sizeMismatch("chi evaluation length was not declared")
	}
	b.consumedChi++
	return v, n, nil
}

// TryConsumeOneEvaluation is the all-ones-column alias of
// TryConsumeChiEvaluation.
func (b *VerificationBuilder) TryConsumeOneEvaluation() (fr.Element, int, error) {
	return b.TryConsumeChiEvaluation()
}

// TryConsumeRhoEvaluation pops the next declared row-index length and
// returns its evaluation together with the length.
func (b *VerificationBuilder) TryConsumeRhoEvaluation() (fr.Element, int, error) {
	if b.consumedRho >= len(b.declaredRhoLengths) {
		return fr.Element{}, 0, sizeMismatch("no rho evaluation length left")
	}
	n := b.declaredRhoLengths[b.consumedRho]
	v, ok := b.evals.RhoEvaluation(n)
	if !ok {
		return fr.Element{}, 0, sizeMismatch("rho evaluation length was not declared")
	}
	b.consumedRho++
	return v, n, nil
}

// TryProduceSumcheckSubpolynomialEvaluation registers the verifier's own
// evaluation of a gadget claim at the sumcheck point. degree is the number
// of multiplicands in the claim's largest term; identity claims pick up one
// extra multiplicand for the entrywise multiplier column.
func (b *VerificationBuilder) TryProduceSumcheckSubpolynomialEvaluation(kind SubpolynomialKind, eval fr.Element, degree int) error {
	if b.producedSubpolys >= len(b.subpolynomialMultipliers) {
		return sizeMismatch("no subpolynomial multiplier left")
	}
	var t fr.Element
	t.Mul(&b.subpolynomialMultipliers[b.producedSubpolys], &eval)
	multiplicands := degree
	if kind == Identity {
		t.Mul(&t, &b.evals.RandomEvaluation)
		multiplicands++
	}
	b.sumcheckEvaluation.Add(&b.sumcheckEvaluation, &t)
	b.producedSubpolys++
	if multiplicands > b.maxMultiplicands {
		b.maxMultiplicands = multiplicands
	}
	return nil
}

// CheckCompleted verifies that everything the proof carries was consumed
// and every expected claim was produced.
func (b *VerificationBuilder) CheckCompleted() error {
	switch {
	case b.consumedFirstRound != b.numFirstRoundMLEs:
		return sizeMismatch("unconsumed first round mle evaluations")
	case b.numFirstRoundMLEs+b.consumedFinal != len(b.evals.PCSProofEvaluations):
		return sizeMismatch("unconsumed mle evaluations")
	case b.consumedBitDists != len(b.bitDistributions):
		return sizeMismatch("unconsumed bit distributions")
	case b.producedSubpolys != len(b.subpolynomialMultipliers):
		return sizeMismatch("missing subpolynomial evaluations")
	case len(b.postResultChallenges) != 0:
		return sizeMismatch("unconsumed post-result challenges")
	case b.consumedChi != len(b.declaredChiLengths):
		return sizeMismatch("unconsumed chi evaluation lengths")
	case b.consumedRho != len(b.declaredRhoLengths):
		return sizeMismatch("unconsumed rho evaluation lengths")
	}
	return nil
}

// SumcheckEvaluation returns the accumulated expected evaluation of the
// batched sumcheck polynomial.
func (b *VerificationBuilder) SumcheckEvaluation() fr.Element { return b.sumcheckEvaluation }

// FoldedPCSProofEvaluation returns the random linear combination of every
// consumed column evaluation.
func (b *VerificationBuilder) FoldedPCSProofEvaluation() fr.Element {
	return b.foldedPCSProofEvaluation
}

// InnerProductMultipliers returns the folding factors in stream order.
func (b *VerificationBuilder) InnerProductMultipliers() []fr.Element {
	return b.innerProductMultipliers
}

// FinalSources returns, in consumption order, where each final-segment
// column's commitment lives. The orchestrator uses this to line the
// commitments up with the folding factors.
func (b *VerificationBuilder) FinalSources() []MLESource { return b.finalSources }

// MaxMultiplicands returns the multiplicand count of the widest claim
// produced so far, entrywise multiplier column included.
func (b *VerificationBuilder) MaxMultiplicands() int { return b.maxMultiplicands }
