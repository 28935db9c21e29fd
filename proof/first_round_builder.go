package proof

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// FirstRoundBuilder accumulates everything the prover binds into the
// transcript before any challenge is revealed: structural claims about the
// result (chi/rho evaluation lengths), first-round witness columns, and the
// number of post-result challenges the plan will need. Committing structure
// first is what stops a prover from choosing it adaptively after seeing the
// challenge.
type FirstRoundBuilder struct {
	mles                    [][]fr.Element
	chiEvaluationLengths    []int
	rhoEvaluationLengths    []int
	numPostResultChallenges int
	rangeLength             int
}

// NewFirstRoundBuilder starts a first round covering at least
// initialRangeLength rows.
func NewFirstRoundBuilder(initialRangeLength int) *FirstRoundBuilder {
	return &FirstRoundBuilder{rangeLength: initialRangeLength}
}

// ProduceIntermediateMLE registers a first-round witness column. It will be
// committed and opened alongside the final-round columns, in production
// order.
func (b *FirstRoundBuilder) ProduceIntermediateMLE(column []fr.Element) {
	b.mles = append(b.mles, column)
	b.UpdateRangeLength(len(column))
}

// ProduceChiEvaluationLength declares that verification will need the
// evaluation of the indicator column of the first n rows.
func (b *FirstRoundBuilder) ProduceChiEvaluationLength(n int) {
	b.chiEvaluationLengths = append(b.chiEvaluationLengths, n)
	b.UpdateRangeLength(n)
}

// ProduceOneEvaluationLength declares that verification will need the
// evaluation of the all-ones column of length n. The all-ones column of
// length n and the indicator of the first n rows are the same vector.
func (b *FirstRoundBuilder) ProduceOneEvaluationLength(n int) {
	b.ProduceChiEvaluationLength(n)
}

// ProduceRhoEvaluationLength declares that verification will need the
// evaluation of the row-index column (0, 1, ..., n-1).
func (b *FirstRoundBuilder) ProduceRhoEvaluationLength(n int) {
	b.rhoEvaluationLengths = append(b.rhoEvaluationLengths, n)
	b.UpdateRangeLength(n)
}

// RequestPostResultChallenges asks for n transcript challenges to be drawn
// after the result and first-round commitments are bound.
func (b *FirstRoundBuilder) RequestPostResultChallenges(n int) {
	b.numPostResultChallenges += n
}

// UpdateRangeLength grows the committed row range to at least n.
func (b *FirstRoundBuilder) UpdateRangeLength(n int) {
	if n > b.rangeLength {
		b.rangeLength = n
	}
}

// RangeLength returns the number of rows sumcheck must cover.
func (b *FirstRoundBuilder) RangeLength() int { return b.rangeLength }

// NumPostResultChallenges returns the total requested challenge count.
func (b *FirstRoundBuilder) NumPostResultChallenges() int { return b.numPostResultChallenges }

// IntermediateMLEs returns the first-round witness columns in production
// order.
func (b *FirstRoundBuilder) IntermediateMLEs() [][]fr.Element { return b.mles }

// ChiEvaluationLengths returns the declared indicator lengths.
func (b *FirstRoundBuilder) ChiEvaluationLengths() []int { return b.chiEvaluationLengths }

// RhoEvaluationLengths returns the declared row-index lengths.
func (b *FirstRoundBuilder) RhoEvaluationLengths() []int { return b.rhoEvaluationLengths }
