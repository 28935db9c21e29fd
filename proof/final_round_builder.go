package proof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/bit"
	"github.com/verifiabledb/sqlproofs/polynomial"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// FinalRoundBuilder accumulates the prover's post-challenge state: witness
// columns (anchored and intermediate), bit distributions, and sumcheck
// subpolynomial claims. Call order is protocol-significant and must be
// mirrored exactly by the verifier.
type FinalRoundBuilder struct {
	numSumcheckVariables int
	bitDistributions     []bit.Distribution
	// columns committed in the final round, in production order
	intermediateMLEs [][]fr.Element
	// every column opened by the evaluation proof (anchored and
	// intermediate interleaved), in production order
	pcsProofMLEs   [][]fr.Element
	subpolynomials []Subpolynomial
	// consumed from the end: the last entry is the first challenge drawn
	postResultChallenges []fr.Element
}

// NewFinalRoundBuilder starts the final round. The challenge stack is
// consumed back to front, so the first challenge drawn from the transcript
// must be the last element.
func NewFinalRoundBuilder(numSumcheckVariables int, postResultChallenges []fr.Element) *FinalRoundBuilder {
	return &FinalRoundBuilder{
		numSumcheckVariables: numSumcheckVariables,
		postResultChallenges: postResultChallenges,
	}
}

// NumSumcheckVariables returns the hypercube dimension.
func (b *FinalRoundBuilder) NumSumcheckVariables() int { return b.numSumcheckVariables }

// NumSumcheckSubpolynomials returns how many claims have been registered.
func (b *FinalRoundBuilder) NumSumcheckSubpolynomials() int { return len(b.subpolynomials) }

// Subpolynomials returns the registered claims in order.
func (b *FinalRoundBuilder) Subpolynomials() []Subpolynomial { return b.subpolynomials }

// BitDistributions returns the registered distributions in order.
func (b *FinalRoundBuilder) BitDistributions() []bit.Distribution { return b.bitDistributions }

// IntermediateMLEs returns the columns needing fresh commitments, in order.
func (b *FinalRoundBuilder) IntermediateMLEs() [][]fr.Element { return b.intermediateMLEs }

// PCSProofMLEs returns every column the evaluation proof opens, in order.
func (b *FinalRoundBuilder) PCSProofMLEs() [][]fr.Element { return b.pcsProofMLEs }

// ProduceAnchoredMLE registers a column whose commitment the verifier
// already holds. It joins the evaluation-proof stream but is not
// re-committed.
func (b *FinalRoundBuilder) ProduceAnchoredMLE(column []fr.Element) {
	b.pcsProofMLEs = append(b.pcsProofMLEs, column)
}

// ProduceIntermediateMLE registers a witness column the verifier has no
// commitment for. It is committed in the final round and joins the
// evaluation-proof stream.
func (b *FinalRoundBuilder) ProduceIntermediateMLE(column []fr.Element) {
	b.intermediateMLEs = append(b.intermediateMLEs, column)
	b.ProduceAnchoredMLE(column)
}

// ProduceBitDistribution registers a bit distribution carried in the proof.
func (b *FinalRoundBuilder) ProduceBitDistribution(d bit.Distribution) {
	b.bitDistributions = append(b.bitDistributions, d)
}

// ProduceSumcheckSubpolynomial registers an algebraic claim over previously
// produced columns.
func (b *FinalRoundBuilder) ProduceSumcheckSubpolynomial(kind SubpolynomialKind, terms []Term) {
	b.subpolynomials = append(b.subpolynomials, Subpolynomial{Kind: kind, Terms: terms})
}

// ConsumePostResultChallenge pops the next post-result challenge. Running
// out of challenges is a gadget wiring bug, not an input error.
func (b *FinalRoundBuilder) ConsumePostResultChallenge() fr.Element {
	n := len(b.postResultChallenges)
	if n == 0 {
		panic("no post-result challenge left to consume")
	}
	c := b.postResultChallenges[n-1]
	b.postResultChallenges = b.postResultChallenges[:n-1]
	return c
}

// MakeSumcheckPolynomial batches every registered claim into the one
// composite polynomial sumcheck runs over, weighting subpolynomial i by the
// i-th batching multiplier.
func (b *FinalRoundBuilder) MakeSumcheckPolynomial(scalars SumcheckRandomScalars) *polynomial.Composite {
	cb := newCompositeBuilder(b.numSumcheckVariables, scalars.EntrywiseMultipliers())
	multipliers := scalars.SubpolynomialMultipliers()
	var mult fr.Element
	for i, sp := range b.subpolynomials {
		for _, term := range sp.Terms {
			mult.Mul(&multipliers[i], &term.Coefficient)
			switch sp.Kind {
			case Identity:
				cb.produceFrMultiplicand(&mult, term.Multiplicands...)
			case ZeroSum:
				cb.produceZerosumMultiplicand(&mult, term.Multiplicands...)
			}
		}
	}
	return cb.makeCompositePolynomial()
}

// EvaluatePCSProofMLEs evaluates every opened column against the evaluation
// vector of the sumcheck point, in stream order.
func (b *FinalRoundBuilder) EvaluatePCSProofMLEs(evaluationVec []fr.Element) []fr.Element {
	out := make([]fr.Element, len(b.pcsProofMLEs))
	for i, mle := range b.pcsProofMLEs {
		out[i] = scalar.InnerProduct(mle, evaluationVec)
	}
	return out
}
