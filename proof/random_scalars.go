package proof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/polynomial"
)

// SumcheckRandomScalars splits the transcript randomness drawn for sumcheck:
// the first NumSumcheckVariables scalars form the point whose evaluation
// vector becomes the entrywise multiplier column, the rest are one batching
// multiplier per subpolynomial.
type SumcheckRandomScalars struct {
	Scalars              []fr.Element
	RangeLength          int
	NumSumcheckVariables int
}

// NewSumcheckRandomScalars wraps freshly drawn scalars.
func NewSumcheckRandomScalars(scalars []fr.Element, rangeLength, numSumcheckVariables int) SumcheckRandomScalars {
	if len(scalars) < numSumcheckVariables {
		panic("not enough random scalars for the sumcheck variables")
	}
	return SumcheckRandomScalars{
		Scalars:              scalars,
		RangeLength:          rangeLength,
		NumSumcheckVariables: numSumcheckVariables,
	}
}

// SubpolynomialMultipliers returns the per-subpolynomial batching scalars.
func (s *SumcheckRandomScalars) SubpolynomialMultipliers() []fr.Element {
	return s.Scalars[s.NumSumcheckVariables:]
}

// EntrywiseMultipliers returns the evaluation vector of the first
// NumSumcheckVariables scalars, truncated to the range length. Identity
// subpolynomials are multiplied entrywise by this column so that "zero
// everywhere" reduces to "sums to zero" with negligible soundness loss.
func (s *SumcheckRandomScalars) EntrywiseMultipliers() []fr.Element {
	v := make([]fr.Element, s.RangeLength)
	polynomial.ComputeEvaluationVector(v, s.Scalars[:s.NumSumcheckVariables])
	return v
}
