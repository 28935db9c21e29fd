package proof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/polynomial"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// SumcheckMleEvaluations holds everything the verifier knows about MLE
// values at the sumcheck point: the prover-claimed column evaluations, the
// entrywise multiplier evaluation, and the chi/rho evaluations it computed
// itself from the point.
type SumcheckMleEvaluations struct {
	RangeLength         int
	EvaluationPoint     []fr.Element
	PCSProofEvaluations []fr.Element
	// RandomEvaluation is the entrywise multiplier column's MLE at the
	// point; identity claims are scaled by it.
	RandomEvaluation fr.Element
	// SingletonChiEvaluation is the first-row indicator's MLE at the
	// point.
	SingletonChiEvaluation fr.Element

	chiEvaluations map[int]fr.Element
	rhoEvaluations map[int]fr.Element
}

// NewSumcheckMleEvaluations evaluates the structural columns at the sumcheck
// point. chiLengths and rhoLengths come from the proof and the table
// lengths; any length beyond the committed range is rejected.
func NewSumcheckMleEvaluations(
	evaluationPoint []fr.Element,
	randomScalars SumcheckRandomScalars,
	pcsProofEvaluations []fr.Element,
	chiLengths, rhoLengths []int,
) (*SumcheckMleEvaluations, error) {
	rangeLength := randomScalars.RangeLength
	vec := make([]fr.Element, rangeLength)
	polynomial.ComputeEvaluationVector(vec, evaluationPoint)

	e := &SumcheckMleEvaluations{
		RangeLength:         rangeLength,
		EvaluationPoint:     evaluationPoint,
		PCSProofEvaluations: pcsProofEvaluations,
		RandomEvaluation:    scalar.InnerProduct(randomScalars.EntrywiseMultipliers(), vec),
		chiEvaluations:      make(map[int]fr.Element, len(chiLengths)),
		rhoEvaluations:      make(map[int]fr.Element, len(rhoLengths)),
	}
	if rangeLength > 0 {
		e.SingletonChiEvaluation = vec[0]
	}

	for _, n := range chiLengths {
		if n > rangeLength {
			return nil, sizeMismatch("chi evaluation length exceeds range length")
		}
		e.chiEvaluations[n] = scalar.Sum(vec[:n])
	}
	for _, n := range rhoLengths {
		if n > rangeLength {
			return nil, sizeMismatch("rho evaluation length exceeds range length")
		}
		var acc, t, idx fr.Element
		for b := 0; b < n; b++ {
			idx.SetUint64(uint64(b))
			t.Mul(&vec[b], &idx)
			acc.Add(&acc, &t)
		}
		e.rhoEvaluations[n] = acc
	}
	return e, nil
}

// ChiEvaluation returns the indicator-column evaluation for a declared
// length.
func (e *SumcheckMleEvaluations) ChiEvaluation(n int) (fr.Element, bool) {
	v, ok := e.chiEvaluations[n]
	return v, ok
}

// RhoEvaluation returns the row-index-column evaluation for a declared
// length.
func (e *SumcheckMleEvaluations) RhoEvaluation(n int) (fr.Element, bool) {
	v, ok := e.rhoEvaluations[n]
	return v, ok
}
