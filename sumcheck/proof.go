package sumcheck

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/polynomial"
	"github.com/verifiabledb/sqlproofs/transcript"
)

var (
	// ErrProofShape is returned when the coefficient count is inconsistent
	// with the round count.
	ErrProofShape = errors.New("sumcheck proof coefficients do not divide into rounds")
	// ErrRoundSum is returned when a round polynomial does not sum to the
	// running claim.
	ErrRoundSum = errors.New("sumcheck round polynomial does not match claimed sum")
)

// Proof is the full set of round messages: for each round, the evaluations
// of the round polynomial at 0..degree, concatenated.
type Proof struct {
	Coefficients []fr.Element `cbor:"1,keyasint"`
}

// Subclaim is what a verified sumcheck reduces to: the claim that the
// composite polynomial evaluates to ExpectedEvaluation at EvaluationPoint.
type Subclaim struct {
	EvaluationPoint    []fr.Element
	ExpectedEvaluation fr.Element
}

// Prove runs all sumcheck rounds against the transcript and returns the
// proof together with the evaluation point assembled from the challenges.
func Prove(t *transcript.Transcript, state *ProverState) (Proof, []fr.Element) {
	evaluationPoint := make([]fr.Element, state.NumVars)
	coefficients := make([]fr.Element, 0, state.NumVars*(state.MaxMultiplicands+1))

	var r *fr.Element
	for round := 0; round < state.NumVars; round++ {
		evals := state.proveRound(r)
		t.AppendScalars(evals)
		coefficients = append(coefficients, evals...)
		challenge := t.ChallengeScalar()
		evaluationPoint[round] = challenge
		r = &challenge
	}
	return Proof{Coefficients: coefficients}, evaluationPoint
}

// VerifyWithoutEvaluation checks the round messages against the claimed sum
// and returns the reduced subclaim. The caller still has to check the
// composite polynomial's evaluation at the subclaim point; the sumcheck
// itself never touches the polynomial.
func (p *Proof) VerifyWithoutEvaluation(t *transcript.Transcript, numVariables int, claimedSum fr.Element) (Subclaim, error) {
	if numVariables < 1 {
		return Subclaim{}, ErrProofShape
	}
	if len(p.Coefficients) == 0 || len(p.Coefficients)%numVariables != 0 {
		return Subclaim{}, ErrProofShape
	}
	roundLen := len(p.Coefficients) / numVariables
	if roundLen < 2 {
		return Subclaim{}, ErrProofShape
	}

	evaluationPoint := make([]fr.Element, numVariables)
	claim := claimedSum
	for round := 0; round < numVariables; round++ {
		evals := p.Coefficients[round*roundLen : (round+1)*roundLen]
		var sum fr.Element
		sum.Add(&evals[0], &evals[1])
		if sum != claim {
			return Subclaim{}, ErrRoundSum
		}
		t.AppendScalars(evals)
		challenge := t.ChallengeScalar()
		evaluationPoint[round] = challenge
		claim = polynomial.InterpolateEvaluationsAt(challenge, evals)
	}

	return Subclaim{EvaluationPoint: evaluationPoint, ExpectedEvaluation: claim}, nil
}
