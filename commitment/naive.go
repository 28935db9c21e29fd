package commitment

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/polynomial"
	"github.com/verifiabledb/sqlproofs/scalar"
	"github.com/verifiabledb/sqlproofs/transcript"
)

// ErrNaiveVerification is returned when a naive evaluation proof fails.
var ErrNaiveVerification = errors.New("naive evaluation proof verification failed")

// NaiveCommitment is the committed data itself, padded with zeros up to the
// row offset. It is trivially additively homomorphic and hiding nothing;
// use it for tests only.
type NaiveCommitment struct {
	Values []fr.Element
}

// Equal compares two naive commitments, treating missing entries as zero.
func (c NaiveCommitment) Equal(other NaiveCommitment) bool {
	long, short := c.Values, other.Values
	if len(long) < len(short) {
		long, short = short, long
	}
	for i := range short {
		if long[i] != short[i] {
			return false
		}
	}
	for _, v := range long[len(short):] {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// NaiveEvaluationProof reveals the committed data outright and lets the
// verifier recompute the evaluation. It exists to exercise the full protocol
// end to end without a real opening argument.
type NaiveEvaluationProof struct {
	A         []fr.Element
	BPoint    []fr.Element
	Challenge [32]byte
}

// NaiveScheme implements EvaluationScheme with NaiveCommitment values.
type NaiveScheme struct{}

// Commit pads each column with offset zeros and stores it verbatim.
func (NaiveScheme) Commit(columns [][]fr.Element, offset int) []NaiveCommitment {
	out := make([]NaiveCommitment, len(columns))
	for i, col := range columns {
		values := make([]fr.Element, offset+len(col))
		copy(values[offset:], col)
		out[i] = NaiveCommitment{Values: values}
	}
	return out
}

// Add sums entrywise, extending to the longer commitment.
func (NaiveScheme) Add(a, b NaiveCommitment) NaiveCommitment {
	n := max(len(a.Values), len(b.Values))
	values := make([]fr.Element, n)
	copy(values, a.Values)
	for i := range b.Values {
		values[i].Add(&values[i], &b.Values[i])
	}
	return NaiveCommitment{Values: values}
}

// Sub subtracts entrywise, extending to the longer commitment.
func (NaiveScheme) Sub(a, b NaiveCommitment) NaiveCommitment {
	n := max(len(a.Values), len(b.Values))
	values := make([]fr.Element, n)
	copy(values, a.Values)
	for i := range b.Values {
		values[i].Sub(&values[i], &b.Values[i])
	}
	return NaiveCommitment{Values: values}
}

// NewEvaluationProof records the padded data and the evaluation point, bound
// to the transcript position via a pre-challenge.
func (NaiveScheme) NewEvaluationProof(t *transcript.Transcript, a []fr.Element, bPoint []fr.Element, generatorsOffset int) NaiveEvaluationProof {
	challenge := t.ChallengeBytes()
	padded := make([]fr.Element, generatorsOffset+len(a))
	copy(padded[generatorsOffset:], a)
	proof := NaiveEvaluationProof{
		A:         padded,
		BPoint:    append([]fr.Element(nil), bPoint...),
		Challenge: challenge,
	}
	t.AppendScalars(proof.A)
	t.AppendScalars(proof.BPoint)
	return proof
}

// VerifyBatchedProof folds the batch with the batching factors and checks the
// revealed data against both the folded commitment and the folded evaluation.
func (NaiveScheme) VerifyBatchedProof(t *transcript.Transcript, proof NaiveEvaluationProof,
	commitments []NaiveCommitment, batchingFactors, evaluations []fr.Element,
	bPoint []fr.Element, generatorsOffset, tableLength int) error {

	challenge := t.ChallengeBytes()
	if challenge != proof.Challenge {
		return ErrNaiveVerification
	}
	if len(bPoint) != len(proof.BPoint) {
		return ErrNaiveVerification
	}
	for i := range bPoint {
		if bPoint[i] != proof.BPoint[i] {
			return ErrNaiveVerification
		}
	}

	var folded NaiveCommitment
	s := NaiveScheme{}
	for i := range commitments {
		scaled := make([]fr.Element, len(commitments[i].Values))
		for j := range scaled {
			scaled[j].Mul(&batchingFactors[i], &commitments[i].Values[j])
		}
		folded = s.Add(folded, NaiveCommitment{Values: scaled})
	}
	if !folded.Equal(NaiveCommitment{Values: proof.A}) {
		return ErrNaiveVerification
	}

	var product, term fr.Element
	for i := range evaluations {
		term.Mul(&evaluations[i], &batchingFactors[i])
		product.Add(&product, &term)
	}

	bVec := make([]fr.Element, 1<<len(bPoint))
	polynomial.ComputeEvaluationVector(bVec, bPoint)
	var data []fr.Element
	if generatorsOffset < len(proof.A) {
		data = proof.A[generatorsOffset:]
	}
	expected := scalar.InnerProduct(data, bVec)
	if expected != product {
		return ErrNaiveVerification
	}

	t.AppendScalars(proof.A)
	t.AppendScalars(proof.BPoint)
	return nil
}
