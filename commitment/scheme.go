package commitment

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/transcript"
)

// Scheme is the capability needed to maintain column commitments: committing
// to scalar columns at a row offset, and the additive homomorphism used for
// incremental updates.
//
// Committing to rows [offset, offset+n) of a column and adding the result to
// a commitment over rows [0, offset) must equal committing to the full
// column. Callers are responsible for only adding commitments over disjoint
// row ranges; the scheme cannot detect overlap.
type Scheme[C any] interface {
	// Commit commits to each column of scalars, with the data placed at
	// the given row offset.
	Commit(columns [][]fr.Element, offset int) []C
	// Add returns the sum of two commitments.
	Add(a, b C) C
	// Sub returns the difference of two commitments.
	Sub(a, b C) C
}

// EvaluationScheme extends Scheme with an opening argument: proving and
// verifying the evaluation of committed columns (as multilinear extensions)
// at a point.
//
// The batched verifier checks one folded claim for many columns at once:
// commitments and claimed evaluations are combined with the same batching
// factors before the single opening is checked.
type EvaluationScheme[C any, P any] interface {
	Scheme[C]
	// NewEvaluationProof proves that the MLE of a, placed at the given
	// generator offset, evaluates at bPoint to the claimed value.
	NewEvaluationProof(t *transcript.Transcript, a []fr.Element, bPoint []fr.Element, generatorsOffset int) P
	// VerifyBatchedProof verifies an evaluation proof against a batch of
	// commitments folded with batchingFactors.
	VerifyBatchedProof(t *transcript.Transcript, proof P, commitments []C,
		batchingFactors, evaluations []fr.Element, bPoint []fr.Element,
		generatorsOffset, tableLength int) error
}
