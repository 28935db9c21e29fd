package proof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
)

// MetadataAccessor resolves the committed row range of a table.
type MetadataAccessor interface {
	TableLength(database.TableRef) int
	TableOffset(database.TableRef) int
}

// DataAccessor additionally resolves the table data itself. Only the prover
// needs one.
type DataAccessor interface {
	MetadataAccessor
	Table(database.TableRef) *database.Table
}

// Plan is a provable query plan. The three evaluate methods must make their
// produce/consume calls in exactly the same order; that order is the
// protocol.
type Plan interface {
	// TableRefs lists the tables the plan reads, in a fixed order.
	TableRefs() []database.TableRef
	// ColumnRefs lists the committed columns the plan reads, in a fixed
	// order.
	ColumnRefs() []database.ColumnRef
	// ResultFields describes the schema of the result table.
	ResultFields() []database.ColumnField
	// NumPostResultChallenges is the number of transcript challenges the
	// plan consumes between the result and the final-round commitments.
	NumPostResultChallenges() int

	// FirstRoundEvaluate computes the result table and binds structural
	// claims before any challenge is drawn.
	FirstRoundEvaluate(b *FirstRoundBuilder, tables map[database.TableRef]*database.Table) (*database.Table, error)
	// FinalRoundEvaluate produces witness columns and subpolynomial claims
	// after the post-result challenges are fixed.
	FinalRoundEvaluate(b *FinalRoundBuilder, tables map[database.TableRef]*database.Table) error
	// VerifierEvaluate mirrors FinalRoundEvaluate on claimed evaluations
	// and returns the output column evaluations to check against the
	// decoded result.
	VerifierEvaluate(b *VerificationBuilder, columns map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element) ([]fr.Element, error)
}

// indexRange returns the smallest offset and largest offset+length over the
// referenced tables, i.e. the generator window the proof must cover. A plan
// with no tables covers the single row [0, 1).
func indexRange(accessor MetadataAccessor, refs []database.TableRef) (int, int) {
	if len(refs) == 0 {
		return 0, 1
	}
	minStart := accessor.TableOffset(refs[0])
	maxEnd := minStart + accessor.TableLength(refs[0])
	for _, ref := range refs[1:] {
		start := accessor.TableOffset(ref)
		end := start + accessor.TableLength(ref)
		if start < minStart {
			minStart = start
		}
		if end > maxEnd {
			maxEnd = end
		}
	}
	return minStart, maxEnd
}
