package plans

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/gadgets"
	"github.com/verifiabledb/sqlproofs/proof"
)

// RangeCheckPlan outputs a column unchanged while proving every entry lies
// in [-2^255, 2^255) under the balanced representative, via the base-256
// word decomposition lookup.
type RangeCheckPlan struct {
	Table  database.TableRef  `cbor:"1,keyasint"`
	Column database.ColumnRef `cbor:"2,keyasint"`
	Alias  string             `cbor:"3,keyasint"`
}

// TableRefs returns the single read table.
func (p *RangeCheckPlan) TableRefs() []database.TableRef { return []database.TableRef{p.Table} }

// ColumnRefs returns the checked column.
func (p *RangeCheckPlan) ColumnRefs() []database.ColumnRef { return []database.ColumnRef{p.Column} }

// ResultFields returns the passthrough field.
func (p *RangeCheckPlan) ResultFields() []database.ColumnField {
	return []database.ColumnField{{Name: p.Alias, Type: p.Column.Type}}
}

// NumPostResultChallenges is one: the lookup argument's batching challenge.
func (p *RangeCheckPlan) NumPostResultChallenges() int { return 1 }

// FirstRoundEvaluate commits the word decomposition and passes the column
// through as the result.
func (p *RangeCheckPlan) FirstRoundEvaluate(b *proof.FirstRoundBuilder, tables map[database.TableRef]*database.Table) (*database.Table, error) {
	col, err := tableColumn(tables, p.Column)
	if err != nil {
		return nil, err
	}
	gadgets.FirstRoundEvaluateRangeCheck(b, col.Scalars())
	return database.NewTable([]string{p.Alias}, []database.Column{*col})
}

// FinalRoundEvaluate proves the word lookup claims.
func (p *RangeCheckPlan) FinalRoundEvaluate(b *proof.FinalRoundBuilder, tables map[database.TableRef]*database.Table) error {
	col, err := tableColumn(tables, p.Column)
	if err != nil {
		return err
	}
	gadgets.FinalRoundEvaluateRangeCheck(b, col.Scalars())
	return nil
}

// VerifierEvaluate mirrors the lookup claims and returns the column
// evaluation as the passthrough output.
func (p *RangeCheckPlan) VerifierEvaluate(b *proof.VerificationBuilder, columns map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element) ([]fr.Element, error) {
	colEval := columns[p.Column]
	if err := gadgets.VerifierEvaluateRangeCheck(b, colEval, chiEvals[p.Table]); err != nil {
		return nil, err
	}
	return []fr.Element{colEval}, nil
}
