package plans

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/gadgets"
	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// EqualityPlan outputs a boolean column marking the rows where an integer
// column equals a literal. The zero test runs through the pseudo-inverse
// gadget on column - value.
type EqualityPlan struct {
	Table  database.TableRef  `cbor:"1,keyasint"`
	Column database.ColumnRef `cbor:"2,keyasint"`
	Value  int64              `cbor:"3,keyasint"`
	Alias  string             `cbor:"4,keyasint"`
}

// TableRefs returns the single read table.
func (p *EqualityPlan) TableRefs() []database.TableRef { return []database.TableRef{p.Table} }

// ColumnRefs returns the compared column.
func (p *EqualityPlan) ColumnRefs() []database.ColumnRef { return []database.ColumnRef{p.Column} }

// ResultFields returns the single boolean output field.
func (p *EqualityPlan) ResultFields() []database.ColumnField {
	return []database.ColumnField{{Name: p.Alias, Type: database.ColumnTypeBoolean}}
}

// NumPostResultChallenges is zero: the zero test needs no challenges.
func (p *EqualityPlan) NumPostResultChallenges() int { return 0 }

// FirstRoundEvaluate computes the boolean result column.
func (p *EqualityPlan) FirstRoundEvaluate(b *proof.FirstRoundBuilder, tables map[database.TableRef]*database.Table) (*database.Table, error) {
	col, err := tableColumn(tables, p.Column)
	if err != nil {
		return nil, err
	}
	vals, err := columnInt64s(col)
	if err != nil {
		return nil, err
	}
	result := make([]bool, len(vals))
	for i, v := range vals {
		result[i] = v == p.Value
	}
	return database.NewTable([]string{p.Alias}, []database.Column{database.NewBooleanColumn(result)})
}

// FinalRoundEvaluate proves the zero test on column - value.
func (p *EqualityPlan) FinalRoundEvaluate(b *proof.FinalRoundBuilder, tables map[database.TableRef]*database.Table) error {
	col, err := tableColumn(tables, p.Column)
	if err != nil {
		return err
	}
	lhs := col.Scalars()
	value := scalar.FromInt64(p.Value)
	for i := range lhs {
		lhs[i].Sub(&lhs[i], &value)
	}
	gadgets.FinalRoundEvaluateIsZero(b, lhs)
	return nil
}

// VerifierEvaluate mirrors the zero test and returns the selection
// evaluation as the single output.
func (p *EqualityPlan) VerifierEvaluate(b *proof.VerificationBuilder, columns map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element) ([]fr.Element, error) {
	chiEval := chiEvals[p.Table]
	value := scalar.FromInt64(p.Value)

	var lhsEval, t fr.Element
	t.Mul(&value, &chiEval)
	colEval := columns[p.Column]
	lhsEval.Sub(&colEval, &t)

	selectionEval, err := gadgets.VerifyIsZero(b, lhsEval, chiEval)
	if err != nil {
		return nil, err
	}
	return []fr.Element{selectionEval}, nil
}
