package plans

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/gadgets"
	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// InequalityPlan outputs a boolean column marking the rows where an integer
// column is less than (or greater than) a literal. The comparison runs
// through the sign gadget on the difference.
type InequalityPlan struct {
	Table  database.TableRef  `cbor:"1,keyasint"`
	Column database.ColumnRef `cbor:"2,keyasint"`
	Value  int64              `cbor:"3,keyasint"`
	// IsLessThan selects column < value; otherwise column > value.
	IsLessThan bool   `cbor:"4,keyasint"`
	Alias      string `cbor:"5,keyasint"`
}

// TableRefs returns the single read table.
func (p *InequalityPlan) TableRefs() []database.TableRef { return []database.TableRef{p.Table} }

// ColumnRefs returns the compared column.
func (p *InequalityPlan) ColumnRefs() []database.ColumnRef { return []database.ColumnRef{p.Column} }

// ResultFields returns the single boolean output field.
func (p *InequalityPlan) ResultFields() []database.ColumnField {
	return []database.ColumnField{{Name: p.Alias, Type: database.ColumnTypeBoolean}}
}

// NumPostResultChallenges is zero: the sign gadget needs no challenges.
func (p *InequalityPlan) NumPostResultChallenges() int { return 0 }

// FirstRoundEvaluate computes the boolean result column.
func (p *InequalityPlan) FirstRoundEvaluate(b *proof.FirstRoundBuilder, tables map[database.TableRef]*database.Table) (*database.Table, error) {
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
		if p.IsLessThan {
			result[i] = v < p.Value
		} else {
			result[i] = v > p.Value
		}
	}
	return database.NewTable([]string{p.Alias}, []database.Column{database.NewBooleanColumn(result)})
}

// diffScalars returns the signed difference column the sign gadget runs on:
// column - value for less-than, value - column for greater-than.
func (p *InequalityPlan) diffScalars(col *database.Column) []fr.Element {
	diff := col.Scalars()
	value := scalar.FromInt64(p.Value)
	for i := range diff {
		if p.IsLessThan {
			diff[i].Sub(&diff[i], &value)
		} else {
			diff[i].Sub(&value, &diff[i])
		}
	}
	return diff
}

// FinalRoundEvaluate proves the sign of the difference column.
func (p *InequalityPlan) FinalRoundEvaluate(b *proof.FinalRoundBuilder, tables map[database.TableRef]*database.Table) error {
	col, err := tableColumn(tables, p.Column)
	if err != nil {
		return err
	}
	gadgets.FinalRoundEvaluateSign(b, p.diffScalars(col))
	return nil
}

// VerifierEvaluate mirrors the sign gadget and returns the sign evaluation
// as the single output.
func (p *InequalityPlan) VerifierEvaluate(b *proof.VerificationBuilder, columns map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element) ([]fr.Element, error) {
	chiEval := chiEvals[p.Table]
	value := scalar.FromInt64(p.Value)

	var diffEval, t fr.Element
	t.Mul(&value, &chiEval)
	colEval := columns[p.Column]
	if p.IsLessThan {
		diffEval.Sub(&colEval, &t)
	} else {
		diffEval.Sub(&t, &colEval)
	}

	signEval, err := gadgets.VerifierEvaluateSign(b, diffEval, chiEval)
	if err != nil {
		return nil, err
	}
	return []fr.Element{signEval}, nil
}
