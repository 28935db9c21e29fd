// Package plans holds the provable query plans: a closed set of plan kinds,
// each pairing a result computation with the sumcheck claims that certify
// it. DynProofPlan is the serialized form bound into the transcript; both
// sides must agree on it byte for byte.
package plans

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// DynProofPlan is the tagged union over every supported plan kind. Exactly
// one variant must be set; the zero value is not a valid plan.
type DynProofPlan struct {
	Projection    *ProjectionPlan    `cbor:"1,keyasint,omitempty"`
	Equality      *EqualityPlan      `cbor:"2,keyasint,omitempty"`
	Inequality    *InequalityPlan    `cbor:"3,keyasint,omitempty"`
	DivideModulo  *DivideModuloPlan  `cbor:"4,keyasint,omitempty"`
	RangeCheck    *RangeCheckPlan    `cbor:"5,keyasint,omitempty"`
	SortMergeJoin *SortMergeJoinPlan `cbor:"6,keyasint,omitempty"`
}

func (p *DynProofPlan) variant() proof.Plan {
	switch {
	case p.Projection != nil:
		return p.Projection
	case p.Equality != nil:
		return p.Equality
	case p.Inequality != nil:
		return p.Inequality
	case p.DivideModulo != nil:
		return p.DivideModulo
	case p.RangeCheck != nil:
		return p.RangeCheck
	case p.SortMergeJoin != nil:
		return p.SortMergeJoin
	}
	panic("no plan variant set")
}

// TableRefs lists the tables the active variant reads.
func (p *DynProofPlan) TableRefs() []database.TableRef { return p.variant().TableRefs() }

// ColumnRefs lists the committed columns the active variant reads.
func (p *DynProofPlan) ColumnRefs() []database.ColumnRef { return p.variant().ColumnRefs() }

// ResultFields describes the result schema of the active variant.
func (p *DynProofPlan) ResultFields() []database.ColumnField { return p.variant().ResultFields() }

// NumPostResultChallenges returns the active variant's challenge count.
func (p *DynProofPlan) NumPostResultChallenges() int { return p.variant().NumPostResultChallenges() }

// FirstRoundEvaluate dispatches to the active variant.
func (p *DynProofPlan) FirstRoundEvaluate(b *proof.FirstRoundBuilder, tables map[database.TableRef]*database.Table) (*database.Table, error) {
	return p.variant().FirstRoundEvaluate(b, tables)
}

// FinalRoundEvaluate dispatches to the active variant.
func (p *DynProofPlan) FinalRoundEvaluate(b *proof.FinalRoundBuilder, tables map[database.TableRef]*database.Table) error {
	return p.variant().FinalRoundEvaluate(b, tables)
}

// VerifierEvaluate dispatches to the active variant.
func (p *DynProofPlan) VerifierEvaluate(b *proof.VerificationBuilder, columns map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element) ([]fr.Element, error) {
	return p.variant().VerifierEvaluate(b, columns, chiEvals)
}

// tableColumn resolves a column reference against the prover's tables,
// checking the declared type.
func tableColumn(tables map[database.TableRef]*database.Table, ref database.ColumnRef) (*database.Column, error) {
	t, ok := tables[ref.Table]
	if !ok {
		return nil, fmt.Errorf("plan references unknown table %q", ref.Table)
	}
	col, ok := t.Column(ref.Ident)
	if !ok {
		return nil, fmt.Errorf("plan references unknown column %q.%q", ref.Table, ref.Ident)
	}
	if col.Type() != ref.Type {
		return nil, fmt.Errorf("column %q.%q is %v, plan expects %v", ref.Table, ref.Ident, col.Type(), ref.Type)
	}
	return col, nil
}

// int64Scalars lifts int64 rows into the field.
func int64Scalars(vals []int64) []fr.Element {
	out := make([]fr.Element, len(vals))
	for i, v := range vals {
		out[i] = scalar.FromInt64(v)
	}
	return out
}

// int128Scalars lifts int128 rows into the field.
func int128Scalars(vals []scalar.Int128) []fr.Element {
	out := make([]fr.Element, len(vals))
	for i, v := range vals {
		out[i] = scalar.FromInt128(v)
	}
	return out
}

// columnInt64s widens an integer column to int64 rows.
func columnInt64s(col *database.Column) ([]int64, error) {
	switch col.Type() {
	case database.ColumnTypeSmallInt:
		src := col.Int16s()
		out := make([]int64, len(src))
		for i, v := range src {
			out[i] = int64(v)
		}
		return out, nil
	case database.ColumnTypeInt:
		src := col.Int32s()
		out := make([]int64, len(src))
		for i, v := range src {
			out[i] = int64(v)
		}
		return out, nil
	case database.ColumnTypeBigInt, database.ColumnTypeTimestampTZ:
		return col.Int64s(), nil
	default:
		return nil, fmt.Errorf("column type %v is not an integer type", col.Type())
	}
}
