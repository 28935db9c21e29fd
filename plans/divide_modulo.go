package plans

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/gadgets"
	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// DivideModuloPlan outputs the truncated quotient and remainder of two
// bigint columns. The quotient is widened to int128 so MinInt64 / -1 needs
// no wrapping.
type DivideModuloPlan struct {
	Table          database.TableRef  `cbor:"1,keyasint"`
	Lhs            database.ColumnRef `cbor:"2,keyasint"`
	Rhs            database.ColumnRef `cbor:"3,keyasint"`
	QuotientAlias  string             `cbor:"4,keyasint"`
	RemainderAlias string             `cbor:"5,keyasint"`
}

// TableRefs returns the single read table.
func (p *DivideModuloPlan) TableRefs() []database.TableRef { return []database.TableRef{p.Table} }

// ColumnRefs returns the dividend and divisor columns.
func (p *DivideModuloPlan) ColumnRefs() []database.ColumnRef {
	return []database.ColumnRef{p.Lhs, p.Rhs}
}

// ResultFields returns the quotient and remainder fields.
func (p *DivideModuloPlan) ResultFields() []database.ColumnField {
	return []database.ColumnField{
		{Name: p.QuotientAlias, Type: database.ColumnTypeInt128},
		{Name: p.RemainderAlias, Type: database.ColumnTypeBigInt},
	}
}

// NumPostResultChallenges is zero: the division identity needs no
// challenges.
func (p *DivideModuloPlan) NumPostResultChallenges() int { return 0 }

func (p *DivideModuloPlan) witness(tables map[database.TableRef]*database.Table) (lhs, rhs []int64, quotient []scalar.Int128, remainder []int64, err error) {
	lhsCol, err := tableColumn(tables, p.Lhs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	rhsCol, err := tableColumn(tables, p.Rhs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if lhs, err = columnInt64s(lhsCol); err != nil {
		return nil, nil, nil, nil, err
	}
	if rhs, err = columnInt64s(rhsCol); err != nil {
		return nil, nil, nil, nil, err
	}
	quotient, remainder = gadgets.DivideAndModulo(lhs, rhs)
	return lhs, rhs, quotient, remainder, nil
}

// FirstRoundEvaluate computes the quotient and remainder result columns.
func (p *DivideModuloPlan) FirstRoundEvaluate(b *proof.FirstRoundBuilder, tables map[database.TableRef]*database.Table) (*database.Table, error) {
	_, _, quotient, remainder, err := p.witness(tables)
	if err != nil {
		return nil, err
	}
	return database.NewTable(
		[]string{p.QuotientAlias, p.RemainderAlias},
		[]database.Column{database.NewInt128Column(quotient), database.NewBigIntColumn(remainder)},
	)
}

// FinalRoundEvaluate proves the division identity over the committed
// quotient and remainder.
func (p *DivideModuloPlan) FinalRoundEvaluate(b *proof.FinalRoundBuilder, tables map[database.TableRef]*database.Table) error {
	lhs, rhs, quotient, remainder, err := p.witness(tables)
	if err != nil {
		return err
	}
	gadgets.FinalRoundEvaluateDivideModulo(b,
		int64Scalars(lhs),
		int64Scalars(rhs),
		int128Scalars(quotient),
		int64Scalars(remainder),
	)
	return nil
}

// VerifierEvaluate mirrors the division identity and returns the quotient
// and remainder evaluations.
func (p *DivideModuloPlan) VerifierEvaluate(b *proof.VerificationBuilder, columns map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element) ([]fr.Element, error) {
	quotientEval, remainderEval, err := gadgets.VerifyDivideModulo(b, columns[p.Lhs], columns[p.Rhs])
	if err != nil {
		return nil, err
	}
	return []fr.Element{quotientEval, remainderEval}, nil
}
