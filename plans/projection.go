package plans

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/proof"
)

// ProjectionPlan outputs the referenced columns of one table unchanged. The
// whole argument is the evaluation check: each anchored column evaluation
// must match the decoded result column's.
type ProjectionPlan struct {
	Table   database.TableRef    `cbor:"1,keyasint"`
	Columns []database.ColumnRef `cbor:"2,keyasint"`
	// Aliases renames the output columns; empty entries keep the source
	// identifier.
	Aliases []string `cbor:"3,keyasint,omitempty"`
}

// TableRefs returns the single projected table.
func (p *ProjectionPlan) TableRefs() []database.TableRef { return []database.TableRef{p.Table} }

// ColumnRefs returns the projected columns.
func (p *ProjectionPlan) ColumnRefs() []database.ColumnRef { return p.Columns }

// ResultFields returns one field per projected column.
func (p *ProjectionPlan) ResultFields() []database.ColumnField {
	fields := make([]database.ColumnField, len(p.Columns))
	for i, ref := range p.Columns {
		name := ref.Ident
		if i < len(p.Aliases) && p.Aliases[i] != "" {
			name = p.Aliases[i]
		}
		fields[i] = database.ColumnField{Name: name, Type: ref.Type}
	}
	return fields
}

// NumPostResultChallenges is zero: projection needs no challenges.
func (p *ProjectionPlan) NumPostResultChallenges() int { return 0 }

// FirstRoundEvaluate assembles the result table from the source columns.
func (p *ProjectionPlan) FirstRoundEvaluate(b *proof.FirstRoundBuilder, tables map[database.TableRef]*database.Table) (*database.Table, error) {
	fields := p.ResultFields()
	names := make([]string, len(p.Columns))
	columns := make([]database.Column, len(p.Columns))
	for i, ref := range p.Columns {
		col, err := tableColumn(tables, ref)
		if err != nil {
			return nil, err
		}
		names[i] = fields[i].Name
		columns[i] = *col
	}
	return database.NewTable(names, columns)
}

// FinalRoundEvaluate has nothing to prove beyond the anchored openings.
func (p *ProjectionPlan) FinalRoundEvaluate(b *proof.FinalRoundBuilder, tables map[database.TableRef]*database.Table) error {
	return nil
}

// VerifierEvaluate returns the anchored evaluations in projection order.
func (p *ProjectionPlan) VerifierEvaluate(b *proof.VerificationBuilder, columns map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element) ([]fr.Element, error) {
	out := make([]fr.Element, len(p.Columns))
	for i, ref := range p.Columns {
		out[i] = columns[ref]
	}
	return out, nil
}
