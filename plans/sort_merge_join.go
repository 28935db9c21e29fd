package plans

import (
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/gadgets"
	"github.com/verifiabledb/sqlproofs/proof"
)

// SortMergeJoinPlan outputs the sorted key column of the inner join of two
// tables on one integer key column each. A key matching l left rows and r
// right rows appears l*r times in the output. The join is certified by two
// membership arguments (output against each input) plus a monotonicity
// argument on the output.
type SortMergeJoinPlan struct {
	Left        database.TableRef  `cbor:"1,keyasint"`
	Right       database.TableRef  `cbor:"2,keyasint"`
	LeftColumn  database.ColumnRef `cbor:"3,keyasint"`
	RightColumn database.ColumnRef `cbor:"4,keyasint"`
	Alias       string             `cbor:"5,keyasint"`
}

// TableRefs returns the two joined tables.
func (p *SortMergeJoinPlan) TableRefs() []database.TableRef {
	return []database.TableRef{p.Left, p.Right}
}

// ColumnRefs returns the two key columns.
func (p *SortMergeJoinPlan) ColumnRefs() []database.ColumnRef {
	return []database.ColumnRef{p.LeftColumn, p.RightColumn}
}

// ResultFields returns the single joined key field.
func (p *SortMergeJoinPlan) ResultFields() []database.ColumnField {
	return []database.ColumnField{{Name: p.Alias, Type: database.ColumnTypeBigInt}}
}

// NumPostResultChallenges is two: the membership arguments' batching
// challenges.
func (p *SortMergeJoinPlan) NumPostResultChallenges() int { return 2 }

func (p *SortMergeJoinPlan) keys(tables map[database.TableRef]*database.Table) (left, right, output []int64, err error) {
	leftCol, err := tableColumn(tables, p.LeftColumn)
	if err != nil {
		return nil, nil, nil, err
	}
	rightCol, err := tableColumn(tables, p.RightColumn)
	if err != nil {
		return nil, nil, nil, err
	}
	if left, err = columnInt64s(leftCol); err != nil {
		return nil, nil, nil, err
	}
	if right, err = columnInt64s(rightCol); err != nil {
		return nil, nil, nil, err
	}
	return left, right, joinKeys(left, right), nil
}

// joinKeys returns the sorted inner-join key multiset: every key present on
// both sides, repeated (left count) * (right count) times.
func joinKeys(left, right []int64) []int64 {
	rightCounts := make(map[int64]int, len(right))
	for _, k := range right {
		rightCounts[k]++
	}
	leftCounts := make(map[int64]int, len(left))
	var matched []int64
	for _, k := range left {
		if leftCounts[k] == 0 && rightCounts[k] > 0 {
			matched = append(matched, k)
		}
		leftCounts[k]++
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i] < matched[j] })

	var output []int64
	for _, k := range matched {
		for n := leftCounts[k] * rightCounts[k]; n > 0; n-- {
			output = append(output, k)
		}
	}
	return output
}

// FirstRoundEvaluate computes and commits the joined key column.
func (p *SortMergeJoinPlan) FirstRoundEvaluate(b *proof.FirstRoundBuilder, tables map[database.TableRef]*database.Table) (*database.Table, error) {
	left, right, output, err := p.keys(tables)
	if err != nil {
		return nil, err
	}
	gadgets.FirstRoundEvaluateSortMergeJoin(b, int64Scalars(left), int64Scalars(right), int64Scalars(output))
	return database.NewTable([]string{p.Alias}, []database.Column{database.NewBigIntColumn(output)})
}

// FinalRoundEvaluate proves the membership and monotonicity claims.
func (p *SortMergeJoinPlan) FinalRoundEvaluate(b *proof.FinalRoundBuilder, tables map[database.TableRef]*database.Table) error {
	left, right, output, err := p.keys(tables)
	if err != nil {
		return err
	}
	leftScalars := int64Scalars(left)
	rightScalars := int64Scalars(right)
	outputScalars := int64Scalars(output)
	leftMult := gadgets.Multiplicities([][]fr.Element{leftScalars}, [][]fr.Element{outputScalars})
	rightMult := gadgets.Multiplicities([][]fr.Element{rightScalars}, [][]fr.Element{outputScalars})
	gadgets.FinalRoundEvaluateSortMergeJoin(b, leftScalars, rightScalars, outputScalars, leftMult, rightMult)
	return nil
}

// VerifierEvaluate mirrors the join claims and returns the output key
// evaluation, which the result check then ties to the decoded result.
func (p *SortMergeJoinPlan) VerifierEvaluate(b *proof.VerificationBuilder, columns map[database.ColumnRef]fr.Element, chiEvals map[database.TableRef]fr.Element) ([]fr.Element, error) {
	outputKeyEval, err := gadgets.VerifySortMergeJoin(b,
		columns[p.LeftColumn], columns[p.RightColumn],
		chiEvals[p.Left], chiEvals[p.Right])
	if err != nil {
		return nil, err
	}
	return []fr.Element{outputKeyEval}, nil
}
