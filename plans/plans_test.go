package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifiabledb/sqlproofs/commitment"
	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

const employeesRef = database.TableRef("db.employees")

func employeesTable(t *testing.T) *database.Table {
	t.Helper()
	table, err := database.NewTable(
		[]string{"id", "salary", "dept"},
		[]database.Column{
			database.NewBigIntColumn([]int64{1, 2, 3, 4}),
			database.NewBigIntColumn([]int64{40, 55, 55, 70}),
			database.NewBigIntColumn([]int64{10, 10, 20, 30}),
		},
	)
	require.NoError(t, err)
	return table
}

// setup registers the table with the accessor and commits its columns with
// the naive scheme.
func setup(t *testing.T, ref database.TableRef, table *database.Table, offset int) (*database.Accessor, commitment.QueryCommitments[commitment.NaiveCommitment]) {
	t.Helper()
	accessor := database.NewAccessor()
	accessor.AddTable(ref, table, offset)

	comms := make(commitment.QueryCommitments[commitment.NaiveCommitment])
	addCommitments(t, comms, ref, table, offset)
	return accessor, comms
}

func addCommitments(t *testing.T, comms commitment.QueryCommitments[commitment.NaiveCommitment], ref database.TableRef, table *database.Table, offset int) {
	t.Helper()
	columns := make([]*database.Column, table.NumColumns())
	for i := range columns {
		columns[i] = table.ColumnAt(i)
	}
	cc, err := commitment.TryFromColumnsWithOffset(commitment.NaiveScheme{}, table.ColumnNames(), columns, offset)
	require.NoError(t, err)
	comms[ref] = cc
}

func proveAndVerify(t *testing.T, plan *DynProofPlan, accessor *database.Accessor, comms commitment.QueryCommitments[commitment.NaiveCommitment]) *database.Table {
	t.Helper()
	scheme := commitment.NaiveScheme{}
	queryProof, result, err := proof.Prove(scheme, plan, accessor)
	require.NoError(t, err)
	require.NoError(t, queryProof.Verify(scheme, plan, comms, accessor, result))

	decoded, err := result.ToTable(plan.ResultFields())
	require.NoError(t, err)
	return decoded
}

func TestProjectionEndToEnd(t *testing.T) {
	table := employeesTable(t)
	accessor, comms := setup(t, employeesRef, table, 0)

	plan := &DynProofPlan{Projection: &ProjectionPlan{
		Table: employeesRef,
		Columns: []database.ColumnRef{
			{Table: employeesRef, Ident: "id", Type: database.ColumnTypeBigInt},
			{Table: employeesRef, Ident: "salary", Type: database.ColumnTypeBigInt},
		},
		Aliases: []string{"", "pay"},
	}}

	decoded := proveAndVerify(t, plan, accessor, comms)
	assert.Equal(t, []string{"id", "pay"}, decoded.ColumnNames())
	assert.Equal(t, []int64{40, 55, 55, 70}, decoded.ColumnAt(1).Int64s())
}

func TestProjectionWithOffset(t *testing.T) {
	table := employeesTable(t)
	accessor, comms := setup(t, employeesRef, table, 3)

	plan := &DynProofPlan{Projection: &ProjectionPlan{
		Table: employeesRef,
		Columns: []database.ColumnRef{
			{Table: employeesRef, Ident: "dept", Type: database.ColumnTypeBigInt},
		},
	}}

	decoded := proveAndVerify(t, plan, accessor, comms)
	assert.Equal(t, []int64{10, 10, 20, 30}, decoded.ColumnAt(0).Int64s())
}

func TestEqualityEndToEnd(t *testing.T) {
	table := employeesTable(t)
	accessor, comms := setup(t, employeesRef, table, 0)

	plan := &DynProofPlan{Equality: &EqualityPlan{
		Table:  employeesRef,
		Column: database.ColumnRef{Table: employeesRef, Ident: "salary", Type: database.ColumnTypeBigInt},
		Value:  55,
		Alias:  "is_55",
	}}

	decoded := proveAndVerify(t, plan, accessor, comms)
	assert.Equal(t, []bool{false, true, true, false}, decoded.ColumnAt(0).Bools())
}

func TestInequalityEndToEnd(t *testing.T) {
	table := employeesTable(t)
	accessor, comms := setup(t, employeesRef, table, 0)

	lessThan := &DynProofPlan{Inequality: &InequalityPlan{
		Table:      employeesRef,
		Column:     database.ColumnRef{Table: employeesRef, Ident: "salary", Type: database.ColumnTypeBigInt},
		Value:      56,
		IsLessThan: true,
		Alias:      "below",
	}}
	decoded := proveAndVerify(t, lessThan, accessor, comms)
	assert.Equal(t, []bool{true, true, true, false}, decoded.ColumnAt(0).Bools())

	greaterThan := &DynProofPlan{Inequality: &InequalityPlan{
		Table:  employeesRef,
		Column: database.ColumnRef{Table: employeesRef, Ident: "salary", Type: database.ColumnTypeBigInt},
		Value:  55,
		Alias:  "above",
	}}
	decoded = proveAndVerify(t, greaterThan, accessor, comms)
	assert.Equal(t, []bool{false, false, false, true}, decoded.ColumnAt(0).Bools())
}

func TestDivideModuloEndToEnd(t *testing.T) {
	table, err := database.NewTable(
		[]string{"lhs", "rhs"},
		[]database.Column{
			database.NewBigIntColumn([]int64{7, -7, 9, 100}),
			database.NewBigIntColumn([]int64{2, -2, 0, 10}),
		},
	)
	require.NoError(t, err)
	ref := database.TableRef("db.pairs")
	accessor, comms := setup(t, ref, table, 0)

	plan := &DynProofPlan{DivideModulo: &DivideModuloPlan{
		Table:          ref,
		Lhs:            database.ColumnRef{Table: ref, Ident: "lhs", Type: database.ColumnTypeBigInt},
		Rhs:            database.ColumnRef{Table: ref, Ident: "rhs", Type: database.ColumnTypeBigInt},
		QuotientAlias:  "q",
		RemainderAlias: "r",
	}}

	decoded := proveAndVerify(t, plan, accessor, comms)
	assert.Equal(t, []scalar.Int128{
		scalar.Int128FromInt64(3),
		scalar.Int128FromInt64(3),
		scalar.Int128FromInt64(0),
		scalar.Int128FromInt64(10),
	}, decoded.ColumnAt(0).Int128s())
	assert.Equal(t, []int64{1, -1, 9, 0}, decoded.ColumnAt(1).Int64s())
}

func TestRangeCheckEndToEnd(t *testing.T) {
	table, err := database.NewTable(
		[]string{"v"},
		[]database.Column{database.NewBigIntColumn([]int64{0, 1, 255, 1 << 40})},
	)
	require.NoError(t, err)
	ref := database.TableRef("db.values")
	accessor, comms := setup(t, ref, table, 0)

	plan := &DynProofPlan{RangeCheck: &RangeCheckPlan{
		Table:  ref,
		Column: database.ColumnRef{Table: ref, Ident: "v", Type: database.ColumnTypeBigInt},
		Alias:  "v",
	}}

	decoded := proveAndVerify(t, plan, accessor, comms)
	assert.Equal(t, []int64{0, 1, 255, 1 << 40}, decoded.ColumnAt(0).Int64s())
}

func TestSortMergeJoinEndToEnd(t *testing.T) {
	left, err := database.NewTable(
		[]string{"k"},
		[]database.Column{database.NewBigIntColumn([]int64{5, 2, 2, 1})},
	)
	require.NoError(t, err)
	right, err := database.NewTable(
		[]string{"k"},
		[]database.Column{database.NewBigIntColumn([]int64{2, 2, 3, 5})},
	)
	require.NoError(t, err)

	leftRef := database.TableRef("db.left")
	rightRef := database.TableRef("db.right")
	accessor := database.NewAccessor()
	accessor.AddTable(leftRef, left, 0)
	accessor.AddTable(rightRef, right, 0)
	comms := make(commitment.QueryCommitments[commitment.NaiveCommitment])
	addCommitments(t, comms, leftRef, left, 0)
	addCommitments(t, comms, rightRef, right, 0)

	plan := &DynProofPlan{SortMergeJoin: &SortMergeJoinPlan{
		Left:        leftRef,
		Right:       rightRef,
		LeftColumn:  database.ColumnRef{Table: leftRef, Ident: "k", Type: database.ColumnTypeBigInt},
		RightColumn: database.ColumnRef{Table: rightRef, Ident: "k", Type: database.ColumnTypeBigInt},
		Alias:       "k",
	}}

	// key 2: 2 left rows * 2 right rows; key 5: 1 * 1
	decoded := proveAndVerify(t, plan, accessor, comms)
	assert.Equal(t, []int64{2, 2, 2, 2, 5}, decoded.ColumnAt(0).Int64s())
}

func TestJoinKeys(t *testing.T) {
	assert.Equal(t, []int64{2, 2, 2, 2, 5}, joinKeys([]int64{5, 2, 2, 1}, []int64{2, 2, 3, 5}))
	assert.Nil(t, joinKeys([]int64{1, 2}, []int64{3, 4}))
	assert.Nil(t, joinKeys(nil, []int64{1}))
}

func TestVerifyRejectsTamperedResult(t *testing.T) {
	table := employeesTable(t)
	accessor, comms := setup(t, employeesRef, table, 0)
	scheme := commitment.NaiveScheme{}

	plan := &DynProofPlan{Equality: &EqualityPlan{
		Table:  employeesRef,
		Column: database.ColumnRef{Table: employeesRef, Ident: "salary", Type: database.ColumnTypeBigInt},
		Value:  55,
		Alias:  "is_55",
	}}
	queryProof, result, err := proof.Prove(scheme, plan, accessor)
	require.NoError(t, err)

	result.Data[0] ^= 1
	assert.Error(t, queryProof.Verify(scheme, plan, comms, accessor, result))
}

func TestVerifyRejectsDifferentPlan(t *testing.T) {
	table := employeesTable(t)
	accessor, comms := setup(t, employeesRef, table, 0)
	scheme := commitment.NaiveScheme{}

	plan := &DynProofPlan{Equality: &EqualityPlan{
		Table:  employeesRef,
		Column: database.ColumnRef{Table: employeesRef, Ident: "salary", Type: database.ColumnTypeBigInt},
		Value:  55,
		Alias:  "is_55",
	}}
	queryProof, result, err := proof.Prove(scheme, plan, accessor)
	require.NoError(t, err)

	// same shape, different literal: the transcript diverges
	other := &DynProofPlan{Equality: &EqualityPlan{
		Table:  employeesRef,
		Column: database.ColumnRef{Table: employeesRef, Ident: "salary", Type: database.ColumnTypeBigInt},
		Value:  40,
		Alias:  "is_55",
	}}
	assert.Error(t, queryProof.Verify(scheme, other, comms, accessor, result))
}

func TestVerifyRejectsTamperedProof(t *testing.T) {
	table := employeesTable(t)
	accessor, comms := setup(t, employeesRef, table, 0)
	scheme := commitment.NaiveScheme{}

	plan := &DynProofPlan{Projection: &ProjectionPlan{
		Table: employeesRef,
		Columns: []database.ColumnRef{
			{Table: employeesRef, Ident: "id", Type: database.ColumnTypeBigInt},
		},
	}}
	queryProof, result, err := proof.Prove(scheme, plan, accessor)
	require.NoError(t, err)

	one := scalar.FromInt64(1)
	queryProof.SumcheckProof.Coefficients[0].Add(&queryProof.SumcheckProof.Coefficients[0], &one)
	assert.Error(t, queryProof.Verify(scheme, plan, comms, accessor, result))
}

func TestVerifyRejectsTamperedDeclaredLengths(t *testing.T) {
	left, err := database.NewTable(
		[]string{"k"},
		[]database.Column{database.NewBigIntColumn([]int64{1, 2})},
	)
	require.NoError(t, err)
	right, err := database.NewTable(
		[]string{"k"},
		[]database.Column{database.NewBigIntColumn([]int64{2, 3})},
	)
	require.NoError(t, err)

	leftRef := database.TableRef("db.left")
	rightRef := database.TableRef("db.right")
	accessor := database.NewAccessor()
	accessor.AddTable(leftRef, left, 0)
	accessor.AddTable(rightRef, right, 0)
	comms := make(commitment.QueryCommitments[commitment.NaiveCommitment])
	addCommitments(t, comms, leftRef, left, 0)
	addCommitments(t, comms, rightRef, right, 0)

	plan := &DynProofPlan{SortMergeJoin: &SortMergeJoinPlan{
		Left:        leftRef,
		Right:       rightRef,
		LeftColumn:  database.ColumnRef{Table: leftRef, Ident: "k", Type: database.ColumnTypeBigInt},
		RightColumn: database.ColumnRef{Table: rightRef, Ident: "k", Type: database.ColumnTypeBigInt},
		Alias:       "k",
	}}
	scheme := commitment.NaiveScheme{}
	queryProof, result, err := proof.Prove(scheme, plan, accessor)
	require.NoError(t, err)
	require.NotEmpty(t, queryProof.ChiEvaluationLengths)

	queryProof.ChiEvaluationLengths[0]++
	assert.Error(t, queryProof.Verify(scheme, plan, comms, accessor, result))
}

func TestDynProofPlanRequiresVariant(t *testing.T) {
	assert.Panics(t, func() { (&DynProofPlan{}).TableRefs() })
}
