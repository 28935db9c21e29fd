package commitment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verifiabledb/sqlproofs/database"
)

func bigintColumns(data ...[]int64) []*database.Column {
	out := make([]*database.Column, len(data))
	for i, d := range data {
		col := database.NewBigIntColumn(d)
		out[i] = &col
	}
	return out
}

func TestTryFromColumnsWithOffset(t *testing.T) {
	scheme := NaiveScheme{}
	cc, err := TryFromColumnsWithOffset(scheme,
		[]string{"a", "b"},
		bigintColumns([]int64{1, 2, 3}, []int64{-1, 0, 5}),
		0)
	require.NoError(t, err)
	assert.Equal(t, 2, cc.Len())
	assert.Equal(t, []string{"a", "b"}, cc.Metadata().Idents())

	md, ok := cc.Metadata().Get("b")
	require.True(t, ok)
	assert.Equal(t, database.ColumnTypeBigInt, md.ColumnType())
	assert.Equal(t, ColumnBoundsBigInt, md.Bounds().Kind())

	_, ok = cc.CommitmentOf("a")
	assert.True(t, ok)
	_, ok = cc.CommitmentOf("missing")
	assert.False(t, ok)
}

func TestTryFromColumnsRejectsDuplicates(t *testing.T) {
	scheme := NaiveScheme{}
	_, err := TryFromColumnsWithOffset(scheme,
		[]string{"a", "a"},
		bigintColumns([]int64{1}, []int64{2}),
		0)
	var dup *DuplicateIdentifiersError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Identifier)
}

func TestAppendRowsMatchesFullCommit(t *testing.T) {
	scheme := NaiveScheme{}

	full, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{1, 2, 3, 4}), 0)
	require.NoError(t, err)

	incremental, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{1, 2}), 0)
	require.NoError(t, err)
	err = incremental.TryAppendRowsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{3, 4}), 2)
	require.NoError(t, err)

	assert.True(t, full.Commitments()[0].Equal(incremental.Commitments()[0]))

	fullMeta, _ := full.Metadata().Get("a")
	incMeta, _ := incremental.Metadata().Get("a")
	assert.Equal(t, fullMeta.Bounds().Bounds().Min(), incMeta.Bounds().Bounds().Min())
	assert.Equal(t, fullMeta.Bounds().Bounds().Max(), incMeta.Bounds().Bounds().Max())
}

func TestAppendRowsRejectsMismatchedColumns(t *testing.T) {
	scheme := NaiveScheme{}
	cc, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{1}), 0)
	require.NoError(t, err)

	err = cc.TryAppendRowsWithOffset(scheme, []string{"b"}, bigintColumns([]int64{2}), 1)
	var mismatch *ColumnCommitmentsMismatchError
	assert.ErrorAs(t, err, &mismatch)

	boolCol := database.NewBooleanColumn([]bool{true})
	err = cc.TryAppendRowsWithOffset(scheme, []string{"a"}, []*database.Column{&boolCol}, 1)
	var colMismatch *ColumnCommitmentsMismatchError
	require.ErrorAs(t, err, &colMismatch)
	assert.Equal(t, "column a", colMismatch.Reason)
	var typeMismatch *MetadataMismatchError
	assert.ErrorAs(t, err, &typeMismatch)
}

func TestExtendColumns(t *testing.T) {
	scheme := NaiveScheme{}
	cc, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{1, 2}), 0)
	require.NoError(t, err)

	err = cc.TryExtendColumnsWithOffset(scheme,
		[]string{"b"}, bigintColumns([]int64{3, 4}), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cc.Metadata().Idents())
	assert.Equal(t, 2, cc.Len())

	err = cc.TryExtendColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{5}), 0)
	var dup *DuplicateIdentifiersError
	assert.ErrorAs(t, err, &dup)
}

func TestAddThenSubRoundTrips(t *testing.T) {
	scheme := NaiveScheme{}
	base, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{1, 2}), 0)
	require.NoError(t, err)
	tail, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{2}), 2)
	require.NoError(t, err)

	combined, err := base.TryAdd(scheme, tail)
	require.NoError(t, err)
	whole, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{1, 2, 2}), 0)
	require.NoError(t, err)
	assert.True(t, whole.Commitments()[0].Equal(combined.Commitments()[0]))

	back, err := combined.TrySub(scheme, tail)
	require.NoError(t, err)
	assert.True(t, base.Commitments()[0].Equal(back.Commitments()[0]))
	// difference keeps the limits but loses sharpness
	md, _ := back.Metadata().Get("a")
	assert.Equal(t, BoundsBounded, md.Bounds().Bounds().Kind())
}

func TestPedersenHomomorphism(t *testing.T) {
	scheme, err := NewPedersenScheme(8, []byte("test-generators"))
	require.NoError(t, err)
	assert.Equal(t, 8, scheme.NumGenerators())

	full, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{7, -3, 11, 2}), 0)
	require.NoError(t, err)

	incremental, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{7, -3}), 0)
	require.NoError(t, err)
	err = incremental.TryAppendRowsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{11, 2}), 2)
	require.NoError(t, err)

	assert.Equal(t, full.Commitments()[0], incremental.Commitments()[0])

	// same data at a different offset commits differently
	offsetCC, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{7, -3, 11, 2}), 1)
	require.NoError(t, err)
	assert.NotEqual(t, full.Commitments()[0], offsetCC.Commitments()[0])
}

func TestQueryCommitmentsLookup(t *testing.T) {
	scheme := NaiveScheme{}
	cc, err := TryFromColumnsWithOffset(scheme,
		[]string{"a"}, bigintColumns([]int64{1}), 0)
	require.NoError(t, err)

	qc := QueryCommitments[NaiveCommitment]{"db.t": cc}
	_, ok := qc.CommitmentOf("db.t", "a")
	assert.True(t, ok)
	_, ok = qc.CommitmentOf("db.t", "b")
	assert.False(t, ok)
	_, ok = qc.CommitmentOf("db.other", "a")
	assert.False(t, ok)

	md, ok := qc.MetadataOf("db.t", "a")
	require.True(t, ok)
	assert.Equal(t, database.ColumnTypeBigInt, md.ColumnType())
}
