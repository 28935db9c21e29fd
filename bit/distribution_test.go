package bit

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"

	"github.com/verifiabledb/sqlproofs/scalar"
)

func elems(vs ...int64) []fr.Element {
	out := make([]fr.Element, len(vs))
	for i, v := range vs {
		out[i] = scalar.FromInt64(v)
	}
	return out
}

func TestNewDistributionConstantColumn(t *testing.T) {
	d := NewDistribution(elems(5, 5, 5))
	assert.Equal(t, 0, d.NumVaryingBits())
	assert.False(t, d.HasVaryingSignBit())
	assert.False(t, d.SignBit())
	assert.Equal(t, [4]uint64{5, 0, 0, 0}, d.ConstantPart())
	assert.True(t, d.IsValid())
}

func TestNewDistributionVaryingSign(t *testing.T) {
	// abs values 1, 2, 5: bits 0..2 vary, sign varies
	d := NewDistribution(elems(1, 2, -5))
	assert.Equal(t, 4, d.NumVaryingBits())
	assert.True(t, d.HasVaryingSignBit())
	assert.Equal(t, [4]uint64{}, d.ConstantPart())
	assert.True(t, d.IsValid())
}

func TestNewDistributionConstantSign(t *testing.T) {
	// abs values 3, 1: bit 0 constant, bit 1 varies, sign constant negative
	d := NewDistribution(elems(-3, -1))
	assert.Equal(t, 1, d.NumVaryingBits())
	assert.False(t, d.HasVaryingSignBit())
	assert.True(t, d.SignBit())
	assert.Equal(t, [4]uint64{1, 0, 0, 0}, d.ConstantPart())
}

func TestNewDistributionEmpty(t *testing.T) {
	d := NewDistribution(nil)
	assert.Equal(t, 0, d.NumVaryingBits())
	assert.True(t, d.IsValid())
	assert.True(t, d.IsWithinAcceptableRange())
}

func TestVaryingBitOrder(t *testing.T) {
	d := NewDistribution(elems(1, 4, -1))
	var got [][2]int
	d.ForEachVaryingBit(func(word, pos int) {
		got = append(got, [2]int{word, pos})
	})
	// ascending by word then position, sign bit (word 3, pos 63) last
	assert.Equal(t, [][2]int{{0, 0}, {0, 2}, {3, 63}}, got)
}

func TestIsValidRejectsVaryingUnsetBit(t *testing.T) {
	d := Distribution{VaryMask: [4]uint64{2, 0, 0, 0}}
	assert.False(t, d.IsValid())

	d = Distribution{OrAll: [4]uint64{2, 0, 0, 0}, VaryMask: [4]uint64{2, 0, 0, 0}}
	assert.True(t, d.IsValid())
}

func TestIsWithinAcceptableRange(t *testing.T) {
	small := NewDistribution(elems(1, -100, 1<<40))
	assert.True(t, small.IsWithinAcceptableRange())

	var huge fr.Element
	huge.SetBigInt(new(big.Int).Lsh(big.NewInt(1), 130))
	tooBig := NewDistribution([]fr.Element{huge})
	assert.False(t, tooBig.IsWithinAcceptableRange())

	var exactly fr.Element
	exactly.SetBigInt(new(big.Int).Lsh(big.NewInt(1), 128))
	assert.True(t, NewDistribution([]fr.Element{exactly}).IsWithinAcceptableRange())

	zero := NewDistribution(elems(0, 0))
	assert.True(t, zero.IsWithinAcceptableRange())
}

func TestMostSignificantAbsBit(t *testing.T) {
	assert.Equal(t, 0, mustDist(t, elems(1)).MostSignificantAbsBit())
	assert.Equal(t, 6, mustDist(t, elems(64, -3)).MostSignificantAbsBit())

	var big64 fr.Element
	big64.SetBigInt(new(big.Int).Lsh(big.NewInt(1), 70))
	d := NewDistribution([]fr.Element{big64})
	assert.Equal(t, 70, d.MostSignificantAbsBit())
}

func mustDist(t *testing.T, data []fr.Element) Distribution {
	t.Helper()
	return NewDistribution(data)
}

func TestConstantAndVaryingBitsPartition(t *testing.T) {
	d := NewDistribution(elems(12, 10, 14))
	var constant, varying [4]uint64
	d.ForEachAbsConstantBit(func(word, pos int) { constant[word] |= 1 << pos })
	d.ForEachAbsVaryingBit(func(word, pos int) { varying[word] |= 1 << pos })
	for i := 0; i < 4; i++ {
		assert.Zero(t, constant[i]&varying[i])
	}
	// abs or-all = 12|10|14 = 14, bit 3 constant, bits 1..2 vary
	assert.Equal(t, [4]uint64{8, 0, 0, 0}, constant)
	assert.Equal(t, [4]uint64{6, 0, 0, 0}, varying)
}
