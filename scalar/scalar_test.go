package scalar

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromInt64(t *testing.T) {
	var want fr.Element
	want.SetUint64(42)
	assert.Equal(t, want, FromInt64(42))

	neg := FromInt64(-3)
	pos := FromInt64(3)
	var sum fr.Element
	sum.Add(&neg, &pos)
	assert.True(t, sum.IsZero())
}

func TestIsNegative(t *testing.T) {
	zero := FromInt64(0)
	one := FromInt64(1)
	minusOne := FromInt64(-1)
	assert.False(t, IsNegative(&zero))
	assert.False(t, IsNegative(&one))
	assert.True(t, IsNegative(&minusOne))

	boundary := MaxSigned()
	assert.False(t, IsNegative(&boundary))
	var aboveBoundary fr.Element
	aboveBoundary.Add(&boundary, &one)
	assert.True(t, IsNegative(&aboveBoundary))
}

func TestMakeAbsBitMask(t *testing.T) {
	assert.Equal(t, [4]uint64{5, 0, 0, 0}, MakeAbsBitMask(FromInt64(5)))
	assert.Equal(t, [4]uint64{5, 0, 0, 1 << 63}, MakeAbsBitMask(FromInt64(-5)))
	assert.Equal(t, [4]uint64{}, MakeAbsBitMask(FromInt64(0)))

	big := TwoPow64()
	assert.Equal(t, [4]uint64{0, 1, 0, 0}, MakeAbsBitMask(big))
}

func TestFromAbsBitMaskRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 255, -256, 1 << 40, -(1 << 40)} {
		e := FromInt64(v)
		assert.Equal(t, e, FromAbsBitMask(MakeAbsBitMask(e)), "value %d", v)
	}
}

func TestMakeOffsetBitMask(t *testing.T) {
	assert.Equal(t, [4]uint64{0, 0, 0, 1 << 63}, MakeOffsetBitMask(FromInt64(0)))
	assert.Equal(t, [4]uint64{7, 0, 0, 1 << 63}, MakeOffsetBitMask(FromInt64(7)))
	// -1 + 2^255 = 2^255 - 1, every bit below 255 set
	assert.Equal(t,
		[4]uint64{^uint64(0), ^uint64(0), ^uint64(0), 1<<63 - 1},
		MakeOffsetBitMask(FromInt64(-1)))
}

func TestMakeOffsetBitMaskRecomposes(t *testing.T) {
	offset := new(big.Int).Lsh(big.NewInt(1), 255)
	for _, v := range []int64{0, 1, -1, 12345, -98765} {
		mask := MakeOffsetBitMask(FromInt64(v))
		acc := new(big.Int)
		for i := 3; i >= 0; i-- {
			acc.Lsh(acc, 64)
			acc.Or(acc, new(big.Int).SetUint64(mask[i]))
		}
		acc.Sub(acc, offset)
		var got fr.Element
		got.SetBigInt(acc)
		assert.Equal(t, FromInt64(v), got, "value %d", v)
	}
}

func TestFromInt128(t *testing.T) {
	assert.Equal(t, FromInt64(-7), FromInt128(Int128FromInt64(-7)))
	assert.Equal(t, TwoPow64(), FromInt128(Int128{Hi: 1, Lo: 0}))
}

func TestFromBool(t *testing.T) {
	assert.Equal(t, FromInt64(0), FromBool(false))
	assert.Equal(t, FromInt64(1), FromBool(true))
}

func TestFromStringIsDeterministicAndSpread(t *testing.T) {
	a := FromString("hello")
	b := FromString("hello")
	c := FromString("world")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestInnerProduct(t *testing.T) {
	a := []fr.Element{FromInt64(1), FromInt64(2), FromInt64(3)}
	b := []fr.Element{FromInt64(4), FromInt64(5)}
	// shorter slice wins: 1*4 + 2*5
	assert.Equal(t, FromInt64(14), InnerProduct(a, b))
	assert.Equal(t, FromInt64(14), InnerProduct(b, a))
}

func TestSumAndAddConst(t *testing.T) {
	s := []fr.Element{FromInt64(1), FromInt64(-4), FromInt64(10)}
	assert.Equal(t, FromInt64(7), Sum(s))

	shifted := AddConst(s, FromInt64(2))
	assert.Equal(t, FromInt64(3), shifted[0])
	assert.Equal(t, FromInt64(-2), shifted[1])
	assert.Equal(t, FromInt64(12), shifted[2])
	// input untouched
	assert.Equal(t, FromInt64(1), s[0])
}

func TestMulAddAssign(t *testing.T) {
	acc := []fr.Element{FromInt64(1), FromInt64(1)}
	MulAddAssign(acc, FromInt64(3), []fr.Element{FromInt64(2), FromInt64(-2)})
	assert.Equal(t, FromInt64(7), acc[0])
	assert.Equal(t, FromInt64(-5), acc[1])
}

func TestBatchInvert(t *testing.T) {
	s := []fr.Element{FromInt64(2), FromInt64(0), FromInt64(-3)}
	inv := BatchInvert(s)
	require.Len(t, inv, 3)

	var prod fr.Element
	prod.Mul(&s[0], &inv[0])
	assert.Equal(t, FromInt64(1), prod)
	assert.True(t, inv[1].IsZero())
	prod.Mul(&s[2], &inv[2])
	assert.Equal(t, FromInt64(1), prod)
}

func TestInt128Cmp(t *testing.T) {
	assert.Equal(t, -1, Int128FromInt64(-5).Cmp(Int128FromInt64(3)))
	assert.Equal(t, 0, Int128FromInt64(3).Cmp(Int128FromInt64(3)))
	assert.Equal(t, 1, Int128{Hi: 1, Lo: 0}.Cmp(Int128FromInt64(1<<62)))
	assert.Equal(t, -1, MinInt128().Cmp(MaxInt128()))
	assert.True(t, MinInt128().IsNegative())
	assert.False(t, MaxInt128().IsNegative())
}
