// Package bit summarizes the signed bit patterns of a scalar column. The
// summary travels inside proofs, so its consumers must treat it as untrusted
// until validated.
package bit

import (
	"math/bits"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/scalar"
)

// Distribution describes the distribution of bit values in a table column.
//
// Two limb arrays track which bits vary and the constant bit values. If
// {x_1, ..., x_n} are the values described, then
//
//	orAll    = abs(x_1) | abs(x_2) | ... | abs(x_n)
//	varyMask bit i set iff x_s and x_t disagree on bit i for some s != t
//
// where abs includes the sign as bit 255.
type Distribution struct {
	OrAll    [4]uint64
	VaryMask [4]uint64
}

// NewDistribution computes the distribution of a scalar slice.
func NewDistribution(data []fr.Element) Distribution {
	if len(data) == 0 {
		return Distribution{}
	}
	orAll := scalar.MakeAbsBitMask(data[0])
	var varyMask [4]uint64
	for _, x := range data[1:] {
		mask := scalar.MakeAbsBitMask(x)
		for i := 0; i < 4; i++ {
			varyMask[i] |= orAll[i] ^ mask[i]
			orAll[i] |= mask[i]
		}
	}
	return Distribution{OrAll: orAll, VaryMask: varyMask}
}

// NumVaryingBits counts the varying bits, sign included.
func (d Distribution) NumVaryingBits() int {
	n := 0
	for _, w := range d.VaryMask {
		n += bits.OnesCount64(w)
	}
	return n
}

// HasVaryingSignBit reports whether the sign bit varies across the column.
func (d Distribution) HasVaryingSignBit() bool {
	return d.VaryMask[3]&(1<<63) != 0
}

// SignBit returns the shared sign bit. Callers must check HasVaryingSignBit
// first; the result is meaningless otherwise.
func (d Distribution) SignBit() bool {
	return d.OrAll[3]&(1<<63) != 0
}

// IsValid checks structural consistency of a deserialized distribution: a bit
// cannot vary without ever being set.
func (d Distribution) IsValid() bool {
	for i := 0; i < 4; i++ {
		if d.VaryMask[i]&^d.OrAll[i] != 0 {
			return false
		}
	}
	return true
}

// IsWithinAcceptableRange restricts the absolute values the sign argument
// accepts, so no value admits both a positive and a negative representation.
// The current limit covers the sum of two signed 128-bit integers, 2^128.
func (d Distribution) IsWithinAcceptableRange() bool {
	if d.NumVaryingBits() == 0 && d.ConstantPart() == [4]uint64{} {
		return true
	}
	return d.MostSignificantAbsBit() <= 128
}

// ConstantPart returns sum_i b_i 2^i over the non-varying 1-bits b_i of the
// absolute values.
func (d Distribution) ConstantPart() [4]uint64 {
	var val [4]uint64
	d.ForEachAbsConstantBit(func(word, pos int) {
		val[word] |= 1 << pos
	})
	return val
}

// ForEachAbsConstantBit iterates over each constant 1-bit of the absolute
// values (sign excluded).
func (d Distribution) ForEachAbsConstantBit(f func(word, pos int)) {
	for i := 0; i < 4; i++ {
		w := ^d.VaryMask[i]
		if i == 3 {
			w = ^(d.VaryMask[i] | 1<<63)
		}
		forEachSetBit(i, w&d.OrAll[i], f)
	}
}

// ForEachAbsVaryingBit iterates over each varying bit of the absolute values
// (sign excluded).
func (d Distribution) ForEachAbsVaryingBit(f func(word, pos int)) {
	for i := 0; i < 4; i++ {
		w := d.VaryMask[i]
		if i == 3 {
			w &^= 1 << 63
		}
		forEachSetBit(i, w, f)
	}
}

// ForEachVaryingBit iterates over each varying bit, sign included.
func (d Distribution) ForEachVaryingBit(f func(word, pos int)) {
	for i := 0; i < 4; i++ {
		forEachSetBit(i, d.VaryMask[i], f)
	}
}

// MostSignificantAbsBit returns the position of the most significant bit of
// the absolute values. Callers must ensure at least one bit is set.
func (d Distribution) MostSignificantAbsBit() int {
	mask := d.OrAll[3] &^ (1 << 63)
	if mask != 0 {
		return bits.Len64(mask) - 1 + 3*64
	}
	for i := 2; i >= 0; i-- {
		if d.OrAll[i] != 0 {
			return bits.Len64(d.OrAll[i]) - 1 + 64*i
		}
	}
	panic("no bits are set")
}

func forEachSetBit(word int, w uint64, f func(word, pos int)) {
	bs := bitset.From([]uint64{w})
	for pos, ok := bs.NextSet(0); ok; pos, ok = bs.NextSet(pos + 1) {
		f(word, int(pos))
	}
}
