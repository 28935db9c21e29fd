// Package scalar lifts typed column data into the BN254 scalar field and
// provides the signed-representative helpers the proof layer builds on.
//
// Signed integers map to field elements using the balanced representative:
// a field element above (q-1)/2 denotes the negative value x - q.
package scalar

import (
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/sha3"
)

var (
	// maxSigned is (q-1)/2, the largest field element treated as non-negative.
	maxSigned fr.Element
	two64     fr.Element
	// offsetMinusModulus holds 2^255 - q as little-endian limbs.
	offsetMinusModulus [4]uint64
)

func init() {
	half := new(big.Int).Rsh(fr.Modulus(), 1)
	maxSigned.SetBigInt(half)
	two64.SetBigInt(new(big.Int).Lsh(big.NewInt(1), 64))

	diff := new(big.Int).Lsh(big.NewInt(1), 255)
	diff.Sub(diff, fr.Modulus())
	for i := range offsetMinusModulus {
		offsetMinusModulus[i] = diff.Uint64()
		diff.Rsh(diff, 64)
	}
}

// MaxSigned returns (q-1)/2.
func MaxSigned() fr.Element {
	return maxSigned
}

// TwoPow64 returns 2^64 as a field element.
func TwoPow64() fr.Element {
	return two64
}

// IsNegative reports whether v encodes a negative value under the balanced
// signed representative.
func IsNegative(v *fr.Element) bool {
	return v.Cmp(&maxSigned) > 0
}

// FromInt64 lifts a signed 64-bit integer into the field.
func FromInt64(v int64) fr.Element {
	var e fr.Element
	e.SetInt64(v)
	return e
}

// FromUint64 lifts an unsigned 64-bit integer into the field.
func FromUint64(v uint64) fr.Element {
	var e fr.Element
	e.SetUint64(v)
	return e
}

// FromBool lifts a boolean into the field.
func FromBool(v bool) fr.Element {
	var e fr.Element
	if v {
		e.SetOne()
	}
	return e
}

// FromString hashes a string into the field. The top three bits of the digest
// are cleared so the result is always canonical.
func FromString(s string) fr.Element {
	digest := sha3.Sum256([]byte(s))
	digest[0] &= 0x1f
	var e fr.Element
	e.SetBytes(digest[:])
	return e
}

// MakeAbsBitMask returns the 256-bit little-endian limb representation of the
// absolute value of v, with bit 255 set when v is negative. The sign occupies
// the top bit; BN254 absolute values fit well below it.
func MakeAbsBitMask(v fr.Element) [4]uint64 {
	neg := IsNegative(&v)
	if neg {
		v.Neg(&v)
	}
	mask := v.Bits()
	if neg {
		mask[3] |= 1 << 63
	}
	return mask
}

// MakeOffsetBitMask returns the 256-bit little-endian limbs of v + 2^255 over
// the integers, with v read as its balanced signed representative. The offset
// keeps the sum non-negative, so the limbs form a plain base-2 integer.
func MakeOffsetBitMask(v fr.Element) [4]uint64 {
	limbs := v.Bits()
	if IsNegative(&v) {
		// canonical + (2^255 - q)
		var carry uint64
		for i := 0; i < 4; i++ {
			limbs[i], carry = bits.Add64(limbs[i], offsetMinusModulus[i], carry)
		}
	} else {
		limbs[3] |= 1 << 63
	}
	return limbs
}

// FromAbsBitMask reconstructs the field element whose absolute-value limbs and
// sign bit are packed per MakeAbsBitMask.
func FromAbsBitMask(mask [4]uint64) fr.Element {
	neg := mask[3]&(1<<63) != 0
	limbs := mask
	limbs[3] &^= 1 << 63
	var e fr.Element
	b := new(big.Int)
	for i := 3; i >= 0; i-- {
		b.Lsh(b, 64)
		b.Or(b, new(big.Int).SetUint64(limbs[i]))
	}
	e.SetBigInt(b)
	if neg {
		e.Neg(&e)
	}
	return e
}
