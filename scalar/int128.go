package scalar

import "math/big"

// Int128 is a two's-complement signed 128-bit integer, stored as a signed
// high word and an unsigned low word.
type Int128 struct {
	Hi int64
	Lo uint64
}

// Int128FromInt64 widens a 64-bit integer.
func Int128FromInt64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// MinInt128 returns -2^127.
func MinInt128() Int128 {
	return Int128{Hi: -1 << 63, Lo: 0}
}

// MaxInt128 returns 2^127 - 1.
func MaxInt128() Int128 {
	return Int128{Hi: 1<<63 - 1, Lo: ^uint64(0)}
}

// IsNegative reports whether v < 0.
func (v Int128) IsNegative() bool {
	return v.Hi < 0
}

// Cmp returns -1, 0, or 1 depending on whether v is less than, equal to, or
// greater than other.
func (v Int128) Cmp(other Int128) int {
	if v.Hi != other.Hi {
		if v.Hi < other.Hi {
			return -1
		}
		return 1
	}
	if v.Lo != other.Lo {
		if v.Lo < other.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// BigInt returns v as a math/big integer.
func (v Int128) BigInt() *big.Int {
	b := new(big.Int).SetInt64(v.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(v.Lo))
}
