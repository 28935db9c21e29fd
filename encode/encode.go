// Package encode implements the canonical byte encoding of provable result
// elements: zigzag varints for integers, length-prefixed UTF-8 for strings,
// fixed 32-byte big-endian for raw field elements. The encoding is part of
// the proof: the result bytes are absorbed into the transcript before any
// challenge is drawn, and the verifier decodes them from untrusted input.
package encode

import (
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/scalar"
)

var (
	// ErrOverflow is returned when a varint does not fit its target type.
	ErrOverflow = errors.New("encoded integer overflows target type")
	// ErrInvalidString is returned for non-UTF-8 string data.
	ErrInvalidString = errors.New("encoded string is not valid UTF-8")
	// ErrMalformed is returned for truncated or otherwise undecodable data.
	ErrMalformed = errors.New("malformed result encoding")
)

// MaxStringLen caps decoded string lengths. Longer strings cannot be
// represented downstream and fail to decode.
const MaxStringLen = math.MaxInt32

// AppendInt64 appends v as a zigzag LEB128 varint.
func AppendInt64(buf []byte, v int64) []byte {
	return binary.AppendUvarint(buf, zigzag64(v))
}

// Int64 decodes a zigzag varint, returning the value and bytes read.
func Int64(data []byte) (int64, int, error) {
	u, n := binary.Uvarint(data)
	if n == 0 {
		return 0, 0, ErrMalformed
	}
	if n < 0 {
		return 0, 0, ErrOverflow
	}
	return unzigzag64(u), n, nil
}

// AppendBool appends a bool as a one-byte varint.
func AppendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// Bool decodes a bool. Any encoding other than 0 or 1 is rejected.
func Bool(data []byte) (bool, int, error) {
	if len(data) == 0 {
		return false, 0, ErrMalformed
	}
	switch data[0] {
	case 0:
		return false, 1, nil
	case 1:
		return true, 1, nil
	default:
		return false, 0, ErrMalformed
	}
}

// AppendInt128 appends v as a 128-bit zigzag LEB128 varint.
func AppendInt128(buf []byte, v scalar.Int128) []byte {
	// zigzag: (v << 1) ^ (v >> 127)
	mask := uint64(v.Hi >> 63)
	hi := (uint64(v.Hi)<<1 | v.Lo>>63) ^ mask
	lo := (v.Lo << 1) ^ mask
	for hi != 0 || lo >= 0x80 {
		buf = append(buf, byte(lo)|0x80)
		lo = lo>>7 | hi<<57
		hi >>= 7
	}
	return append(buf, byte(lo))
}

// Int128 decodes a 128-bit zigzag varint.
func Int128(data []byte) (scalar.Int128, int, error) {
	var hi, lo uint64
	var shift uint
	for i, b := range data {
		if shift > 126 || (shift == 126 && b > 0x03) {
			return scalar.Int128{}, 0, ErrOverflow
		}
		v := uint64(b & 0x7f)
		if shift < 64 {
			lo |= v << shift
			if shift > 57 {
				hi |= v >> (64 - shift)
			}
		} else {
			hi |= v << (shift - 64)
		}
		if b < 0x80 {
			mask := -(lo & 1)
			ulo := lo>>1 | hi<<63
			uhi := hi >> 1
			return scalar.Int128{Hi: int64(uhi ^ mask), Lo: ulo ^ mask}, i + 1, nil
		}
		shift += 7
	}
	return scalar.Int128{}, 0, ErrMalformed
}

// AppendString appends a length-prefixed UTF-8 string.
func AppendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// String decodes a length-prefixed string. Lengths above MaxStringLen and
// invalid UTF-8 are rejected.
func String(data []byte) (string, int, error) {
	n, sz := binary.Uvarint(data)
	if sz <= 0 {
		return "", 0, ErrMalformed
	}
	if n > MaxStringLen {
		return "", 0, ErrMalformed
	}
	end := sz + int(n)
	if end > len(data) {
		return "", 0, ErrMalformed
	}
	s := string(data[sz:end])
	if !utf8.ValidString(s) {
		return "", 0, ErrInvalidString
	}
	return s, end, nil
}

// AppendScalar appends the 32 canonical big-endian bytes of a field element.
func AppendScalar(buf []byte, v *fr.Element) []byte {
	b := v.Bytes()
	return append(buf, b[:]...)
}

// Scalar decodes a canonical 32-byte field element.
func Scalar(data []byte) (fr.Element, int, error) {
	var e fr.Element
	if len(data) < fr.Bytes {
		return e, 0, ErrMalformed
	}
	if err := e.SetBytesCanonical(data[:fr.Bytes]); err != nil {
		return e, 0, ErrMalformed
	}
	return e, fr.Bytes, nil
}

func zigzag64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

func unzigzag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
