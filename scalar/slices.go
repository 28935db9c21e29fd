package scalar

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// FromInt128 lifts a signed 128-bit integer into the field.
func FromInt128(v Int128) fr.Element {
	var e fr.Element
	e.SetBigInt(v.BigInt())
	return e
}

// InnerProduct returns sum_i a[i]*b[i] over the shorter of the two slices.
func InnerProduct(a, b []fr.Element) fr.Element {
	n := min(len(a), len(b))
	var acc, t fr.Element
	for i := 0; i < n; i++ {
		t.Mul(&a[i], &b[i])
		acc.Add(&acc, &t)
	}
	return acc
}

// AddConst returns a copy of s with c added to every entry.
func AddConst(s []fr.Element, c fr.Element) []fr.Element {
	out := make([]fr.Element, len(s))
	for i := range s {
		out[i].Add(&s[i], &c)
	}
	return out
}

// Sum returns the sum of all entries.
func Sum(s []fr.Element) fr.Element {
	var acc fr.Element
	for i := range s {
		acc.Add(&acc, &s[i])
	}
	return acc
}

// MulAddAssign sets acc[i] += m * s[i] for every entry of s.
func MulAddAssign(acc []fr.Element, m fr.Element, s []fr.Element) {
	var t fr.Element
	for i := range s {
		t.Mul(&m, &s[i])
		acc[i].Add(&acc[i], &t)
	}
}

// BatchInvert returns the entrywise inverses of s. Zero entries stay zero.
func BatchInvert(s []fr.Element) []fr.Element {
	return fr.BatchInvert(s)
}
