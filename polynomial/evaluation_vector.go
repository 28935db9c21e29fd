// Package polynomial implements the dense multilinear-extension operations
// the proof layer is built on: evaluation vectors, zero-padded sumcheck
// terms, Lagrange interpolation on a range, and composite polynomials.
package polynomial

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/internal/parallel"
)

// ComputeEvaluationVector fills v with the Lagrange basis evaluations of the
// given point:
//
//	v[b] = prod_j (point[j] if bit j of b else 1 - point[j])
//
// Bit 0 of the index corresponds to point[0]. v may be shorter than
// 2^len(point); the tail is simply not computed.
func ComputeEvaluationVector(v []fr.Element, point []fr.Element) {
	if len(v) == 0 {
		return
	}
	var one fr.Element
	one.SetOne()
	v[0].SetOne()
	for j := range point {
		half := 1 << j
		var notP fr.Element
		notP.Sub(&one, &point[j])
		// high half depends on the low half, so walk backwards
		for b := min(half, len(v)-half) - 1; b >= 0; b-- {
			v[b+half].Mul(&v[b], &point[j])
		}
		for b := min(half, len(v)) - 1; b >= 0; b-- {
			v[b].Mul(&v[b], &notP)
		}
	}
}

// ToSumcheckTerm zero-pads values to the 2^numVars table sumcheck operates on.
func ToSumcheckTerm(numVars int, values []fr.Element) []fr.Element {
	n := 1 << numVars
	if n < len(values) {
		panic("sumcheck term shorter than data")
	}
	out := make([]fr.Element, n)
	copy(out, values)
	return out
}

// MulAdd sets res[i] += multiplier * values[i], in parallel for large slices.
func MulAdd(res []fr.Element, multiplier fr.Element, values []fr.Element) {
	parallel.Execute(len(values), func(begin, end int) {
		var t fr.Element
		for i := begin; i < end; i++ {
			t.Mul(&multiplier, &values[i])
			res[i].Add(&res[i], &t)
		}
	})
}
