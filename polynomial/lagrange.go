package polynomial

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// InterpolateEvaluationsAt fits the polynomial f of degree len(values)-1 with
// f(i) = values[i] for i in [0, len(values)-1] and returns f(at).
//
// Uses the barycentric form on integer nodes; no coefficient recovery needed.
func InterpolateEvaluationsAt(at fr.Element, values []fr.Element) fr.Element {
	n := len(values)
	if n == 0 {
		var zero fr.Element
		return zero
	}

	// diffs[i] = at - i; if at lands on a node the evaluation is direct
	diffs := make([]fr.Element, n)
	var iElem fr.Element
	for i := 0; i < n; i++ {
		iElem.SetUint64(uint64(i))
		diffs[i].Sub(&at, &iElem)
		if diffs[i].IsZero() {
			return values[i]
		}
	}

	var prod fr.Element
	prod.SetOne()
	for i := 0; i < n; i++ {
		prod.Mul(&prod, &diffs[i])
	}

	// denoms[i] = (at - i) * i! * (n-1-i)! * (-1)^(n-1-i)
	denoms := make([]fr.Element, n)
	var factorial fr.Element
	factorial.SetOne()
	var k fr.Element
	for i := 0; i < n; i++ {
		if i > 0 {
			k.SetUint64(uint64(i))
			factorial.Mul(&factorial, &k)
		}
		denoms[i].Mul(&diffs[i], &factorial)
	}
	factorial.SetOne()
	for i := n - 1; i >= 0; i-- {
		if i < n-1 {
			k.SetUint64(uint64(n - 1 - i))
			factorial.Mul(&factorial, &k)
		}
		denoms[i].Mul(&denoms[i], &factorial)
		if (n-1-i)%2 == 1 {
			denoms[i].Neg(&denoms[i])
		}
	}

	invs := fr.BatchInvert(denoms)

	var result, t fr.Element
	for i := 0; i < n; i++ {
		t.Mul(&values[i], &invs[i])
		result.Add(&result, &t)
	}
	result.Mul(&result, &prod)
	return result
}
