// Package gadgets implements the pluggable proof gadgets: reusable
// prover/verifier pairs that feed witness columns and algebraic claims into
// the round builders. Each pair must make its produce/consume calls in
// exactly the same order; the order is the protocol.
package gadgets

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// FoldVals collapses a row of values into one scalar with the Horner scheme
// vals[0]*beta^(k-1) + vals[1]*beta^(k-2) + ... + vals[k-1].
func FoldVals(beta fr.Element, vals ...fr.Element) fr.Element {
	var acc fr.Element
	for i := range vals {
		acc.Mul(&acc, &beta)
		acc.Add(&acc, &vals[i])
	}
	return acc
}

// FoldColumns adds mult times the row-wise fold of the columns to acc:
// acc[i] += mult * FoldVals(beta, columns[0][i], ..., columns[k-1][i]).
// Rows past a column's end contribute zero for that column.
func FoldColumns(acc []fr.Element, mult, beta fr.Element, columns [][]fr.Element) {
	var row, t fr.Element
	for i := range acc {
		row.SetZero()
		for _, col := range columns {
			row.Mul(&row, &beta)
			if i < len(col) {
				row.Add(&row, &col[i])
			}
		}
		t.Mul(&mult, &row)
		acc[i].Add(&acc[i], &t)
	}
}

// onesColumn returns the indicator column of the first n rows.
func onesColumn(n int) []fr.Element {
	col := make([]fr.Element, n)
	for i := range col {
		col[i].SetOne()
	}
	return col
}

// rhoColumn returns the row-index column 0, 1, ..., n-1.
func rhoColumn(n int) []fr.Element {
	col := make([]fr.Element, n)
	for i := range col {
		col[i].SetUint64(uint64(i))
	}
	return col
}
