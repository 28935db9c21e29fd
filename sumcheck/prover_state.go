// Package sumcheck implements the interactive sumcheck argument over
// composite polynomials, made non-interactive with the shared transcript.
//
// Round i of the protocol fixes the lowest-order remaining variable: the
// tables fold adjacent entries (t[2b], t[2b+1]). The prover's message each
// round is the evaluations of the round polynomial at 0..degree.
package sumcheck

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/polynomial"
)

// ProverState is the mutable state of the sumcheck prover. The flattened MLE
// tables are folded in place as rounds progress.
type ProverState struct {
	Products         []polynomial.Product
	FlattenedMLEs    [][]fr.Element
	NumVars          int
	MaxMultiplicands int

	round      int
	randomness []fr.Element
}

// NewProverState copies the composite polynomial's tables into fresh prover
// state. The copy keeps the caller's MLEs intact across in-place folding.
func NewProverState(poly *polynomial.Composite) *ProverState {
	if poly.NumVariables < 1 {
		panic("sumcheck requires at least one variable")
	}
	mles := make([][]fr.Element, len(poly.FlattenedMLEs))
	for i, m := range poly.FlattenedMLEs {
		mles[i] = append([]fr.Element(nil), m...)
	}
	return &ProverState{
		Products:         poly.Products,
		FlattenedMLEs:    mles,
		NumVars:          poly.NumVariables,
		MaxMultiplicands: poly.MaxMultiplicands,
	}
}

// proveRound advances the prover one round. r is the verifier challenge from
// the previous round; it must be nil exactly in the first round.
func (s *ProverState) proveRound(r *fr.Element) []fr.Element {
	if r != nil {
		if s.round == 0 {
			panic("first round must be prover first")
		}
		s.randomness = append(s.randomness, *r)
		for _, table := range s.FlattenedMLEs {
			fixVariableInPlace(table, *r, s.NumVars-s.round)
		}
	} else if s.round > 0 {
		panic("verifier message is missing")
	}

	s.round++
	if s.round > s.NumVars {
		panic("prover is not active")
	}

	degree := s.MaxMultiplicands
	roundLength := 1 << (s.NumVars - s.round)

	// For each t in 0..=degree, sum over rows b of the product over
	// multiplicands of table[2b]*(1-t) + table[2b+1]*t. The inner loop
	// exploits table[2b]*(1-t) + table[2b+1]*t == table[2b] + t*diff to
	// cost one addition per evaluation.
	sums := make([]fr.Element, degree+1)
	products := make([]fr.Element, degree+1)
	var start, step fr.Element
	for _, p := range s.Products {
		for b := 0; b < roundLength; b++ {
			for t := range products {
				products[t] = p.Coefficient
			}
			for _, idx := range p.Multiplicands {
				table := s.FlattenedMLEs[idx]
				start = table[b<<1]
				step.Sub(&table[b<<1|1], &start)
				for t := 0; t < degree; t++ {
					products[t].Mul(&products[t], &start)
					start.Add(&start, &step)
				}
				products[degree].Mul(&products[degree], &start)
			}
			for t := range sums {
				sums[t].Add(&sums[t], &products[t])
			}
		}
	}
	return sums
}

// fixVariableInPlace folds the lowest variable of the table at r, shrinking
// the live prefix to half.
func fixVariableInPlace(table []fr.Element, r fr.Element, numVars int) {
	if numVars < 1 {
		panic("invalid size of partial point")
	}
	var diff fr.Element
	for b := 0; b < 1<<numVars; b++ {
		left := table[b<<1]
		diff.Sub(&table[b<<1|1], &left)
		diff.Mul(&diff, &r)
		table[b].Add(&left, &diff)
	}
}
