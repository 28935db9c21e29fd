package polynomial

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/scalar"
)

// Product is one weighted product term of a composite polynomial. The
// multiplicand indices refer into the flattened MLE list.
type Product struct {
	Coefficient   fr.Element
	Multiplicands []int
}

// Composite stores a list of products of dense multilinear extensions meant
// to be added together:
//
//	sum_i c_i * prod_j P_{i,j}
//
// MLEs shared between products are stored once; AddProduct deduplicates by
// slice identity.
type Composite struct {
	// MaxMultiplicands is the max number of multiplicands in any product,
	// i.e. the degree of the round polynomials.
	MaxMultiplicands int
	NumVariables     int
	Products         []Product
	FlattenedMLEs    [][]fr.Element

	mleIndex map[*fr.Element]int
}

// NewComposite returns an empty composite polynomial over numVariables
// variables.
func NewComposite(numVariables int) *Composite {
	return &Composite{
		NumVariables: numVariables,
		mleIndex:     make(map[*fr.Element]int),
	}
}

// AddProduct appends the product of the given MLEs, weighted by coefficient.
// Each MLE must have length 2^NumVariables.
func (c *Composite) AddProduct(coefficient fr.Element, mles ...[]fr.Element) {
	if len(mles) == 0 {
		panic("product must have at least one multiplicand")
	}
	c.MaxMultiplicands = max(c.MaxMultiplicands, len(mles))
	indices := make([]int, 0, len(mles))
	for _, m := range mles {
		key := &m[0]
		idx, ok := c.mleIndex[key]
		if !ok {
			idx = len(c.FlattenedMLEs)
			c.FlattenedMLEs = append(c.FlattenedMLEs, m)
			c.mleIndex[key] = idx
		}
		indices = append(indices, idx)
	}
	c.Products = append(c.Products, Product{Coefficient: coefficient, Multiplicands: indices})
}

// Evaluate computes the composite polynomial at the given point. Intended for
// tests and cross-checks; the hot path goes through sumcheck.
func (c *Composite) Evaluate(point []fr.Element) fr.Element {
	evaluationVec := make([]fr.Element, 1<<c.NumVariables)
	ComputeEvaluationVector(evaluationVec, point)

	var result, term fr.Element
	for _, p := range c.Products {
		term.Set(&p.Coefficient)
		for _, idx := range p.Multiplicands {
			e := scalar.InnerProduct(evaluationVec, c.FlattenedMLEs[idx])
			term.Mul(&term, &e)
		}
		result.Add(&result, &term)
	}
	return result
}
