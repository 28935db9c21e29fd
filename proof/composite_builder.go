package proof

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/polynomial"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// compositeBuilder assembles the single sumcheck polynomial from the
// registered subpolynomial terms. Degree-1 identity terms are folded into
// one shared column so they cost a single product regardless of how many
// gadgets contribute.
type compositeBuilder struct {
	numSumcheckVariables int

	// accumulated coefficients of all degree<=1 identity terms, one slot
	// per row of the entrywise multiplier column
	frMultiplicandsDeg1 []fr.Element
	frMultiplicandsRest []weightedTerm
	zerosumTerms        []weightedTerm

	// entrywise multiplier column, padded to the sumcheck table size
	fr []fr.Element

	padded map[*fr.Element][]fr.Element
}

type weightedTerm struct {
	mult  fr.Element
	terms [][]fr.Element
}

func newCompositeBuilder(numSumcheckVariables int, entrywiseMultipliers []fr.Element) *compositeBuilder {
	if 1<<numSumcheckVariables < len(entrywiseMultipliers) {
		panic("entrywise multiplier column exceeds the sumcheck table")
	}
	return &compositeBuilder{
		numSumcheckVariables: numSumcheckVariables,
		frMultiplicandsDeg1:  make([]fr.Element, len(entrywiseMultipliers)),
		fr:                   polynomial.ToSumcheckTerm(numSumcheckVariables, entrywiseMultipliers),
		padded:               make(map[*fr.Element][]fr.Element),
	}
}

// produceFrMultiplicand registers mult * fr * term1 * ... * termK. An empty
// term list contributes the constant mult under the entrywise column.
func (b *compositeBuilder) produceFrMultiplicand(mult *fr.Element, terms ...[]fr.Element) {
	switch len(terms) {
	case 0:
		for i := range b.frMultiplicandsDeg1 {
			b.frMultiplicandsDeg1[i].Add(&b.frMultiplicandsDeg1[i], mult)
		}
	case 1:
		// columns never exceed the range length, so this writes in bounds
		scalar.MulAddAssign(b.frMultiplicandsDeg1, *mult, terms[0][:min(len(terms[0]), len(b.frMultiplicandsDeg1))])
	default:
		b.frMultiplicandsRest = append(b.frMultiplicandsRest, weightedTerm{mult: *mult, terms: b.dedupPadded(terms)})
	}
}

// produceZerosumMultiplicand registers mult * term1 * ... * termK with no
// entrywise column.
func (b *compositeBuilder) produceZerosumMultiplicand(mult *fr.Element, terms ...[]fr.Element) {
	if len(terms) == 0 {
		panic("zerosum term must have at least one multiplicand")
	}
	b.zerosumTerms = append(b.zerosumTerms, weightedTerm{mult: *mult, terms: b.dedupPadded(terms)})
}

// dedupPadded pads each term to the sumcheck table size, reusing the padded
// copy when the same underlying column appears in several terms.
func (b *compositeBuilder) dedupPadded(terms [][]fr.Element) [][]fr.Element {
	out := make([][]fr.Element, len(terms))
	for i, term := range terms {
		if len(term) == 0 {
			out[i] = make([]fr.Element, 1<<b.numSumcheckVariables)
			continue
		}
		key := &term[0]
		p, ok := b.padded[key]
		if !ok {
			p = polynomial.ToSumcheckTerm(b.numSumcheckVariables, term)
			b.padded[key] = p
		}
		out[i] = p
	}
	return out
}

// makeCompositePolynomial sums every registered term into one composite.
func (b *compositeBuilder) makeCompositePolynomial() *polynomial.Composite {
	res := polynomial.NewComposite(b.numSumcheckVariables)
	var one fr.Element
	one.SetOne()
	res.AddProduct(one, b.fr, polynomial.ToSumcheckTerm(b.numSumcheckVariables, b.frMultiplicandsDeg1))
	for _, wt := range b.frMultiplicandsRest {
		mles := append([][]fr.Element{b.fr}, wt.terms...)
		res.AddProduct(wt.mult, mles...)
	}
	for _, wt := range b.zerosumTerms {
		res.AddProduct(wt.mult, wt.terms...)
	}
	return res
}
