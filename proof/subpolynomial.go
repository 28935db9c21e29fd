package proof

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// SubpolynomialKind says how a subpolynomial claim quantifies over the
// hypercube.
type SubpolynomialKind uint8

const (
	// Identity claims the subpolynomial is zero at every point of the
	// hypercube. Identity claims get multiplied entrywise by the random
	// multiplier column inside sumcheck.
	Identity SubpolynomialKind = iota
	// ZeroSum claims only that the subpolynomial sums to zero over the
	// hypercube.
	ZeroSum
)

func (k SubpolynomialKind) String() string {
	switch k {
	case Identity:
		return "identity"
	case ZeroSum:
		return "zerosum"
	default:
		return "unknown"
	}
}

// Term is one weighted product of witness column references. The
// multiplicand slices are referenced, never copied; they must stay alive and
// unmodified for the duration of the proof.
type Term struct {
	Coefficient   fr.Element
	Multiplicands [][]fr.Element
}

// NewTerm builds a term from a coefficient and its multiplicand columns.
func NewTerm(coefficient fr.Element, multiplicands ...[]fr.Element) Term {
	return Term{Coefficient: coefficient, Multiplicands: multiplicands}
}

// Subpolynomial is one algebraic claim registered by a gadget: a weighted
// sum of products of witness columns, tagged with how it quantifies.
type Subpolynomial struct {
	Kind  SubpolynomialKind
	Terms []Term
}
