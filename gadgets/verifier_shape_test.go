package gadgets

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/verifiabledb/sqlproofs/bit"
	"github.com/verifiabledb/sqlproofs/proof"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// shapeBuilder wires a verification builder with exactly the given resource
// counts, so tests can drive gadget verifiers past their ends.
func shapeBuilder(t *testing.T, numFirstRound, numFinal, numSubpolys int, chiLengths, rhoLengths []int, dists []bit.Distribution) *proof.VerificationBuilder {
	t.Helper()
	const rangeLength = 8
	point := elems(3, 5, 7)
	randomScalars := proof.NewSumcheckRandomScalars(elems(2, 4, 6), rangeLength, 3)

	pcsEvals := make([]fr.Element, numFirstRound+numFinal)
	for i := range pcsEvals {
		pcsEvals[i] = scalar.FromInt64(int64(i + 1))
	}
	evals, err := proof.NewSumcheckMleEvaluations(point, randomScalars, pcsEvals, chiLengths, rhoLengths)
	require.NoError(t, err)

	multipliers := make([]fr.Element, numSubpolys)
	for i := range multipliers {
		multipliers[i] = scalar.FromInt64(int64(i + 2))
	}
	inner := make([]fr.Element, len(pcsEvals))
	for i := range inner {
		inner[i] = scalar.FromInt64(int64(i + 3))
	}
	return proof.NewVerificationBuilder(evals, dists, multipliers, inner, nil, numFirstRound, chiLengths, rhoLengths)
}

// Every gadget verifier must fail with a size mismatch, not a panic, when the
// proof carries nothing for it to consume.
func TestGadgetVerifiersRejectEmptyProof(t *testing.T) {
	x := scalar.FromInt64(9)
	cases := []struct {
		name string
		run  func(b *proof.VerificationBuilder) error
	}{
		{"is zero", func(b *proof.VerificationBuilder) error {
			_, err := VerifyIsZero(b, x, x)
			return err
		}},
		{"sign", func(b *proof.VerificationBuilder) error {
			_, err := VerifierEvaluateSign(b, x, x)
			return err
		}},
		{"membership", func(b *proof.VerificationBuilder) error {
			_, err := VerifyMembershipCheck(b, x, x, x, x, []fr.Element{x}, []fr.Element{x})
			return err
		}},
		{"divide modulo", func(b *proof.VerificationBuilder) error {
			_, _, err := VerifyDivideModulo(b, x, x)
			return err
		}},
		{"shift", func(b *proof.VerificationBuilder) error {
			return VerifyShift(b, x, x, x, x, x, x)
		}},
		{"monotonic", func(b *proof.VerificationBuilder) error {
			return VerifyMonotonic(b, x, x, x, x, true, true)
		}},
		{"range check", func(b *proof.VerificationBuilder) error {
			return VerifierEvaluateRangeCheck(b, x, x)
		}},
		{"sort merge join", func(b *proof.VerificationBuilder) error {
			_, err := VerifySortMergeJoin(b, x, x, x, x)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := shapeBuilder(t, 0, 0, 0, nil, nil, nil)
			err := tc.run(b)
			var sm *proof.SizeMismatchError
			require.ErrorAs(t, err, &sm)
		})
	}
}

// One evaluation short of what the gadget consumes: the consuming call past
// the end must fail with a size mismatch.
func TestGadgetVerifiersRejectMissingEvaluation(t *testing.T) {
	x := scalar.FromInt64(9)
	signDist := bit.NewDistribution(elems(1, 2, -5))
	cases := []struct {
		name          string
		numFirstRound int
		numFinal      int
		numSubpolys   int
		dists         []bit.Distribution
		run           func(b *proof.VerificationBuilder) error
	}{
		{"is zero", 0, 1, 2, nil, func(b *proof.VerificationBuilder) error {
			_, err := VerifyIsZero(b, x, x)
			return err
		}},
		{"sign", 0, 3, 5, []bit.Distribution{signDist}, func(b *proof.VerificationBuilder) error {
			_, err := VerifierEvaluateSign(b, x, x)
			return err
		}},
		{"membership", 1, 1, 3, nil, func(b *proof.VerificationBuilder) error {
			_, err := VerifyMembershipCheck(b, x, x, x, x, []fr.Element{x}, []fr.Element{x})
			return err
		}},
		{"divide modulo", 0, 1, 1, nil, func(b *proof.VerificationBuilder) error {
			_, _, err := VerifyDivideModulo(b, x, x)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := shapeBuilder(t, tc.numFirstRound, tc.numFinal, tc.numSubpolys, nil, nil, tc.dists)
			err := tc.run(b)
			var sm *proof.SizeMismatchError
			require.ErrorAs(t, err, &sm)
		})
	}
}

// One evaluation more than the gadget consumes: the gadget itself succeeds,
// and the completion check flags the leftover.
func TestGadgetVerifiersRejectSurplusEvaluation(t *testing.T) {
	x := scalar.FromInt64(9)
	signDist := bit.NewDistribution(elems(1, 2, -5))
	cases := []struct {
		name          string
		numFirstRound int
		numFinal      int
		numSubpolys   int
		dists         []bit.Distribution
		run           func(b *proof.VerificationBuilder) error
	}{
		{"is zero", 0, 3, 2, nil, func(b *proof.VerificationBuilder) error {
			_, err := VerifyIsZero(b, x, x)
			return err
		}},
		{"sign", 0, 5, 5, []bit.Distribution{signDist}, func(b *proof.VerificationBuilder) error {
			_, err := VerifierEvaluateSign(b, x, x)
			return err
		}},
		{"membership", 1, 3, 3, nil, func(b *proof.VerificationBuilder) error {
			_, err := VerifyMembershipCheck(b, x, x, x, x, []fr.Element{x}, []fr.Element{x})
			return err
		}},
		{"divide modulo", 0, 3, 1, nil, func(b *proof.VerificationBuilder) error {
			_, _, err := VerifyDivideModulo(b, x, x)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := shapeBuilder(t, tc.numFirstRound, tc.numFinal, tc.numSubpolys, nil, nil, tc.dists)
			require.NoError(t, tc.run(b))
			err := b.CheckCompleted()
			var sm *proof.SizeMismatchError
			require.ErrorAs(t, err, &sm)
		})
	}
}
