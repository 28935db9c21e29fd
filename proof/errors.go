// Package proof implements the round-structured query proof protocol: the
// prover-side first and final round builders, the verifier-side mirror, the
// sumcheck orchestration, and the provable result encoding. The order of
// produce/consume calls is the protocol transcript; prover and verifier must
// make them in lock-step.
package proof

import "fmt"

// SizeMismatchError reports a proof whose component counts disagree with
// what verification consumed: a miswired gadget or a truncated proof, as
// opposed to a cryptographic rejection.
type SizeMismatchError struct {
	What string
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("proof size mismatch: %s", e.What)
}

// VerificationError reports a proof that is well-formed but fails a protocol
// check. All adversarial inputs surface as this type; verification never
// panics on untrusted data.
type VerificationError struct {
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verification error: %s", e.Reason)
}

func sizeMismatch(what string) error {
	return &SizeMismatchError{What: what}
}

func verificationError(reason string) error {
	return &VerificationError{Reason: reason}
}
