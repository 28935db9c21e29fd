// Package commitment implements incremental, homomorphic column commitments
// and the metadata (types and value bounds) that travels with them.
package commitment

import (
	"errors"
	"fmt"
)

// ErrNegativeBounds is returned when constructing bounds with min > max.
var ErrNegativeBounds = errors.New("cannot construct bounds where min is greater than max")

// DuplicateIdentifiersError is returned when creating commitments from
// columns with repeated identifiers.
type DuplicateIdentifiersError struct {
	Identifier string
}

func (e *DuplicateIdentifiersError) Error() string {
	return fmt.Sprintf("cannot create commitments with duplicate identifier: %s", e.Identifier)
}

// ColumnBoundsMismatchError is returned when combining bounds of different
// column variants.
type ColumnBoundsMismatchError struct {
	A, B ColumnBounds
}

func (e *ColumnBoundsMismatchError) Error() string {
	return fmt.Sprintf("column with bounds %v cannot operate with column with bounds %v", e.A, e.B)
}

// ColumnCommitmentsMismatchError is returned when operating on commitment
// collections that do not line up. Err, when set, carries the per-column
// cause.
type ColumnCommitmentsMismatchError struct {
	Reason string
	Err    error
}

func (e *ColumnCommitmentsMismatchError) Error() string {
	if e.Err != nil {
		return "column commitments mismatch: " + e.Reason + ": " + e.Err.Error()
	}
	return "column commitments mismatch: " + e.Reason
}

func (e *ColumnCommitmentsMismatchError) Unwrap() error { return e.Err }
