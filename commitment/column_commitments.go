package commitment

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
)

// ColumnCommitments is a collection of column commitments with their
// metadata, ordered by insertion.
//
// The commitments can be updated incrementally: appending rows at an offset,
// extending with new columns, and adding or subtracting other collections.
// Addition and subtraction assume the two collections commit to disjoint row
// ranges; the collection cannot verify this and leaves it as a caller
// precondition.
type ColumnCommitments[C any] struct {
	commitments []C
	metadata    MetadataMap
}

// TryFromColumnsWithOffset commits to all columns, with the data starting at
// the given row offset. Errors on duplicate identifiers.
func TryFromColumnsWithOffset[C any](
	scheme Scheme[C],
	idents []string,
	columns []*database.Column,
	offset int,
) (ColumnCommitments[C], error) {
	metadata, err := MetadataMapFromColumns(idents, columns)
	if err != nil {
		return ColumnCommitments[C]{}, err
	}
	data := make([][]fr.Element, len(columns))
	for i, col := range columns {
		data[i] = col.Scalars()
	}
	return ColumnCommitments[C]{
		commitments: scheme.Commit(data, offset),
		metadata:    metadata,
	}, nil
}

// Len returns the number of columns committed to.
func (cc ColumnCommitments[C]) Len() int { return len(cc.commitments) }

// Commitments returns the commitments in column order.
func (cc ColumnCommitments[C]) Commitments() []C { return cc.commitments }

// Metadata returns the metadata map.
func (cc ColumnCommitments[C]) Metadata() MetadataMap { return cc.metadata }

// CommitmentOf returns the commitment for an identifier.
func (cc ColumnCommitments[C]) CommitmentOf(ident string) (C, bool) {
	idx := cc.metadata.IndexOf(ident)
	if idx < 0 {
		var zero C
		return zero, false
	}
	return cc.commitments[idx], true
}

// TryAppendRowsWithOffset appends rows to all committed columns. The new rows
// must be offset by the number of rows already committed; overlapping offsets
// silently corrupt the commitment. Errors if the column identifiers or types
// do not match the existing collection.
func (cc *ColumnCommitments[C]) TryAppendRowsWithOffset(
	scheme Scheme[C],
	idents []string,
	columns []*database.Column,
	offset int,
) error {
	appended, err := MetadataMapFromColumns(idents, columns)
	if err != nil {
		return err
	}
	merged, err := cc.metadata.TryUnion(appended)
	if err != nil {
		return err
	}
	data := make([][]fr.Element, len(columns))
	for i, col := range columns {
		data[i] = col.Scalars()
	}
	deltas := scheme.Commit(data, offset)
	for i := range cc.commitments {
		cc.commitments[i] = scheme.Add(cc.commitments[i], deltas[i])
	}
	cc.metadata = merged
	return nil
}

// TryExtendColumnsWithOffset adds entirely new columns to the collection.
// Errors if any identifier already exists.
func (cc *ColumnCommitments[C]) TryExtendColumnsWithOffset(
	scheme Scheme[C],
	idents []string,
	columns []*database.Column,
	offset int,
) error {
	for _, ident := range idents {
		if cc.metadata.IndexOf(ident) >= 0 {
			return &DuplicateIdentifiersError{Identifier: ident}
		}
	}
	extension, err := MetadataMapFromColumns(idents, columns)
	if err != nil {
		return err
	}
	data := make([][]fr.Element, len(columns))
	for i, col := range columns {
		data[i] = col.Scalars()
	}
	newCommitments := scheme.Commit(data, offset)

	merged := cc.metadata.clone()
	for _, ident := range extension.idents {
		merged.idents = append(merged.idents, ident)
		merged.meta[ident] = extension.meta[ident]
	}
	cc.commitments = append(cc.commitments, newCommitments...)
	cc.metadata = merged
	return nil
}

// TryAdd combines commitments of two collections over disjoint row ranges.
// The disjointness is an unchecked caller precondition. Errors if the
// collections' columns do not line up.
func (cc ColumnCommitments[C]) TryAdd(scheme Scheme[C], other ColumnCommitments[C]) (ColumnCommitments[C], error) {
	metadata, err := cc.metadata.TryUnion(other.metadata)
	if err != nil {
		return ColumnCommitments[C]{}, err
	}
	summed := make([]C, len(cc.commitments))
	for i := range cc.commitments {
		summed[i] = scheme.Add(cc.commitments[i], other.commitments[i])
	}
	return ColumnCommitments[C]{commitments: summed, metadata: metadata}, nil
}

// TrySub removes other's rows from the collection. Other must commit to a
// subset of cc's rows; this is an unchecked caller precondition. Errors if
// the collections' columns do not line up.
func (cc ColumnCommitments[C]) TrySub(scheme Scheme[C], other ColumnCommitments[C]) (ColumnCommitments[C], error) {
	metadata, err := cc.metadata.TryDifference(other.metadata)
	if err != nil {
		return ColumnCommitments[C]{}, err
	}
	diffed := make([]C, len(cc.commitments))
	for i := range cc.commitments {
		diffed[i] = scheme.Sub(cc.commitments[i], other.commitments[i])
	}
	return ColumnCommitments[C]{commitments: diffed, metadata: metadata}, nil
}
