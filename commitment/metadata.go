package commitment

import (
	"fmt"

	"github.com/verifiabledb/sqlproofs/database"
)

// InvalidMetadataError is returned when a column type and bounds variant do
// not match.
type InvalidMetadataError struct {
	ColumnType database.ColumnType
	Bounds     ColumnBounds
}

func (e *InvalidMetadataError) Error() string {
	return fmt.Sprintf("column of type %s cannot have bounds like %v", e.ColumnType, e.Bounds)
}

// MetadataMismatchError is returned when operating on metadata of two
// different column types.
type MetadataMismatchError struct {
	A, B database.ColumnType
}

func (e *MetadataMismatchError) Error() string {
	return fmt.Sprintf("column with type %s cannot operate with column with type %s", e.A, e.B)
}

// ColumnCommitmentMetadata is the anonymous metadata associated with a column
// commitment: the column type and the value bounds.
type ColumnCommitmentMetadata struct {
	columnType database.ColumnType
	bounds     ColumnBounds
}

func boundsKindForType(typ database.ColumnType) ColumnBoundsKind {
	switch typ {
	case database.ColumnTypeSmallInt:
		return ColumnBoundsSmallInt
	case database.ColumnTypeInt:
		return ColumnBoundsInt
	case database.ColumnTypeBigInt:
		return ColumnBoundsBigInt
	case database.ColumnTypeInt128:
		return ColumnBoundsInt128
	case database.ColumnTypeTimestampTZ:
		return ColumnBoundsTimestampTZ
	default:
		return ColumnBoundsNoOrder
	}
}

// NewMetadata constructs metadata, validating that the bounds variant matches
// the column type.
func NewMetadata(columnType database.ColumnType, bounds ColumnBounds) (ColumnCommitmentMetadata, error) {
	if bounds.Kind() != boundsKindForType(columnType) {
		return ColumnCommitmentMetadata{}, &InvalidMetadataError{ColumnType: columnType, Bounds: bounds}
	}
	return ColumnCommitmentMetadata{columnType: columnType, bounds: bounds}, nil
}

// MetadataFromColumn analyzes a column and records its type and sharp bounds.
func MetadataFromColumn(col *database.Column) ColumnCommitmentMetadata {
	return ColumnCommitmentMetadata{
		columnType: col.Type(),
		bounds:     ColumnBoundsFromColumn(col),
	}
}

// MetadataWithMaxBounds constructs metadata with the widest possible bounds
// for the column type, for when the data is unavailable.
func MetadataWithMaxBounds(columnType database.ColumnType) ColumnCommitmentMetadata {
	return ColumnCommitmentMetadata{
		columnType: columnType,
		bounds:     MaxColumnBounds(columnType),
	}
}

// ColumnType returns this column's type.
func (m ColumnCommitmentMetadata) ColumnType() database.ColumnType { return m.columnType }

// Bounds returns this column's bounds.
func (m ColumnCommitmentMetadata) Bounds() ColumnBounds { return m.bounds }

// TryUnion combines two metadata as if their source collections are being
// unioned. Errors if the column types differ.
func (m ColumnCommitmentMetadata) TryUnion(other ColumnCommitmentMetadata) (ColumnCommitmentMetadata, error) {
	if m.columnType != other.columnType {
		return ColumnCommitmentMetadata{}, &MetadataMismatchError{A: m.columnType, B: other.columnType}
	}
	// matching column types imply matching bounds variants
	bounds, err := m.bounds.TryUnion(other.bounds)
	if err != nil {
		return ColumnCommitmentMetadata{}, err
	}
	return ColumnCommitmentMetadata{columnType: m.columnType, bounds: bounds}, nil
}

// TryDifference combines two metadata as if their source collections are
// being differenced. Errors if the column types differ.
func (m ColumnCommitmentMetadata) TryDifference(other ColumnCommitmentMetadata) (ColumnCommitmentMetadata, error) {
	if m.columnType != other.columnType {
		return ColumnCommitmentMetadata{}, &MetadataMismatchError{A: m.columnType, B: other.columnType}
	}
	bounds, err := m.bounds.TryDifference(other.bounds)
	if err != nil {
		return ColumnCommitmentMetadata{}, err
	}
	return ColumnCommitmentMetadata{columnType: m.columnType, bounds: bounds}, nil
}
