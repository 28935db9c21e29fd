package proof

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/encode"
	"github.com/verifiabledb/sqlproofs/scalar"
)

// ProvableQueryResult is the intermediate, transcript-bound form of a query
// result: the column count, row count, and the canonical byte encoding of
// the result data, column major. It is decoded from untrusted bytes on the
// verifier side, so it maintains no invariants of its own.
type ProvableQueryResult struct {
	NumColumns uint64 `cbor:"1,keyasint"`
	NumRows    uint64 `cbor:"2,keyasint"`
	Data       []byte `cbor:"3,keyasint"`
}

// NewProvableQueryResult encodes a result table.
func NewProvableQueryResult(table *database.Table) *ProvableQueryResult {
	var data []byte
	for i := 0; i < table.NumColumns(); i++ {
		data = appendColumn(data, table.ColumnAt(i))
	}
	return &ProvableQueryResult{
		NumColumns: uint64(table.NumColumns()),
		NumRows:    uint64(table.NumRows()),
		Data:       data,
	}
}

func appendColumn(data []byte, col *database.Column) []byte {
	switch col.Type() {
	case database.ColumnTypeBoolean:
		for _, v := range col.Bools() {
			data = encode.AppendBool(data, v)
		}
	case database.ColumnTypeSmallInt:
		for _, v := range col.Int16s() {
			data = encode.AppendInt64(data, int64(v))
		}
	case database.ColumnTypeInt:
		for _, v := range col.Int32s() {
			data = encode.AppendInt64(data, int64(v))
		}
	case database.ColumnTypeBigInt, database.ColumnTypeTimestampTZ:
		for _, v := range col.Int64s() {
			data = encode.AppendInt64(data, v)
		}
	case database.ColumnTypeInt128:
		for _, v := range col.Int128s() {
			data = encode.AppendInt128(data, v)
		}
	case database.ColumnTypeScalar:
		for _, v := range col.RawScalars() {
			data = encode.AppendScalar(data, &v)
		}
	case database.ColumnTypeVarChar:
		for _, v := range col.Strings() {
			data = encode.AppendString(data, v)
		}
	}
	return data
}

// ToTable decodes the result against the expected schema. Every decoding
// failure, trailing byte, or count mismatch is an error; the bytes are
// adversarial until proven otherwise.
func (r *ProvableQueryResult) ToTable(fields []database.ColumnField) (*database.Table, error) {
	if r.NumColumns != uint64(len(fields)) {
		return nil, fmt.Errorf("result has %d columns, schema has %d", r.NumColumns, len(fields))
	}
	if r.NumColumns > 0 && r.NumRows > uint64(len(r.Data)) {
		// every element takes at least one byte
		return nil, encode.ErrMalformed
	}
	n := int(r.NumRows)

	names := make([]string, len(fields))
	columns := make([]database.Column, len(fields))
	offset := 0
	for i, field := range fields {
		names[i] = field.Name
		col, read, err := decodeColumn(r.Data[offset:], field.Type, n)
		if err != nil {
			return nil, fmt.Errorf("decoding column %q: %w", field.Name, err)
		}
		columns[i] = col
		offset += read
	}
	if offset != len(r.Data) {
		return nil, encode.ErrMalformed
	}
	return database.NewTable(names, columns)
}

func decodeColumn(data []byte, typ database.ColumnType, n int) (database.Column, int, error) {
	offset := 0
	switch typ {
	case database.ColumnTypeBoolean:
		vals := make([]bool, n)
		for i := range vals {
			v, read, err := encode.Bool(data[offset:])
			if err != nil {
				return database.Column{}, 0, err
			}
			vals[i] = v
			offset += read
		}
		return database.NewBooleanColumn(vals), offset, nil
	case database.ColumnTypeSmallInt:
		vals := make([]int16, n)
		for i := range vals {
			v, read, err := encode.Int64(data[offset:])
			if err != nil {
				return database.Column{}, 0, err
			}
			if v < -1<<15 || v > 1<<15-1 {
				return database.Column{}, 0, encode.ErrOverflow
			}
			vals[i] = int16(v)
			offset += read
		}
		return database.NewSmallIntColumn(vals), offset, nil
	case database.ColumnTypeInt:
		vals := make([]int32, n)
		for i := range vals {
			v, read, err := encode.Int64(data[offset:])
			if err != nil {
				return database.Column{}, 0, err
			}
			if v < -1<<31 || v > 1<<31-1 {
				return database.Column{}, 0, encode.ErrOverflow
			}
			vals[i] = int32(v)
			offset += read
		}
		return database.NewIntColumn(vals), offset, nil
	case database.ColumnTypeBigInt, database.ColumnTypeTimestampTZ:
		vals := make([]int64, n)
		for i := range vals {
			v, read, err := encode.Int64(data[offset:])
			if err != nil {
				return database.Column{}, 0, err
			}
			vals[i] = v
			offset += read
		}
		if typ == database.ColumnTypeTimestampTZ {
			return database.NewTimestampTZColumn(vals), offset, nil
		}
		return database.NewBigIntColumn(vals), offset, nil
	case database.ColumnTypeInt128:
		vals := make([]scalar.Int128, n)
		for i := range vals {
			v, read, err := encode.Int128(data[offset:])
			if err != nil {
				return database.Column{}, 0, err
			}
			vals[i] = v
			offset += read
		}
		return database.NewInt128Column(vals), offset, nil
	case database.ColumnTypeScalar:
		vals := make([]fr.Element, n)
		for i := range vals {
			v, read, err := encode.Scalar(data[offset:])
			if err != nil {
				return database.Column{}, 0, err
			}
			vals[i] = v
			offset += read
		}
		return database.NewScalarColumn(vals), offset, nil
	case database.ColumnTypeVarChar:
		vals := make([]string, n)
		for i := range vals {
			v, read, err := encode.String(data[offset:])
			if err != nil {
				return database.Column{}, 0, err
			}
			vals[i] = v
			offset += read
		}
		return database.NewVarCharColumn(vals), offset, nil
	default:
		return database.Column{}, 0, fmt.Errorf("unsupported result column type %v", typ)
	}
}
