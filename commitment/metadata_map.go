package commitment

import (
	"github.com/verifiabledb/sqlproofs/database"
)

// MetadataMap maps column identifiers to their commitment metadata,
// preserving insertion order. Two maps are only compatible when they hold the
// same identifiers in the same order.
type MetadataMap struct {
	idents []string
	meta   map[string]ColumnCommitmentMetadata
}

// NewMetadataMap returns an empty map.
func NewMetadataMap() MetadataMap {
	return MetadataMap{meta: make(map[string]ColumnCommitmentMetadata)}
}

// MetadataMapFromColumns analyzes the given columns. Errors on duplicate
// identifiers.
func MetadataMapFromColumns(idents []string, columns []*database.Column) (MetadataMap, error) {
	m := NewMetadataMap()
	for i, ident := range idents {
		if _, dup := m.meta[ident]; dup {
			return MetadataMap{}, &DuplicateIdentifiersError{Identifier: ident}
		}
		m.idents = append(m.idents, ident)
		m.meta[ident] = MetadataFromColumn(columns[i])
	}
	return m, nil
}

// Len returns the number of columns described.
func (m MetadataMap) Len() int { return len(m.idents) }

// Idents returns the identifiers in insertion order.
func (m MetadataMap) Idents() []string { return m.idents }

// Get returns the metadata for an identifier.
func (m MetadataMap) Get(ident string) (ColumnCommitmentMetadata, bool) {
	md, ok := m.meta[ident]
	return md, ok
}

// IndexOf returns the position of an identifier, or -1.
func (m MetadataMap) IndexOf(ident string) int {
	for i, id := range m.idents {
		if id == ident {
			return i
		}
	}
	return -1
}

func (m MetadataMap) clone() MetadataMap {
	out := MetadataMap{
		idents: append([]string(nil), m.idents...),
		meta:   make(map[string]ColumnCommitmentMetadata, len(m.meta)),
	}
	for k, v := range m.meta {
		out.meta[k] = v
	}
	return out
}

func (m MetadataMap) matchIdents(other MetadataMap) error {
	if len(m.idents) != len(other.idents) {
		return &ColumnCommitmentsMismatchError{Reason: "different number of columns"}
	}
	for i, ident := range m.idents {
		if other.idents[i] != ident {
			return &ColumnCommitmentsMismatchError{
				Reason: "column " + ident + " missing or out of order in other collection",
			}
		}
	}
	return nil
}

// TryUnion combines the maps as if the source tables are being concatenated
// row-wise. Errors if identifiers or column types do not line up.
func (m MetadataMap) TryUnion(other MetadataMap) (MetadataMap, error) {
	if err := m.matchIdents(other); err != nil {
		return MetadataMap{}, err
	}
	out := NewMetadataMap()
	for _, ident := range m.idents {
		merged, err := m.meta[ident].TryUnion(other.meta[ident])
		if err != nil {
			return MetadataMap{}, &ColumnCommitmentsMismatchError{Reason: "column " + ident, Err: err}
		}
		out.idents = append(out.idents, ident)
		out.meta[ident] = merged
	}
	return out, nil
}

// TryDifference combines the maps as if other's rows are being removed from
// m's source table. Errors if identifiers or column types do not line up.
func (m MetadataMap) TryDifference(other MetadataMap) (MetadataMap, error) {
	if err := m.matchIdents(other); err != nil {
		return MetadataMap{}, err
	}
	out := NewMetadataMap()
	for _, ident := range m.idents {
		diffed, err := m.meta[ident].TryDifference(other.meta[ident])
		if err != nil {
			return MetadataMap{}, &ColumnCommitmentsMismatchError{Reason: "column " + ident, Err: err}
		}
		out.idents = append(out.idents, ident)
		out.meta[ident] = diffed
	}
	return out, nil
}
