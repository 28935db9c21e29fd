package commitment

import "github.com/verifiabledb/sqlproofs/database"

// QueryCommitments is the verifier's view of the database: the column
// commitments of every table a query touches.
type QueryCommitments[C any] map[database.TableRef]ColumnCommitments[C]

// CommitmentOf looks up the commitment of a column in a table.
func (qc QueryCommitments[C]) CommitmentOf(table database.TableRef, ident string) (C, bool) {
	cc, ok := qc[table]
	if !ok {
		var zero C
		return zero, false
	}
	return cc.CommitmentOf(ident)
}

// MetadataOf looks up the metadata of a column in a table.
func (qc QueryCommitments[C]) MetadataOf(table database.TableRef, ident string) (ColumnCommitmentMetadata, bool) {
	cc, ok := qc[table]
	if !ok {
		return ColumnCommitmentMetadata{}, false
	}
	return cc.Metadata().Get(ident)
}
