package gadgets

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
)

func TestMultiplicities(t *testing.T) {
	source := [][]fr.Element{elems(1, 2, 2, 3)}
	candidate := [][]fr.Element{elems(2, 2, 1, 1)}

	// duplicate source row 2 counts only at its first occurrence
	got := Multiplicities(source, candidate)
	assert.Equal(t, elems(2, 2, 0, 0), got)
}

func TestMultiplicitiesMultiColumn(t *testing.T) {
	source := [][]fr.Element{elems(1, 1), elems(5, 6)}
	candidate := [][]fr.Element{elems(1, 1, 1), elems(6, 6, 7)}

	// rows are compared across all columns: (1,5) matches nothing, (1,6) twice
	got := Multiplicities(source, candidate)
	assert.Equal(t, elems(0, 2), got)
}

func TestMultiplicitiesEmpty(t *testing.T) {
	assert.Empty(t, Multiplicities([][]fr.Element{{}}, [][]fr.Element{elems(1)}))
	got := Multiplicities([][]fr.Element{elems(1, 2)}, [][]fr.Element{{}})
	assert.Equal(t, elems(0, 0), got)
}
