package tables_test

import (
	"testing"

	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermutationsAreMutualInverses(t *testing.T) {
	inv, err := tables.InitialPermutation.Invert()
	require.NoError(t, err)

	assert.Equal(t, tables.FinalPermutation, inv)
}

func TestTableShapes(t *testing.T) {
	testCases := []struct {
		name   string
		pblock bits.PBlock
		length int
		max    int
	}{
		{"initial_permutation", tables.InitialPermutation, 64, 64},
		{"final_permutation", tables.FinalPermutation, 64, 64},
		{"expansion", tables.Expansion, 48, 32},
		{"permutation", tables.Permutation, 32, 32},
		{"pc1_left", tables.PC1Left, 28, 64},
		{"pc1_right", tables.PC1Right, 28, 64},
		{"pc2", tables.PC2, 48, 56},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Len(t, tc.pblock, tc.length)
			for _, pos := range tc.pblock {
				assert.GreaterOrEqual(t, pos, 1)
				assert.LessOrEqual(t, pos, tc.max)
			}
		})
	}
}

func TestPC1SkipsParityBits(t *testing.T) {
	// Positions 8, 16, ..., 64 are the key parity bits.  PC1 never selects
	// them.
	for _, half := range []bits.PBlock{tables.PC1Left, tables.PC1Right} {
		for _, pos := range half {
			assert.NotZero(t, pos%8, "parity position %d selected", pos)
		}
	}
}

func TestSBoxRowsArePermutations(t *testing.T) {
	for i, box := range tables.SBoxes {
		for r, row := range box {
			var seen [16]bool
			for _, v := range row {
				require.Less(t, int(v), 16)
				assert.False(t, seen[v], "sbox %d row %d repeats %d", i, r, v)
				seen[v] = true
			}
		}
	}
}
