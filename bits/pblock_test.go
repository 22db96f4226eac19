package bits_test

import (
	"testing"

	"github.com/masterkusok/descrack/bits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermute(t *testing.T) {
	testCases := []struct {
		name    string
		data    bits.Vector
		pblock  bits.PBlock
		want    bits.Vector
		wantErr require.ErrorAssertionFunc
	}{
		{
			name:    "simple_reverse",
			data:    bits.Vector{1, 1, 0, 0, 1, 0, 1, 0},
			pblock:  bits.PBlock{8, 7, 6, 5, 4, 3, 2, 1},
			want:    bits.Vector{0, 1, 0, 1, 0, 0, 1, 1},
			wantErr: require.NoError,
		},
		{
			name:    "identity_mapping",
			data:    bits.Vector{1, 0, 1, 0},
			pblock:  bits.PBlock{1, 2, 3, 4},
			want:    bits.Vector{1, 0, 1, 0},
			wantErr: require.NoError,
		},
		{
			name:    "expansion_repeats_positions",
			data:    bits.Vector{1, 0},
			pblock:  bits.PBlock{2, 1, 2, 1},
			want:    bits.Vector{0, 1, 0, 1},
			wantErr: require.NoError,
		},
		{
			name:    "out_of_range_should_fail",
			data:    bits.Vector{0, 0, 0, 0, 1, 1, 1, 1},
			pblock:  bits.PBlock{9, 10, 11},
			wantErr: require.Error,
		},
		{
			name:    "zero_position_should_fail",
			data:    bits.Vector{1, 0},
			pblock:  bits.PBlock{0, 1},
			wantErr: require.Error,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := bits.Permute(tc.data, tc.pblock)
			tc.wantErr(t, err)

			assert.Equal(t, tc.want, got)
		})
	}
}

func TestInvert(t *testing.T) {
	p := bits.PBlock{3, 1, 4, 2}

	inv, err := p.Invert()
	require.NoError(t, err)
	assert.Equal(t, bits.PBlock{2, 4, 1, 3}, inv)

	// permute then inverse-permute is the identity.
	data := bits.Vector{1, 0, 0, 1}
	permuted, err := bits.Permute(data, p)
	require.NoError(t, err)

	back, err := bits.Permute(permuted, inv)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestInvertNotBijection(t *testing.T) {
	_, err := bits.PBlock{1, 1, 2}.Invert()
	require.Error(t, err)

	_, err = bits.PBlock{1, 5}.Invert()
	require.Error(t, err)
}
