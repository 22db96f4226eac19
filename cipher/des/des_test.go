package des_test

import (
	"testing"

	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/cipher/des"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) bits.Vector {
	t.Helper()
	v, err := bits.ParseHex(s)
	require.NoError(t, err)
	return v
}

// Known-answer vectors from FIPS 46-3 validation data.
func TestKnownAnswers(t *testing.T) {
	testCases := []struct {
		name       string
		plaintext  string
		key        string
		ciphertext string
	}{
		{
			name:       "classic_walkthrough",
			plaintext:  "0123456789abcdef",
			key:        "133457799bbcdff1",
			ciphertext: "85e813540f0ab405",
		},
		{
			name:       "all_zero",
			plaintext:  "0000000000000000",
			key:        "0000000000000000",
			ciphertext: "8ca64de9c1b123a7",
		},
		{
			name:       "all_one",
			plaintext:  "ffffffffffffffff",
			key:        "ffffffffffffffff",
			ciphertext: "7359b2163e4edc58",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := des.New(&des.Config{Key: mustHex(t, tc.key)})
			require.NoError(t, err)

			encrypted, err := d.Encrypt(mustHex(t, tc.plaintext))
			require.NoError(t, err)
			assert.Equal(t, tc.ciphertext, encrypted.Hex())

			decrypted, err := d.Decrypt(encrypted)
			require.NoError(t, err)
			assert.Equal(t, tc.plaintext, decrypted.Hex())
		})
	}
}

func TestParityBitsAreIgnored(t *testing.T) {
	key := mustHex(t, "133457799bbcdff1")
	plaintext := mustHex(t, "0123456789abcdef")

	d, err := des.New(&des.Config{Key: key})
	require.NoError(t, err)
	want, err := d.Encrypt(plaintext)
	require.NoError(t, err)

	for _, pos := range []int{7, 15, 23, 31, 39, 47, 55, 63} {
		flipped := key.Clone()
		flipped[pos] ^= 1

		d, err := des.New(&des.Config{Key: flipped})
		require.NoError(t, err)

		got, err := d.Encrypt(plaintext)
		require.NoError(t, err)
		assert.Equal(t, want, got, "flipping parity bit %d changed output", pos)
	}
}

func TestWrongSizes(t *testing.T) {
	_, err := des.New(&des.Config{Key: bits.Vector{1, 0, 1}})
	require.Error(t, err)

	d, err := des.New(&des.Config{Key: mustHex(t, "133457799bbcdff1")})
	require.NoError(t, err)

	_, err = d.Encrypt(bits.Vector{1, 0})
	require.Error(t, err)

	_, err = d.Decrypt(bits.Vector{})
	require.Error(t, err)
}

func TestReduceExpandRoundtrip(t *testing.T) {
	key := mustHex(t, "133457799bbcdff1")

	reduced, err := des.ReduceKey(key)
	require.NoError(t, err)
	assert.Equal(t, "12695bc9b7b7f8", reduced.Hex())

	expanded, err := des.ExpandKey(reduced)
	require.NoError(t, err)
	assert.Equal(t, "123456789abcdef0", expanded.Hex())

	// The expanded form differs only in parity bits, so it encrypts
	// identically to the original key.
	plaintext := mustHex(t, "0123456789abcdef")

	d1, err := des.New(&des.Config{Key: key})
	require.NoError(t, err)
	want, err := d1.Encrypt(plaintext)
	require.NoError(t, err)

	d2, err := des.New(&des.Config{Key: expanded})
	require.NoError(t, err)
	got, err := d2.Encrypt(plaintext)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestParseKey(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantHex string
		wantErr require.ErrorAssertionFunc
	}{
		{
			name:    "full_64_bit",
			input:   "133457799bbcdff1",
			wantHex: "133457799bbcdff1",
			wantErr: require.NoError,
		},
		{
			name:    "reduced_56_bit",
			input:   "12695bc9b7b7f8",
			wantHex: "123456789abcdef0",
			wantErr: require.NoError,
		},
		{
			name:    "bad_hex",
			input:   "12695bc9b7b7zz",
			wantErr: require.Error,
		},
		{
			name:    "wrong_width",
			input:   "1234",
			wantErr: require.Error,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			key, err := des.ParseKey(tc.input)
			tc.wantErr(t, err)
			if tc.wantHex != "" {
				assert.Equal(t, tc.wantHex, key.Hex())
			}
		})
	}
}
