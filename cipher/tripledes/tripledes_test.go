package tripledes_test

import (
	"testing"

	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/cipher"
	"github.com/masterkusok/descrack/cipher/tripledes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(t *testing.T, s string) []bits.Vector {
	t.Helper()
	v, err := bits.ParseHex(s)
	require.NoError(t, err)
	return []bits.Vector{v}
}

func TestThreeKeyRoundtrip(t *testing.T) {
	c, err := tripledes.New(&tripledes.Config{
		KeyString: "0123456789abcdef23456789abcdef01456789abcdef0123",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Rounds())

	plaintext := block(t, "0123456789abcdef")

	encrypted, err := c.Process(plaintext, false)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, encrypted)

	decrypted, err := c.Process(encrypted, true)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestTwoKeyRoundtrip(t *testing.T) {
	c, err := tripledes.New(&tripledes.Config{
		KeyString: "0123456789abcdeffedcba9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Rounds())

	plaintext := block(t, "0123456789abcdef")

	encrypted, err := c.Process(plaintext, false)
	require.NoError(t, err)

	decrypted, err := c.Process(encrypted, true)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestSingleKeyMatchesDES(t *testing.T) {
	c, err := tripledes.New(&tripledes.Config{KeyString: "133457799bbcdff1"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Rounds())

	encrypted, err := c.Process(block(t, "0123456789abcdef"), false)
	require.NoError(t, err)
	assert.Equal(t, "85e813540f0ab405", encrypted[0].Hex())
}

func TestRoundsAlternateDirections(t *testing.T) {
	c, err := tripledes.New(&tripledes.Config{
		KeyString: "0123456789abcdef23456789abcdef01456789abcdef0123",
	})
	require.NoError(t, err)

	rounds, err := c.Run(block(t, "0123456789abcdef"), false)
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	assert.False(t, rounds[0].Decrypt)
	assert.True(t, rounds[1].Decrypt)
	assert.False(t, rounds[2].Decrypt)

	rounds, err = c.Run(block(t, "0123456789abcdef"), true)
	require.NoError(t, err)
	assert.True(t, rounds[0].Decrypt)
	assert.False(t, rounds[1].Decrypt)
	assert.True(t, rounds[2].Decrypt)
}

func TestReducedKeysAccepted(t *testing.T) {
	// Two 56-bit keys, parity-expanded on parse.
	c, err := tripledes.New(&tripledes.Config{
		KeyString: "12695bc9b7b7f812695bc9b7b7f8",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Rounds())
}

func TestBadKeyStrings(t *testing.T) {
	for _, keyString := range []string{"", "123", "0123456789abcde"} {
		_, err := tripledes.New(&tripledes.Config{KeyString: keyString})
		assert.Error(t, err, "key string %q", keyString)
	}
}

func TestFileBlocksRoundtrip(t *testing.T) {
	c, err := tripledes.New(&tripledes.Config{
		KeyString: "0123456789abcdef23456789abcdef01456789abcdef0123",
	})
	require.NoError(t, err)

	data := []byte("zero padded file mode")
	blocks := cipher.SplitBlocks(data)

	encrypted, err := c.Process(blocks, false)
	require.NoError(t, err)

	decrypted, err := c.Process(encrypted, true)
	require.NoError(t, err)

	joined, err := cipher.JoinBlocks(decrypted)
	require.NoError(t, err)
	assert.Equal(t, data, joined[:len(data)])
	for _, b := range joined[len(data):] {
		assert.Zero(t, b)
	}
}
