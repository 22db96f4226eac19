package crack_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masterkusok/descrack/crack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadInput(t *testing.T) {
	var buf bytes.Buffer
	err := crack.WriteInput(&buf, "0123456789abcdef", "85e813540f0ab405", 28)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "#define NUM_CHUNK_BITS 28")
	assert.Contains(t, out, "uint64_t plaintext_zipped[64]")
	assert.Contains(t, out, "uint64_t ciphertext_zipped[64]")
	assert.Contains(t, out, "// Unprocessed plaintext: 0x0123456789abcdef")

	// Every array entry is either all-zero or all-one: the zipped layout
	// repeats one bit across a full word.
	entries := strings.Count(out, "0x0000000000000000LL") +
		strings.Count(out, "0xffffffffffffffffLL")
	assert.Equal(t, 128, entries)

	path := filepath.Join(t.TempDir(), "input.h")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	n, err := crack.ReadNumChunkBits(path)
	require.NoError(t, err)
	assert.Equal(t, 28, n)
}

func TestZippedArraysFollowTheBits(t *testing.T) {
	// IP of the all-zero block is all zero, so the plaintext array is 64
	// zero words; all-one likewise.
	var buf bytes.Buffer
	err := crack.WriteInput(&buf, "0000000000000000", "ffffffffffffffff", 24)
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 64, strings.Count(out, "0x0000000000000000LL"))
	assert.Equal(t, 64, strings.Count(out, "0xffffffffffffffffLL"))
}

func TestWriteInputRejectsBadBlocks(t *testing.T) {
	var buf bytes.Buffer

	err := crack.WriteInput(&buf, "0123", "85e813540f0ab405", 28)
	require.Error(t, err)

	err = crack.WriteInput(&buf, "0123456789abcdef", "zz", 28)
	require.Error(t, err)
}

func TestReadNumChunkBitsMissingDefine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.h")
	require.NoError(t, os.WriteFile(path, []byte("uint64_t x[1];"), 0o644))

	_, err := crack.ReadNumChunkBits(path)
	require.Error(t, err)
}

func TestPreprocessPlaintextSwapsHalves(t *testing.T) {
	// The ciphertext form is IP only; the plaintext form additionally
	// swaps the halves.  On a block whose IP image has distinct halves the
	// two must differ by exactly that rotation.
	block := mustHex(t, "0123456789abcdef")

	asPlain, err := crack.PreprocessPlaintext(block)
	require.NoError(t, err)
	asCipher, err := crack.PreprocessCiphertext(block)
	require.NoError(t, err)

	require.Len(t, asPlain, 64)
	require.Len(t, asCipher, 64)
	assert.Equal(t, asCipher[32:], asPlain[:32])
	assert.Equal(t, asCipher[:32], asPlain[32:])
}
