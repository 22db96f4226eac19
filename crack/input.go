package crack

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/cipher"
	"github.com/masterkusok/descrack/errors"
	"github.com/masterkusok/descrack/tables"
)

var numChunkBitsPattern = regexp.MustCompile(`#define NUM_CHUNK_BITS (\d{1,2})`)

// ReadNumChunkBits extracts the NUM_CHUNK_BITS define from an input.h
// generated by the setup tool.
func ReadNumChunkBits(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Annotate(err, "reading %s: %w", path)
	}

	match := numChunkBitsPattern.FindSubmatch(data)
	if match == nil {
		return 0, errors.Annotate(errors.ErrMalformedInput,
			"no NUM_CHUNK_BITS define in %s: %w", path)
	}

	n, err := strconv.Atoi(string(match[1]))
	if err != nil {
		return 0, errors.Annotate(errors.ErrMalformedInput, "%v: %w", err)
	}

	return n, nil
}

// PreprocessPlaintext applies the initial permutation and swaps the halves,
// the state the native checker expects the plaintext in at round entry.
func PreprocessPlaintext(block bits.Vector) (bits.Vector, error) {
	permuted, err := bits.Permute(block, tables.InitialPermutation)
	if err != nil {
		return nil, err
	}

	return bits.Concat(permuted[32:64], permuted[0:32]), nil
}

// PreprocessCiphertext applies the initial permutation only; the checker
// compares against the pre-FP state.
func PreprocessCiphertext(block bits.Vector) (bits.Vector, error) {
	return bits.Permute(block, tables.InitialPermutation)
}

// zipAndFormat renders the 64-wide bitsliced form of a block: entry i is
// bit i repeated sixty-four times, formatted as uint64 literals four per
// line.
func zipAndFormat(block bits.Vector) string {
	var sb strings.Builder
	for i, bit := range block {
		if i%4 == 0 {
			sb.WriteString("    ")
		}

		word := "0000000000000000"
		if bit == 1 {
			word = "ffffffffffffffff"
		}
		sb.WriteString("0x" + word + "LL")

		if i != len(block)-1 {
			sb.WriteString(",")
		}
		if i%4 == 3 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}

	return sb.String()
}

// WriteInput generates input.h for the native checker: the chunk-bit
// define plus the zipped plaintext and ciphertext arrays.
func WriteInput(w io.Writer, plaintextHex, ciphertextHex string, numChunkBits int) error {
	plaintext, err := bits.ParseHex(plaintextHex)
	if err != nil {
		return errors.Annotate(err, "plaintext: %w")
	}
	ciphertext, err := bits.ParseHex(ciphertextHex)
	if err != nil {
		return errors.Annotate(err, "ciphertext: %w")
	}

	if len(plaintext) != cipher.BlockBits {
		return errors.Annotate(errors.ErrLengthMismatch,
			"plaintext must be 16 hex digits: %w")
	}
	if len(ciphertext) != cipher.BlockBits {
		return errors.Annotate(errors.ErrLengthMismatch,
			"ciphertext must be 16 hex digits: %w")
	}

	processedPlaintext, err := PreprocessPlaintext(plaintext)
	if err != nil {
		return err
	}
	processedCiphertext, err := PreprocessCiphertext(ciphertext)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "#define NUM_CHUNK_BITS %d\n\n", numChunkBits)

	sb.WriteString("uint64_t plaintext_zipped[64] = {\n\n")
	fmt.Fprintf(&sb, "    // Unprocessed plaintext: 0x%s\n", plaintextHex)
	sb.WriteString(zipAndFormat(processedPlaintext))
	sb.WriteString("\n};\n\n")

	sb.WriteString("uint64_t ciphertext_zipped[64] = {\n\n")
	fmt.Fprintf(&sb, "    // Unprocessed ciphertext: 0x%s\n", ciphertextHex)
	sb.WriteString(zipAndFormat(processedCiphertext))
	sb.WriteString("\n};")

	_, err = io.WriteString(w, sb.String())
	return errors.Annotate(err, "writing input.h: %w")
}
