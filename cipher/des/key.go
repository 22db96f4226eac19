package des

import (
	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/errors"
)

// reducedKeyBits is the effective DES key size once parity is stripped.
const reducedKeyBits = 56

// parityPositions are the 0-based indexes of the parity bits in a 64-bit
// key.  The cipher ignores them.
var parityPositions = [8]int{7, 15, 23, 31, 39, 47, 55, 63}

// ExpandKey inserts zero parity bits into a 56-bit key, producing the
// 64-bit form.
func ExpandKey(key bits.Vector) (bits.Vector, error) {
	if len(key) != reducedKeyBits {
		return nil, errors.Annotate(errors.ErrLengthMismatch,
			"reduced key is %d bits, want %d: %w", len(key), reducedKeyBits)
	}

	result := key.Clone()
	for _, pos := range parityPositions {
		result = append(result, 0)
		copy(result[pos+1:], result[pos:])
		result[pos] = 0
	}

	return result, nil
}

// ReduceKey strips the parity bits from a 64-bit key, producing the 56-bit
// form.
func ReduceKey(key bits.Vector) (bits.Vector, error) {
	if len(key) != KeyBits {
		return nil, errors.Annotate(errors.ErrLengthMismatch,
			"key is %d bits, want %d: %w", len(key), KeyBits)
	}

	result := make(bits.Vector, 0, reducedKeyBits)
	next := 0
	for i, bit := range key {
		if next < len(parityPositions) && i == parityPositions[next] {
			next++
			continue
		}
		result = append(result, bit)
	}

	return result, nil
}

// ParseKey parses a single hex key of 16 digits (64-bit form) or 14 digits
// (56-bit form, parity-expanded with zeros).
func ParseKey(s string) (bits.Vector, error) {
	key, err := bits.ParseHex(s)
	if err != nil {
		return nil, errors.Annotate(err, "key %q: %w", s)
	}

	if len(key) == reducedKeyBits {
		return ExpandKey(key)
	}

	if len(key) != KeyBits {
		return nil, errors.Annotate(errors.ErrLengthMismatch,
			"key %q is %d bits when expanded: %w", s, len(key))
	}

	return key, nil
}
