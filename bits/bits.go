// Package bits contains common functions for working with bit vectors.
package bits

import (
	"strings"

	"github.com/masterkusok/descrack/errors"
)

// byteSize is a number of bits that fit in one byte.
const byteSize = 8

const hexDigits = "0123456789abcdef"

// Vector is an ordered sequence of single bits.  Index 0 is the leftmost,
// most significant bit.  Every element is 0 or 1.
type Vector []byte

// ParseHex is a function that expands a hex string into a Vector, four bits
// per digit MSB-first.  An optional "0x" prefix is stripped.
func ParseHex(s string) (Vector, error) {
	s = strings.TrimPrefix(s, "0x")

	result := make(Vector, 0, len(s)*4)
	for _, r := range s {
		num := strings.IndexRune(hexDigits, r)
		if num < 0 {
			num = strings.IndexRune("0123456789ABCDEF", r)
		}
		if num < 0 {
			return nil, errors.Annotate(errors.ErrMalformedInput,
				"hex digit %q: %w", r)
		}

		result = append(result,
			byte(num>>3)&1, byte(num>>2)&1, byte(num>>1)&1, byte(num)&1)
	}

	return result, nil
}

// ParseBinary is a function that converts a string over {'0','1'} into a
// Vector, one bit per character.
func ParseBinary(s string) (Vector, error) {
	result := make(Vector, 0, len(s))
	for _, r := range s {
		switch r {
		case '0':
			result = append(result, 0)
		case '1':
			result = append(result, 1)
		default:
			return nil, errors.Annotate(errors.ErrMalformedInput,
				"binary digit %q: %w", r)
		}
	}

	return result, nil
}

// FromASCII converts raw bytes into a Vector, eight bits per byte MSB-first.
func FromASCII(data []byte) Vector {
	result := make(Vector, 0, len(data)*byteSize)
	for _, b := range data {
		for i := byteSize - 1; i >= 0; i-- {
			result = append(result, (b>>i)&1)
		}
	}

	return result
}

// Hex returns the lowercase hex form of v without a prefix.  The vector is
// left-padded with zero bits up to a multiple of four.
func (v Vector) Hex() string {
	padded := v
	if pad := (4 - len(v)%4) % 4; pad != 0 {
		padded = make(Vector, pad, pad+len(v))
		padded = append(padded, v...)
	}

	var sb strings.Builder
	sb.Grow(len(padded) / 4)
	for i := 0; i < len(padded); i += 4 {
		digit := padded[i]<<3 | padded[i+1]<<2 | padded[i+2]<<1 | padded[i+3]
		sb.WriteByte(hexDigits[digit])
	}

	return sb.String()
}

// ASCII packs v into bytes, eight bits per byte MSB-first.  The length must
// be a multiple of eight.
func (v Vector) ASCII() ([]byte, error) {
	if len(v)%byteSize != 0 {
		return nil, errors.Annotate(errors.ErrLengthMismatch,
			"%d bits do not pack into bytes: %w", len(v))
	}

	result := make([]byte, 0, len(v)/byteSize)
	for i := 0; i < len(v); i += byteSize {
		var b byte
		for j := 0; j < byteSize; j++ {
			b = b<<1 | v[i+j]
		}
		result = append(result, b)
	}

	return result, nil
}

// Binary returns v as a string over {'0','1'}.
func (v Vector) Binary() string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, bit := range v {
		sb.WriteByte('0' + bit)
	}

	return sb.String()
}

// Uint64 returns the MSB-first integer value of v.  v must hold at most 64
// bits.
func (v Vector) Uint64() uint64 {
	var result uint64
	for _, bit := range v {
		result = result<<1 | uint64(bit)
	}

	return result
}

// RotateLeft returns v cyclically rotated left by k positions, the MSB end
// wrapping around to the right.
func (v Vector) RotateLeft(k int) Vector {
	if len(v) == 0 {
		return Vector{}
	}

	k %= len(v)
	if k < 0 {
		k += len(v)
	}

	result := make(Vector, 0, len(v))
	result = append(result, v[k:]...)
	result = append(result, v[:k]...)

	return result
}

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	result := make(Vector, len(v))
	copy(result, v)

	return result
}

// Concat returns the concatenation of parts into a fresh Vector.
func Concat(parts ...Vector) Vector {
	total := 0
	for _, p := range parts {
		total += len(p)
	}

	result := make(Vector, 0, total)
	for _, p := range parts {
		result = append(result, p...)
	}

	return result
}

// XOR is a function that returns the bitwise XOR of two equal-length
// vectors.
func XOR(a, b Vector) (Vector, error) {
	if len(a) != len(b) {
		return nil, errors.Annotate(errors.ErrLengthMismatch,
			"xor of %d and %d bits: %w", len(a), len(b))
	}

	result := make(Vector, len(a))
	for i := range a {
		result[i] = a[i] ^ b[i]
	}

	return result, nil
}
