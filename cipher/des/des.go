// Package des implements the DES block cipher on explicit bit vectors.
package des

import (
	"log"

	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/cipher"
	"github.com/masterkusok/descrack/errors"
	"github.com/masterkusok/descrack/tables"
)

const (
	// KeyBits is the raw DES key size, parity bits included.
	KeyBits = 64

	// SubkeyBits is the size of one round key.
	SubkeyBits = 48

	halfBits  = 32
	numRounds = 16
)

// Config is a configuration structure for [Cipher].
type Config struct {
	// Key is the raw 64-bit key, parity bits included.
	Key bits.Vector

	// Trace receives a round-by-round record of the algorithm.  Nil
	// disables tracing.
	Trace *log.Logger
}

// Cipher is a DES instance with a fixed key schedule.
type Cipher struct {
	subkeys []bits.Vector
	trace   *log.Logger
}

// type check
var _ cipher.Block = (*Cipher)(nil)

// New creates a DES cipher and computes its sixteen subkeys.  c must not be
// nil and c.Key must hold exactly 64 bits.
func New(c *Config) (*Cipher, error) {
	if len(c.Key) != KeyBits {
		return nil, errors.Annotate(errors.ErrLengthMismatch,
			"key is %d bits, want %d: %w", len(c.Key), KeyBits)
	}

	d := &Cipher{trace: c.Trace}

	subkeys, err := d.schedule(c.Key)
	if err != nil {
		return nil, errors.Annotate(err, "key schedule: %w")
	}
	d.subkeys = subkeys

	return d, nil
}

// schedule derives the sixteen 48-bit subkeys: PC1 halves, per-round left
// rotations, PC2.
func (d *Cipher) schedule(key bits.Vector) ([]bits.Vector, error) {
	left, err := bits.Permute(key, tables.PC1Left)
	if err != nil {
		return nil, errors.Annotate(err, "PC1 left: %w")
	}

	right, err := bits.Permute(key, tables.PC1Right)
	if err != nil {
		return nil, errors.Annotate(err, "PC1 right: %w")
	}

	d.tracef("Generating Subkeys:")
	d.tracef("    Initial Key = %s", pretty(key))
	d.tracef("    Left Half  = %s", pretty(left))
	d.tracef("    Right Half = %s", pretty(right))

	subkeys := make([]bits.Vector, 0, numRounds)
	for i := 0; i < numRounds; i++ {
		left = left.RotateLeft(tables.KeyShifts[i])
		right = right.RotateLeft(tables.KeyShifts[i])

		subkey, err := bits.Permute(bits.Concat(left, right), tables.PC2)
		if err != nil {
			return nil, errors.Annotate(err, "PC2 round %d: %w", i)
		}
		subkeys = append(subkeys, subkey)

		d.tracef("Subkey %d:", i)
		d.tracef("    Shifting key halves to the left by %d bits",
			tables.KeyShifts[i])
		d.tracef("    Left Half  = %s", pretty(left))
		d.tracef("    Right Half = %s", pretty(right))
		d.tracef("    Subkey = %s", pretty(subkey))
	}

	return subkeys, nil
}

// Encrypt encrypts a single 64-bit block.
func (d *Cipher) Encrypt(block bits.Vector) (bits.Vector, error) {
	d.tracef("Encrypting: %s", pretty(block))
	return d.run(block, false)
}

// Decrypt decrypts a single 64-bit block.  Identical to Encrypt except the
// subkeys are applied in reverse order.
func (d *Cipher) Decrypt(block bits.Vector) (bits.Vector, error) {
	d.tracef("Decrypting: %s", pretty(block))
	return d.run(block, true)
}

func (d *Cipher) run(block bits.Vector, reverse bool) (bits.Vector, error) {
	if len(block) != cipher.BlockBits {
		return nil, errors.Annotate(errors.ErrLengthMismatch,
			"block is %d bits, want %d: %w", len(block), cipher.BlockBits)
	}

	permuted, err := bits.Permute(block, tables.InitialPermutation)
	if err != nil {
		return nil, errors.Annotate(err, "initial permutation: %w")
	}
	d.tracef("Initial Permutation: %s", pretty(permuted))

	left := permuted[:halfBits].Clone()
	right := permuted[halfBits:].Clone()

	for i := 0; i < numRounds; i++ {
		subkey := d.subkeys[i]
		if reverse {
			subkey = d.subkeys[numRounds-1-i]
		}

		d.tracef("Round %d:", i)
		d.tracef("    Subkey      = %s", pretty(subkey))
		d.tracef("    Left Block  = %s", pretty(left))
		d.tracef("    Right Block = %s", pretty(right))

		mixed, err := d.feistel(right, subkey)
		if err != nil {
			return nil, errors.Annotate(err, "round %d: %w", i)
		}

		xored, err := bits.XOR(left, mixed)
		if err != nil {
			return nil, errors.Annotate(err, "round %d: %w", i)
		}

		left, right = right, xored
	}

	// The halves are not swapped after the final round; composing R||L
	// before FP swaps them back.
	result, err := bits.Permute(bits.Concat(right, left),
		tables.FinalPermutation)
	if err != nil {
		return nil, errors.Annotate(err, "final permutation: %w")
	}
	d.tracef("After Final Permutation = %s", pretty(result))

	return result, nil
}

// feistel is the DES F function: expand, mix in the subkey, substitute,
// permute.
func (d *Cipher) feistel(half, subkey bits.Vector) (bits.Vector, error) {
	if len(half) != halfBits || len(subkey) != SubkeyBits {
		return nil, errors.Annotate(errors.ErrLengthMismatch,
			"feistel input %d/%d bits: %w", len(half), len(subkey))
	}

	expanded, err := bits.Permute(half, tables.Expansion)
	if err != nil {
		return nil, errors.Annotate(err, "expansion: %w")
	}

	xored, err := bits.XOR(expanded, subkey)
	if err != nil {
		return nil, errors.Annotate(err, "subkey mix: %w")
	}

	substituted := substitute(xored)

	result, err := bits.Permute(substituted, tables.Permutation)
	if err != nil {
		return nil, errors.Annotate(err, "permutation: %w")
	}

	d.tracef("    Feistel(Right Block, Subkey):")
	d.tracef("        Expand(Right Block)       = %s", pretty(expanded))
	d.tracef("        Expanded(...) XOR Subkey  = %s", pretty(xored))
	d.tracef("        S-Box(...)                = %s", pretty(substituted))
	d.tracef("        Permutation(...) (output) = %s", pretty(result))

	return result, nil
}

// substitute runs the eight 6-bit groups through their S-boxes.  The outer
// bits (first, last) pick the row, the inner four pick the column.
func substitute(v bits.Vector) bits.Vector {
	result := make(bits.Vector, 0, halfBits)
	for group := 0; group < 8; group++ {
		g := v[group*6 : group*6+6]
		row := g[0]<<1 | g[5]
		col := g[1]<<3 | g[2]<<2 | g[3]<<1 | g[4]

		out := tables.SBoxes[group][row][col]
		result = append(result,
			(out>>3)&1, (out>>2)&1, (out>>1)&1, out&1)
	}

	return result
}

func (d *Cipher) tracef(format string, args ...any) {
	if d.trace != nil {
		d.trace.Printf(format, args...)
	}
}

// pretty renders a vector as byte-grouped binary plus hex, matching the
// trace output of the reference tooling.
func pretty(v bits.Vector) string {
	binary := v.Binary()

	var groups []byte
	for i, c := range []byte(binary) {
		if i > 0 && (len(binary)-i)%8 == 0 {
			groups = append(groups, ' ')
		}
		groups = append(groups, c)
	}

	return string(groups) + " (0x" + v.Hex() + ")"
}
