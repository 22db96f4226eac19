// Package tripledes implements the Triple DES (EDE) cascade over the DES
// core, including the two-key keying option.
package tripledes

import (
	"log"

	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/cipher"
	"github.com/masterkusok/descrack/cipher/des"
	"github.com/masterkusok/descrack/errors"
)

// Config is a configuration structure for [Cipher].
type Config struct {
	// KeyString is the hex key material: a multiple of 16 digits (64-bit
	// keys) or of 14 digits (56-bit keys, parity-expanded).  One key is
	// plain DES; two keys select keying option 2 (key 3 = key 1); three
	// keys are full 3DES.
	KeyString string

	// Trace is handed down to every DES round.  Nil disables tracing.
	Trace *log.Logger
}

// Cipher is a DES / 3DES cascade.
type Cipher struct {
	keys  []bits.Vector
	trace *log.Logger
}

// Round is the output of one cascade stage.
type Round struct {
	// Decrypt reports whether this stage ran the DES decrypt direction.
	Decrypt bool

	// Blocks is the full block set after the stage.
	Blocks []bits.Vector
}

// New parses the key material and builds the cascade.  c must not be nil.
func New(c *Config) (*Cipher, error) {
	keys, err := parseKeys(c.KeyString)
	if err != nil {
		return nil, err
	}

	return &Cipher{keys: keys, trace: c.Trace}, nil
}

// parseKeys splits the key string into 1 or 3 keys, applying keying
// option 2 when exactly two are given.
func parseKeys(keyString string) ([]bits.Vector, error) {
	var subkeyLength int
	switch {
	case len(keyString) > 0 && len(keyString)%16 == 0:
		subkeyLength = 16
	case len(keyString)%14 == 0 && len(keyString) > 0:
		subkeyLength = 14
	default:
		return nil, errors.Annotate(errors.ErrMalformedInput,
			"key length for %q must be a multiple of 14 or 16, was %d: %w",
			keyString, len(keyString))
	}

	keys := make([]bits.Vector, 0, 3)
	for i := 0; i+subkeyLength <= len(keyString); i += subkeyLength {
		key, err := des.ParseKey(keyString[i : i+subkeyLength])
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	if len(keys) == 2 {
		// Keying option 2: key 3 = key 1.
		keys = append(keys, keys[0])
	}

	if len(keys) != 1 && len(keys) != 3 {
		return nil, errors.Annotate(errors.ErrMalformedInput,
			"%d keys in %q, want 1, 2 or 3: %w", len(keys), keyString)
	}

	return keys, nil
}

// Rounds returns the number of cascade stages (1 or 3).
func (c *Cipher) Rounds() int {
	return len(c.keys)
}

// Run applies the cascade to blocks and returns the block set after every
// stage; the last entry is the final result.  Stage j alternates the DES
// direction (EDE / DED); decrypt reverses the key order and flips every
// stage.
func (c *Cipher) Run(blocks []bits.Vector, decrypt bool) ([]Round, error) {
	keys := c.keys
	if decrypt {
		keys = make([]bits.Vector, 0, len(c.keys))
		for i := len(c.keys) - 1; i >= 0; i-- {
			keys = append(keys, c.keys[i])
		}
	}

	rounds := make([]Round, 0, len(keys))
	for j, key := range keys {
		stage, err := des.New(&des.Config{Key: key, Trace: c.trace})
		if err != nil {
			return nil, errors.Annotate(err, "round %d: %w", j)
		}

		stageDecrypt := decrypt != (j%2 == 1)
		blocks, err = cipher.ECB(stage, blocks, stageDecrypt)
		if err != nil {
			return nil, errors.Annotate(err, "round %d: %w", j)
		}

		rounds = append(rounds, Round{Decrypt: stageDecrypt, Blocks: blocks})
	}

	return rounds, nil
}

// Process is Run keeping only the final block set.
func (c *Cipher) Process(blocks []bits.Vector, decrypt bool) ([]bits.Vector, error) {
	rounds, err := c.Run(blocks, decrypt)
	if err != nil {
		return nil, err
	}

	return rounds[len(rounds)-1].Blocks, nil
}
