// Package keyspace enumerates the key-bit prefixes handed out as search
// tasks.
package keyspace

import (
	"fmt"
	"strings"

	v "github.com/asaskevich/govalidator"
	"github.com/masterkusok/descrack/errors"
)

// ErrInvalidConfig is being returned if config passed to the enumerator
// constructor is invalid.
const ErrInvalidConfig = errors.ConstError("invalid keyspace config")

// effectiveKeyBits is the DES key size without parity.
const effectiveKeyBits = 56

// Config is a configuration structure for [Enumerator].
type Config struct {
	// NumChunkBits is the suffix width searched by the native checker,
	// in [6..56].
	NumChunkBits int `valid:"required,range(6|56)"`

	// Prefix is the known leading key bits, a string over {'0','1'}.
	Prefix string
}

// Enumerator emits, in ascending numeric order, every task string
// Prefix + binary(n, width) for width = 56 - NumChunkBits - len(Prefix).
// It is finite, duplicate-free and restartable from the same parameters.
type Enumerator struct {
	prefix string
	width  int
	next   uint64
	total  uint64
}

// New validates the parameters and positions the enumerator at the first
// task.
func New(config *Config) (*Enumerator, error) {
	ok, err := v.ValidateStruct(config)
	if err != nil {
		return nil, fmt.Errorf("initialize enumerator: %w", err)
	}

	if !ok {
		return nil, ErrInvalidConfig
	}

	if strings.Trim(config.Prefix, "01") != "" {
		return nil, errors.Annotate(errors.ErrMalformedInput,
			"prefix %q must be binary: %w", config.Prefix)
	}

	width := effectiveKeyBits - config.NumChunkBits - len(config.Prefix)
	if width < 0 {
		return nil, errors.Annotate(ErrInvalidConfig,
			"prefix of %d bits leaves no room under %d chunk bits: %w",
			len(config.Prefix), config.NumChunkBits)
	}

	return &Enumerator{
		prefix: config.Prefix,
		width:  width,
		total:  1 << width,
	}, nil
}

// Next returns the next task string, or ok=false once the space is
// exhausted.
func (e *Enumerator) Next() (task string, ok bool) {
	if e.next >= e.total {
		return "", false
	}

	n := e.next
	e.next++

	if e.width == 0 {
		return e.prefix, true
	}

	return e.prefix + fmt.Sprintf("%0*b", e.width, n), true
}

// Remaining returns how many tasks have not been yielded yet.
func (e *Enumerator) Remaining() uint64 {
	return e.total - e.next
}
