package bits

import (
	"github.com/masterkusok/descrack/errors"
)

// PBlock represents a 1-indexed bit permutation table: positions are in
// [1..n].  A table may name a position more than once (the DES expansion
// does); Invert accepts only bijections.
type PBlock []int

// Permute is a function that applies a P-Block bit permutation to a vector.
// The result length equals len(p).  The input must cover every position the
// table names.
func Permute(v Vector, p PBlock) (Vector, error) {
	result := make(Vector, 0, len(p))
	for idx, pos := range p {
		if pos < 1 || pos > len(v) {
			return nil, errors.Annotate(errors.ErrMalformedInput,
				"pblock out of range: position %d at [%d] for %d bits: %w",
				pos, idx, len(v))
		}

		result = append(result, v[pos-1])
	}

	return result, nil
}

// Invert returns the inverse table of p.  p must be a bijection on
// [1..len(p)].
func (p PBlock) Invert() (PBlock, error) {
	result := make(PBlock, len(p))
	for idx, pos := range p {
		if pos < 1 || pos > len(p) {
			return nil, errors.Annotate(errors.ErrMalformedInput,
				"pblock not a bijection: position %d at [%d]: %w", pos, idx)
		}

		if result[pos-1] != 0 {
			return nil, errors.Annotate(errors.ErrMalformedInput,
				"pblock not a bijection: position %d repeats: %w", pos)
		}

		result[pos-1] = idx + 1
	}

	return result, nil
}
