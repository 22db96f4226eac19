package cipher

import (
	"github.com/masterkusok/descrack/bits"
	"github.com/masterkusok/descrack/errors"
)

// SplitBlocks splits raw bytes into 64-bit blocks.  The final group is
// zero-padded up to a full block.
func SplitBlocks(data []byte) []bits.Vector {
	blocks := make([]bits.Vector, 0, (len(data)+BlockSize-1)/BlockSize)
	for i := 0; i < len(data); i += BlockSize {
		end := i + BlockSize
		if end > len(data) {
			end = len(data)
		}

		block := bits.FromASCII(data[i:end])
		for len(block) < BlockBits {
			block = append(block, 0, 0, 0, 0, 0, 0, 0, 0)
		}

		blocks = append(blocks, block)
	}

	return blocks
}

// JoinBlocks packs blocks back into raw bytes.
func JoinBlocks(blocks []bits.Vector) ([]byte, error) {
	result := make([]byte, 0, len(blocks)*BlockSize)
	for _, block := range blocks {
		packed, err := block.ASCII()
		if err != nil {
			return nil, errors.Annotate(err, "packing block: %w")
		}

		result = append(result, packed...)
	}

	return result, nil
}

// ECB applies b independently to every block (pure electronic codebook).
func ECB(b Block, blocks []bits.Vector, decrypt bool) ([]bits.Vector, error) {
	result := make([]bits.Vector, 0, len(blocks))
	for i, block := range blocks {
		var (
			processed bits.Vector
			err       error
		)
		if decrypt {
			processed, err = b.Decrypt(block)
		} else {
			processed, err = b.Encrypt(block)
		}
		if err != nil {
			return nil, errors.Annotate(err, "block %d: %w", i)
		}

		result = append(result, processed)
	}

	return result, nil
}
