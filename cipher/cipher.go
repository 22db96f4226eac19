// Package cipher contains the block cipher interface and the ECB block
// plumbing shared by the DES tools.
package cipher

import "github.com/masterkusok/descrack/bits"

// BlockSize is the DES block size in bytes.
const BlockSize = 8

// BlockBits is the DES block size in bits.
const BlockBits = 64

// Block is an interface for entities that encrypt and decrypt a single
// 64-bit block.
type Block interface {
	// Encrypt encrypts a single block.
	Encrypt(block bits.Vector) (bits.Vector, error)

	// Decrypt decrypts a single block.
	Decrypt(block bits.Vector) (bits.Vector, error)
}
