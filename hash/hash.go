// Package hash implements the one-shot digests used alongside the transform:
// Keccak-256 for fingerprints of serialized objects, and BLAKE3 for the
// derivation of PRNG keys.
package hash

import (
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Size is the size in bytes of the digests returned by Sum and Digest.
const Size = 32

// KeySize is the size in bytes of the keys returned by PRNGKey.
const KeySize = 32

// Sum returns the Keccak-256 digest of data, with the Keccak padding
// (domain byte 0x01, rate 1088 bits) rather than the SHA3-256 one.
func Sum(data []byte) (digest [Size]byte) {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	hasher.Sum(digest[:0])
	return
}

// Digest returns the Keccak-256 digest of the serialization of obj.
func Digest(obj io.WriterTo) (digest [Size]byte, err error) {
	hasher := sha3.NewLegacyKeccak256()
	if _, err = obj.WriteTo(hasher); err != nil {
		return digest, fmt.Errorf("%T.WriteTo: %w", obj, err)
	}
	hasher.Sum(digest[:0])
	return
}

// PRNGKey derives a key for sampling.NewKeyedPRNG from the serialization of obj.
func PRNGKey(obj io.WriterTo) (key []byte, err error) {
	hasher := blake3.New()
	if _, err = obj.WriteTo(hasher); err != nil {
		return nil, fmt.Errorf("%T.WriteTo: %w", obj, err)
	}
	return hasher.Sum(nil)[:KeySize], nil
}
