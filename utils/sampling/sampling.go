// Package sampling implements sources of random bytes and integers.
//
// The samplers of the package ring consume a PRNG, which is always supplied
// by the caller. Which source is appropriate (SeededPRNG, KeyedPRNG or the
// operating system's source through NewPRNG) is a decision of the calling
// protocol and is never made implicitly by this package.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
)

// RandUint64 return a random value between 0 and 0xFFFFFFFFFFFFFFFF.
func RandUint64() uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}
