package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	mrand "math/rand/v2"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// PRNG is an interface for the generation of random bytes.
type PRNG interface {
	io.Reader
}

// SeededPRNG is a general-purpose, NON-CRYPTOGRAPHIC generator of bytes
// built on a PCG stream. It is the default source of the package ring samplers:
// it is fast, reproducible from a 64-bit seed, and must not be used to generate
// key material for a deployed protocol.
// WARNING: SeededPRNG should NOT be called by multiple threads.
type SeededPRNG struct {
	seed uint64
	src  *mrand.PCG
	buf  [8]byte
	ptr  int
}

// NewSeededPRNG creates a new SeededPRNG from the given seed.
func NewSeededPRNG(seed uint64) *SeededPRNG {
	return &SeededPRNG{
		seed: seed,
		src:  mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		ptr:  8,
	}
}

// Seed returns the seed used to instantiate the PRNG.
func (prng *SeededPRNG) Seed() uint64 {
	return prng.seed
}

// Read fills sum with pseudo-random bytes. It never returns an error.
func (prng *SeededPRNG) Read(sum []byte) (n int, err error) {
	for n < len(sum) {
		if prng.ptr == 8 {
			binary.LittleEndian.PutUint64(prng.buf[:], prng.src.Uint64())
			prng.ptr = 0
		}
		c := copy(sum[n:], prng.buf[prng.ptr:])
		prng.ptr += c
		n += c
	}
	return
}

// Reset resets the PRNG to its initial state.
func (prng *SeededPRNG) Reset() {
	prng.src.Seed(prng.seed, prng.seed^0x9e3779b97f4a7c15)
	prng.ptr = 8
}

// ThreadSafePRNG reads from the operating system's cryptographically secure source.
type ThreadSafePRNG struct {
}

// NewPRNG returns a new PRNG that is thread-safe.
func NewPRNG() (*ThreadSafePRNG, error) {
	return &ThreadSafePRNG{}, nil
}

// Read reads bytes from crypto/rand on sum.
func (prng *ThreadSafePRNG) Read(sum []byte) (n int, err error) {
	return rand.Read(sum)
}

// KeyedPRNG is a structure storing the parameters used to securely and *deterministically* generate shared
// sequences of random bytes among different parties using the hash function blake2b. Backward sequence
// security (given the digest i, compute the digest i-1) is ensured by default, however forward sequence
// security (given the digest i, compute the digest i+1) is only ensured if the KeyedPRNG is keyed.
// WARNING: KeyedPRNG should NOT be called by multiple threads. It does not make sense to do so as the resulting
// sequence will not be deterministic for a given key.
type KeyedPRNG struct {
	mutex sync.Mutex
	key   []byte
	xof   blake2b.XOF
}

// NewKeyedPRNG creates a new instance of KeyedPRNG.
// Accepts an optional key, else set key=nil which is treated as key=[]byte{}
// WARNING: A PRNG INITIALISED WITH key=nil IS INSECURE!
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	var err error
	prng := new(KeyedPRNG)
	prng.key = make([]byte, len(key))
	copy(prng.key, key)
	prng.xof, err = blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	return prng, err
}

// Key returns a copy of the key used to seed the PRNG.
// This value can be used with `NewKeyedPRNG` to instantiate
// a new PRNG that will produce the same stream of bytes.
func (prng *KeyedPRNG) Key() (key []byte) {
	key = make([]byte, len(prng.key))
	copy(key, prng.key)
	return
}

// Read reads bytes from the KeyedPRNG on sum.
func (prng *KeyedPRNG) Read(sum []byte) (n int, err error) {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	return prng.xof.Read(sum)
}

// Reset resets the PRNG to its initial state.
func (prng *KeyedPRNG) Reset() {
	prng.mutex.Lock()
	defer prng.mutex.Unlock()
	prng.xof.Reset()
}
