package ring

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/tuneinsight/latticore/utils/sampling"
	"github.com/tuneinsight/latticore/utils/structs"
)

// BoundedSampler wraps a sampling.PRNG and represents the state of a sampler
// of polynomials whose coefficients are uniform in [0, bound).
//
// The sampler owns a buffer of random bytes and is not safe for concurrent use.
type BoundedSampler struct {
	baseRing *Ring
	prng     sampling.PRNG
	bound    uint64
	mask     uint64

	randomBufferN []byte
	ptr           int
}

// NewBoundedSampler creates a new BoundedSampler of coefficients uniform in [0, bound).
// A bound larger than the modulus is accepted: the sampled integers are then
// reduced modulo q and are no longer uniform in the field.
func NewBoundedSampler(prng sampling.PRNG, baseRing *Ring, bound uint64) (s *BoundedSampler, err error) {

	if prng == nil {
		return nil, fmt.Errorf("cannot NewBoundedSampler: prng is nil")
	}

	if baseRing == nil {
		return nil, fmt.Errorf("cannot NewBoundedSampler: ring is nil")
	}

	if bound == 0 {
		return nil, fmt.Errorf("cannot NewBoundedSampler: bound must be at least 1")
	}

	return &BoundedSampler{
		baseRing:      baseRing,
		prng:          prng,
		bound:         bound,
		mask:          (1 << bits.Len64(bound-1)) - 1,
		randomBufferN: make([]byte, 1024),
	}, nil
}

// NewUniformSampler creates a new BoundedSampler of coefficients uniform in [0, q).
func NewUniformSampler(prng sampling.PRNG, baseRing *Ring) (s *BoundedSampler, err error) {
	if baseRing == nil {
		return nil, fmt.Errorf("cannot NewUniformSampler: ring is nil")
	}
	return NewBoundedSampler(prng, baseRing, baseRing.Modulus())
}

// Bound returns the exclusive upper bound of the sampled coefficients.
func (s *BoundedSampler) Bound() uint64 {
	return s.bound
}

// WithPRNG returns a new BoundedSampler with the same ring and bound reading from prng.
func (s *BoundedSampler) WithPRNG(prng sampling.PRNG) *BoundedSampler {
	return &BoundedSampler{
		baseRing:      s.baseRing,
		prng:          prng,
		bound:         s.bound,
		mask:          s.mask,
		randomBufferN: make([]byte, len(s.randomBufferN)),
	}
}

// Read samples every coefficient of pol uniformly in [0, bound) and reduces it modulo q.
// It panics if the PRNG fails.
func (s *BoundedSampler) Read(pol Poly[Coefficients]) {

	f := s.baseRing.Field
	bound, mask := s.bound, s.mask

	buffer := s.randomBufferN
	byteArrayLength := len(buffer)

	var ptr int
	if ptr = s.ptr; ptr == 0 || ptr == byteArrayLength {
		s.refill()
		ptr = 0
	}

	var randomUint uint64

	for i := range pol.Coeffs {

		// Samples an integer in [0, bound-1] by rejection
		for {

			if ptr == byteArrayLength {
				s.refill()
				ptr = 0
			}

			randomUint = binary.BigEndian.Uint64(buffer[ptr:ptr+8]) & mask
			ptr += 8

			if randomUint < bound {
				break
			}
		}

		pol.Coeffs[i] = f.FromUint(randomUint)
	}

	s.ptr = ptr
}

func (s *BoundedSampler) refill() {
	if _, err := s.prng.Read(s.randomBufferN); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
}

// ReadNew generates a new polynomial with coefficients uniform in [0, bound).
func (s *BoundedSampler) ReadNew() (pol Poly[Coefficients]) {
	pol = s.baseRing.NewPoly()
	s.Read(pol)
	return
}

// ReadVector samples every polynomial of v with Read.
func (s *BoundedSampler) ReadVector(v structs.Vector[Poly[Coefficients]]) {
	for i := range v {
		s.Read(v[i])
	}
}

// ReadVectorNew generates a new vector of Rank polynomials with coefficients uniform in [0, bound).
func (s *BoundedSampler) ReadVectorNew() (v structs.Vector[Poly[Coefficients]]) {
	v = s.baseRing.NewVector()
	s.ReadVector(v)
	return
}
