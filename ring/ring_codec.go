package ring

import (
	"fmt"

	"github.com/tuneinsight/latticore/utils/buffer"
	"github.com/tuneinsight/latticore/utils/structs"
)

// CheckCanonical returns an error if p does not have N coefficients or if
// one of its coefficients is not a canonical residue in [0, q).
//
// Polynomials produced by the methods of the Ring always pass this check,
// but decoded or user-built ones may not.
func CheckCanonical[B Basis](r *Ring, p Poly[B]) (err error) {

	if p.N() != r.N() {
		return fmt.Errorf("invalid polynomial size: expected %d coefficients but got %d", r.N(), p.N())
	}

	q := r.Modulus()
	for i, c := range p.Coeffs {
		if c >= q {
			return fmt.Errorf("invalid coefficient at index %d: %d is not in [0, %d)", i, c, q)
		}
	}

	return nil
}

// UnmarshalPoly decodes a polynomial of basis B generated by MarshalBinary
// or WriteTo and checks that it is a valid element of the ring with CheckCanonical.
func UnmarshalPoly[B Basis](r *Ring, data []byte) (p Poly[B], err error) {

	if _, err = p.ReadFrom(buffer.NewBuffer(data)); err != nil {
		return Poly[B]{}, err
	}

	if err = CheckCanonical(r, p); err != nil {
		return Poly[B]{}, fmt.Errorf("cannot UnmarshalPoly: %w", err)
	}

	return
}

// UnmarshalVector decodes a vector of polynomials of basis B generated by
// MarshalBinary or WriteTo and checks every polynomial with CheckCanonical.
func UnmarshalVector[B Basis](r *Ring, data []byte) (v structs.Vector[Poly[B]], err error) {

	if err = v.UnmarshalBinary(data); err != nil {
		return nil, err
	}

	for i := range v {
		if err = CheckCanonical(r, v[i]); err != nil {
			return nil, fmt.Errorf("cannot UnmarshalVector: polynomial %d: %w", i, err)
		}
	}

	return
}
