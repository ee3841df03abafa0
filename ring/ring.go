// Package ring implements the number-theoretic transform over a prime field
// and the arithmetic of the polynomial rings Z_q[X]/(X^N - 1) and Z_q[X]/(X^N + 1).
package ring

import (
	"fmt"

	"github.com/tuneinsight/latticore/utils"
	"github.com/tuneinsight/latticore/utils/structs"
)

// Ring is a structure that keeps all the variables required to operate on
// polynomials of a given Parameters set. It is read-only after construction
// and can be shared among goroutines.
type Ring struct {
	Field Field

	params Parameters
	table  *NTTTable
	ntt    NumberTheoreticTransformer
}

// NewRing creates a new Ring with the standard sequential NTT.
func NewRing(params Parameters) (r *Ring, err error) {
	return NewRingWithCustomNTT(params, NewNumberTheoreticTransformerStandard)
}

// NewRingWithCustomNTT creates a new Ring whose transforms are performed by the
// NumberTheoreticTransformer returned by factory.
func NewRingWithCustomNTT(params Parameters, factory NumberTheoreticTransformerFactory) (r *Ring, err error) {

	if factory == nil {
		return nil, fmt.Errorf("invalid NumberTheoreticTransformerFactory: nil")
	}

	r = &Ring{Field: params.Field(), params: params}

	switch params.Type() {
	case Cyclic:
		r.table, err = NewNTTTable(r.Field, params.N(), params.Generator())
	case NegaCyclic:
		r.table, err = NewNTTTableNegaCyclic(r.Field, params.N(), params.Generator())
	default:
		err = fmt.Errorf("invalid ring type: %d", params.Type())
	}

	if err != nil {
		return nil, fmt.Errorf("cannot NewRing: %w", err)
	}

	r.ntt = factory(r.Field, r.table)

	return
}

// Parameters returns the Parameters of the ring.
func (r *Ring) Parameters() Parameters {
	return r.params
}

// NTTTable returns the pre-computed constants of the transform.
func (r *Ring) NTTTable() *NTTTable {
	return r.table
}

// N returns the ring degree.
func (r *Ring) N() int {
	return r.params.N()
}

// LogN returns log2 of the ring degree.
func (r *Ring) LogN() int {
	return r.params.LogN()
}

// Modulus returns the modulus q.
func (r *Ring) Modulus() uint64 {
	return r.Field.Modulus
}

// Rank returns the length of module vectors.
func (r *Ring) Rank() int {
	return r.params.Rank()
}

// Type returns the type of the ring.
func (r *Ring) Type() Type {
	return r.params.Type()
}

// NewPoly creates a new polynomial in the coefficient basis with all coefficients set to 0.
func (r *Ring) NewPoly() Poly[Coefficients] {
	return NewPoly[Coefficients](r.N())
}

// NewPolyEvaluations creates a new polynomial in the evaluation basis with all values set to 0.
func (r *Ring) NewPolyEvaluations() Poly[Evaluations] {
	return NewPoly[Evaluations](r.N())
}

// NewVector creates a new vector of Rank polynomials in the coefficient basis.
func (r *Ring) NewVector() structs.Vector[Poly[Coefficients]] {
	return newVector[Coefficients](r.N(), r.Rank())
}

// NewVectorEvaluations creates a new vector of Rank polynomials in the evaluation basis.
func (r *Ring) NewVectorEvaluations() structs.Vector[Poly[Evaluations]] {
	return newVector[Evaluations](r.N(), r.Rank())
}

func newVector[B Basis](N, rank int) structs.Vector[Poly[B]] {
	v := make([]Poly[B], rank)
	for i := range v {
		v[i] = NewPoly[B](N)
	}
	return v
}

// SetCoefficientsInt64 sets the coefficients of pol to the canonical
// representatives of coeffs. Only min(len(coeffs), N) coefficients are set.
func (r *Ring) SetCoefficientsInt64(coeffs []int64, pol Poly[Coefficients]) {
	for i := range utils.Min(len(coeffs), pol.N()) {
		pol.Coeffs[i] = r.Field.FromInt(coeffs[i])
	}
}

// NTT converts p to the evaluation basis in place and returns the result,
// which shares its backing array with p. The handle p is invalidated: its
// coefficients are set to nil so that it cannot be read in the wrong basis.
func (r *Ring) NTT(p *Poly[Coefficients]) (pOut Poly[Evaluations]) {
	coeffs := p.Coeffs
	r.ntt.Forward(coeffs, coeffs)
	p.Coeffs = nil
	return Poly[Evaluations]{Coeffs: coeffs}
}

// INTT converts p to the coefficient basis in place and returns the result,
// which shares its backing array with p. The handle p is invalidated.
func (r *Ring) INTT(p *Poly[Evaluations]) (pOut Poly[Coefficients]) {
	values := p.Coeffs
	r.ntt.Backward(values, values)
	p.Coeffs = nil
	return Poly[Coefficients]{Coeffs: values}
}

// NTTNew returns the evaluation basis representation of p on a newly allocated polynomial.
// The operand is left untouched.
func (r *Ring) NTTNew(p Poly[Coefficients]) (pOut Poly[Evaluations]) {
	pOut = r.NewPolyEvaluations()
	r.ntt.Forward(p.Coeffs, pOut.Coeffs)
	return
}

// INTTNew returns the coefficient basis representation of p on a newly allocated polynomial.
// The operand is left untouched.
func (r *Ring) INTTNew(p Poly[Evaluations]) (pOut Poly[Coefficients]) {
	pOut = r.NewPoly()
	r.ntt.Backward(p.Coeffs, pOut.Coeffs)
	return
}

// NTTVector converts every polynomial of v to the evaluation basis in place.
// The handle v is invalidated.
func (r *Ring) NTTVector(v *structs.Vector[Poly[Coefficients]]) (vOut structs.Vector[Poly[Evaluations]]) {
	vOut = make([]Poly[Evaluations], len(*v))
	for i := range *v {
		vOut[i] = r.NTT(&(*v)[i])
	}
	*v = nil
	return
}

// INTTVector converts every polynomial of v to the coefficient basis in place.
// The handle v is invalidated.
func (r *Ring) INTTVector(v *structs.Vector[Poly[Evaluations]]) (vOut structs.Vector[Poly[Coefficients]]) {
	vOut = make([]Poly[Coefficients], len(*v))
	for i := range *v {
		vOut[i] = r.INTT(&(*v)[i])
	}
	*v = nil
	return
}

// NaturalOrder returns the values of p sorted by evaluation point. For a
// Cyclic ring, the k-th value is p(g^k); for a NegaCyclic ring it is
// p(psi^(2k+1)), where g and psi are the Generator of the parameters.
func (r *Ring) NaturalOrder(p Poly[Evaluations]) []uint64 {
	values := make([]uint64, p.N())
	copy(values, p.Coeffs)
	BitReversePermute(values)
	return values
}

// Evaluate returns p(x) by Horner's rule. The point x must be in canonical form.
func (r *Ring) Evaluate(p Poly[Coefficients], x uint64) (y uint64) {
	f := r.Field
	for i := p.N() - 1; i >= 0; i-- {
		y = f.Add(f.Mul(y, x), p.Coeffs[i])
	}
	return
}
