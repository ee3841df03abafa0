package ring

import (
	"fmt"

	"github.com/tuneinsight/latticore/utils/structs"
)

// Add evaluates p3 = p1 + p2 coefficient-wise. The operation is the same in both bases.
// It panics if an operand does not have N coefficients.
func Add[B Basis](r *Ring, p1, p2, p3 Poly[B]) {
	r.checkN(p1.N(), p2.N(), p3.N())
	r.Field.AddVec(p1.Coeffs, p2.Coeffs, p3.Coeffs)
}

// Sub evaluates p3 = p1 - p2 coefficient-wise. The operation is the same in both bases.
func Sub[B Basis](r *Ring, p1, p2, p3 Poly[B]) {
	r.checkN(p1.N(), p2.N(), p3.N())
	r.Field.SubVec(p1.Coeffs, p2.Coeffs, p3.Coeffs)
}

// Neg evaluates p2 = -p1 coefficient-wise. The operation is the same in both bases.
func Neg[B Basis](r *Ring, p1, p2 Poly[B]) {
	r.checkN(p1.N(), p2.N())
	r.Field.NegVec(p1.Coeffs, p2.Coeffs)
}

// MulScalar evaluates p2 = p1 * scalar coefficient-wise. The operation is the same in both bases.
func MulScalar[B Basis](r *Ring, p1 Poly[B], scalar uint64, p2 Poly[B]) {
	r.checkN(p1.N(), p2.N())
	r.Field.MulScalarVec(p1.Coeffs, r.Field.FromUint(scalar), p2.Coeffs)
}

// MulCoeffs evaluates p3 = p1 * p2 pointwise, which is the product of the
// underlying polynomials in the ring. Any of the operands may alias.
func (r *Ring) MulCoeffs(p1, p2, p3 Poly[Evaluations]) {
	r.checkN(p1.N(), p2.N(), p3.N())
	r.Field.MulVec(p1.Coeffs, p2.Coeffs, p3.Coeffs)
}

// MulCoeffsAndAdd evaluates p3 = p3 + p1 * p2 pointwise.
func (r *Ring) MulCoeffsAndAdd(p1, p2, p3 Poly[Evaluations]) {
	r.checkN(p1.N(), p2.N(), p3.N())
	r.Field.MulThenAddVec(p1.Coeffs, p2.Coeffs, p3.Coeffs)
}

// MulPoly evaluates p3 = p1 * p2 in the ring by transforming both operands,
// multiplying pointwise and transforming back. The operands are left
// untouched and p3 may alias either of them.
func (r *Ring) MulPoly(p1, p2, p3 Poly[Coefficients]) {
	r.checkN(p1.N(), p2.N(), p3.N())
	a := r.NTTNew(p1)
	b := r.NTTNew(p2)
	r.MulCoeffs(a, b, a)
	r.ntt.Backward(a.Coeffs, p3.Coeffs)
}

// MulPolyNaive evaluates p3 = p1 * p2 in the ring by schoolbook multiplication,
// reducing modulo X^N - 1 or X^N + 1 depending on the ring type.
// It is quadratic in N and intended as a reference.
func (r *Ring) MulPolyNaive(p1, p2, p3 Poly[Coefficients]) {

	r.checkN(p1.N(), p2.N(), p3.N())

	f := r.Field
	N := r.N()
	negacyclic := r.Type() == NegaCyclic

	acc := make([]uint64, N)

	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {

			t := f.Mul(p1.Coeffs[i], p2.Coeffs[j])

			k := i + j
			if k >= N {
				k -= N
				if negacyclic {
					t = f.Neg(t)
				}
			}

			acc[k] = f.Add(acc[k], t)
		}
	}

	copy(p3.Coeffs, acc)
}

// InnerProduct evaluates out = sum_i a[i] * b[i] pointwise.
// The vectors must have the same length and out must not alias a[i] or b[i] for i > 0.
func (r *Ring) InnerProduct(a, b structs.Vector[Poly[Evaluations]], out Poly[Evaluations]) {

	if len(a) != len(b) {
		panic(fmt.Errorf("cannot InnerProduct: vectors of length %d and %d", len(a), len(b)))
	}

	if len(a) == 0 {
		out.Zero()
		return
	}

	r.MulCoeffs(a[0], b[0], out)
	for i := 1; i < len(a); i++ {
		r.MulCoeffsAndAdd(a[i], b[i], out)
	}
}

// MulVectorNaive evaluates out = sum_i a[i] * b[i] in the ring with MulPolyNaive.
func (r *Ring) MulVectorNaive(a, b structs.Vector[Poly[Coefficients]], out Poly[Coefficients]) {

	if len(a) != len(b) {
		panic(fmt.Errorf("cannot MulVectorNaive: vectors of length %d and %d", len(a), len(b)))
	}

	acc := r.NewPoly()
	tmp := r.NewPoly()
	for i := range a {
		r.MulPolyNaive(a[i], b[i], tmp)
		Add(r, acc, tmp, acc)
	}

	out.Copy(acc)
}

func (r *Ring) checkN(sizes ...int) {
	for _, n := range sizes {
		if n != r.N() {
			panic(fmt.Errorf("invalid polynomial size: expected %d coefficients but got %d", r.N(), n))
		}
	}
}
