package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

// MaxModulusBits is the maximum bit-length of a Field modulus.
const MaxModulusBits = 61

// Field is the prime field Z/qZ. Its elements are uint64 values in
// canonical form, that is, in the range [0, q).
//
// Field is a small value type: it can be copied freely and is safe for
// concurrent use.
type Field struct {
	Modulus      uint64
	BRedConstant [2]uint64
}

// NewField creates a new Field of modulus q.
// Returns an error if q is not a prime or does not fit in MaxModulusBits bits.
func NewField(q uint64) (f Field, err error) {

	if bits.Len64(q) > MaxModulusBits {
		return Field{}, fmt.Errorf("invalid modulus: %d has more than %d bits", q, MaxModulusBits)
	}

	if !IsPrime(q) {
		return Field{}, fmt.Errorf("invalid modulus: %d is not prime", q)
	}

	return Field{
		Modulus:      q,
		BRedConstant: GenBRedConstant(q),
	}, nil
}

// FromUint maps x to its canonical representative x mod q.
func (f Field) FromUint(x uint64) uint64 {
	return BRedAdd(x, f.Modulus, f.BRedConstant)
}

// FromInt maps the signed integer x to its canonical representative in [0, q).
func (f Field) FromInt(x int64) uint64 {
	if x >= 0 {
		return f.FromUint(uint64(x))
	}
	// -x overflows for math.MinInt64, but uint64 of it is still |x|.
	r := f.FromUint(uint64(-x))
	if r == 0 {
		return 0
	}
	return f.Modulus - r
}

// FromBigInt maps x to its canonical representative in [0, q).
func (f Field) FromBigInt(x *big.Int) uint64 {
	return new(big.Int).Mod(x, new(big.Int).SetUint64(f.Modulus)).Uint64()
}

// Add returns a + b mod q.
func (f Field) Add(a, b uint64) uint64 {
	return CRed(a+b, f.Modulus)
}

// Sub returns a - b mod q.
func (f Field) Sub(a, b uint64) uint64 {
	if a < b {
		return a + f.Modulus - b
	}
	return a - b
}

// Neg returns -a mod q.
func (f Field) Neg(a uint64) uint64 {
	if a == 0 {
		return 0
	}
	return f.Modulus - a
}

// Mul returns a * b mod q.
func (f Field) Mul(a, b uint64) uint64 {
	return BRed(a, b, f.Modulus, f.BRedConstant)
}

// Pow returns x^e mod q. By convention 0^0 = 1.
func (f Field) Pow(x, e uint64) (result uint64) {
	x = f.FromUint(x)
	result = 1
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			result = f.Mul(result, x)
		}
		x = f.Mul(x, x)
	}
	return
}

// Inverse returns x^-1 mod q. The boolean is false if x = 0 mod q,
// which has no inverse.
func (f Field) Inverse(x uint64) (uint64, bool) {
	if x = f.FromUint(x); x == 0 {
		return 0, false
	}
	return f.Pow(x, f.Modulus-2), true
}

// Div returns a * b^-1 mod q. The boolean is false if b = 0 mod q.
func (f Field) Div(a, b uint64) (uint64, bool) {
	bInv, ok := f.Inverse(b)
	if !ok {
		return 0, false
	}
	return f.Mul(f.FromUint(a), bInv), true
}

// Equal returns true if both fields have the same modulus.
func (f Field) Equal(other Field) bool {
	return f.Modulus == other.Modulus
}

// String returns a string representation of the field.
func (f Field) String() string {
	return fmt.Sprintf("Z/%dZ", f.Modulus)
}

// AddVec evaluates p3 = p1 + p2 mod q coefficient-wise.
func (f Field) AddVec(p1, p2, p3 []uint64) {
	for i := range p3 {
		p3[i] = f.Add(p1[i], p2[i])
	}
}

// SubVec evaluates p3 = p1 - p2 mod q coefficient-wise.
func (f Field) SubVec(p1, p2, p3 []uint64) {
	for i := range p3 {
		p3[i] = f.Sub(p1[i], p2[i])
	}
}

// NegVec evaluates p2 = -p1 mod q coefficient-wise.
func (f Field) NegVec(p1, p2 []uint64) {
	for i := range p2 {
		p2[i] = f.Neg(p1[i])
	}
}

// MulVec evaluates p3 = p1 * p2 mod q coefficient-wise.
func (f Field) MulVec(p1, p2, p3 []uint64) {
	for i := range p3 {
		p3[i] = f.Mul(p1[i], p2[i])
	}
}

// MulThenAddVec evaluates p3 = p3 + p1 * p2 mod q coefficient-wise.
func (f Field) MulThenAddVec(p1, p2, p3 []uint64) {
	for i := range p3 {
		p3[i] = f.Add(p3[i], f.Mul(p1[i], p2[i]))
	}
}

// MulScalarVec evaluates p2 = p1 * scalar mod q coefficient-wise.
// The scalar must be in canonical form.
func (f Field) MulScalarVec(p1 []uint64, scalar uint64, p2 []uint64) {
	for i := range p2 {
		p2[i] = f.Mul(p1[i], scalar)
	}
}
