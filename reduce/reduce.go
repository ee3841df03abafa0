// Package reduce implements the signed 32-bit reductions modulo Q = 8380417
// used by module-lattice signature schemes.
//
// The package is independent of the package ring: its values are int32 and
// may be negative, whereas ring.Field elements are canonical uint64.
package reduce

// Q is the modulus 2^23 - 2^13 + 1.
const Q = 8380417

// N is the degree of the polynomials of the package. It is independent of
// the degree of ring.Parameters.
const N = 128

// Reduce32 returns r = a mod Q with -6283009 <= r <= 6283008.
// The input must satisfy -2^31 + 2^22 <= a <= 2^31 - 2^22 - 1.
func Reduce32(a int32) int32 {
	t := (a + (1 << 22)) >> 23
	return a - t*Q
}

// CAddQ adds Q to a if a is negative. For -Q < a < Q the result is in [0, Q).
func CAddQ(a int32) int32 {
	return a + ((a >> 31) & Q)
}

// Freeze returns the canonical representative of a in [0, Q).
// The input range is the one of Reduce32.
func Freeze(a int32) int32 {
	return CAddQ(Reduce32(a))
}
