/*
Package latticore is a pure Go implementation of the number-theoretic transform
and of the polynomial ring arithmetic used by module-lattice constructions.

The package ring implements the prime field, the forward and inverse transform,
the cyclic and nega-cyclic rings and a bounded sampler. The package reduce
implements the signed reductions modulo 8380417, and the package hash the
digests used to fingerprint and expand serialized polynomials.
*/
package latticore
