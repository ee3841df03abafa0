package ring

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/latticore/utils"
)

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(x uint64) bool {
	return new(big.Int).SetUint64(x).ProbablyPrime(0)
}

// NextNTTPrime returns the smallest prime q' > q such that q' = 1 mod NthRoot.
// The input q must itself be 1 mod NthRoot.
func NextNTTPrime(q uint64, NthRoot int) (qNext uint64, err error) {

	qNext = q + uint64(NthRoot)

	for !IsPrime(qNext) {

		qNext += uint64(NthRoot)

		if bits.Len64(qNext) > MaxModulusBits {
			return 0, fmt.Errorf("next NTT prime exceeds the maximum bit-size of %d bits", MaxModulusBits)
		}
	}

	return qNext, nil
}

// NthRoot returns a primitive NthRoot-th root of unity of the field of modulus q.
// NthRoot must be a power of two dividing q-1.
//
// The candidates g = 2, 3, ... are tried in order and the first g^((q-1)/NthRoot)
// of exact order NthRoot is returned, so the result is deterministic.
func NthRoot(f Field, NthRoot uint64) (root uint64, err error) {

	q := f.Modulus

	if NthRoot == 0 || !utils.IsPowerOfTwo(NthRoot) {
		return 0, fmt.Errorf("invalid NthRoot: %d is not a power of two", NthRoot)
	}

	if (q-1)%NthRoot != 0 {
		return 0, fmt.Errorf("invalid NthRoot: %d does not divide q-1 = %d", NthRoot, q-1)
	}

	if NthRoot == 1 {
		return 1, nil
	}

	exp := (q - 1) / NthRoot

	for g := uint64(2); g < q; g++ {
		if root = f.Pow(g, exp); f.Pow(root, NthRoot>>1) != 1 {
			return root, nil
		}
	}

	// unreachable for a prime q since the multiplicative group is cyclic
	return 0, fmt.Errorf("no primitive %d-th root of unity modulo %d", NthRoot, q)
}

// CheckNthRoot returns an error if root is not a primitive NthRoot-th root of unity.
// NthRoot must be a power of two.
func CheckNthRoot(f Field, root, NthRoot uint64) (err error) {

	if NthRoot == 0 || !utils.IsPowerOfTwo(NthRoot) {
		return fmt.Errorf("invalid NthRoot: %d is not a power of two", NthRoot)
	}

	if root >= f.Modulus {
		return fmt.Errorf("invalid root: %d is not in canonical form modulo %d", root, f.Modulus)
	}

	if f.Pow(root, NthRoot) != 1 {
		return fmt.Errorf("invalid root: %d^%d != 1 mod %d", root, NthRoot, f.Modulus)
	}

	// For a power of two, the order is exactly NthRoot iff root^(NthRoot/2) != 1.
	if NthRoot > 1 && f.Pow(root, NthRoot>>1) == 1 {
		return fmt.Errorf("invalid root: %d has order smaller than %d mod %d", root, NthRoot, f.Modulus)
	}

	return nil
}
