package ring

import (
	"fmt"

	"github.com/tuneinsight/latticore/utils"
)

// NTTTable stores the pre-computed constants of the transform of size N
// over a given Field.
//
// StageRoots[s] is the twiddle base of the s-th forward stage, that is
// Root^(2^s), and StageRootsInv[s] is RootInv^(2^s). For nega-cyclic
// tables, Twist[i] = Psi^i and TwistInv[i] = Psi^-i, with Psi^2 = Root.
type NTTTable struct {
	N             int
	Root          uint64
	RootInv       uint64
	NInv          uint64
	StageRoots    []uint64
	StageRootsInv []uint64

	Psi      uint64
	Twist    []uint64
	TwistInv []uint64
}

// NewNTTTable generates the NTTTable of the cyclic transform of size N
// with the provided primitive N-th root of unity.
// Returns an error if N is not a power of two, if root is not a primitive
// N-th root of unity or if N is not invertible modulo q.
func NewNTTTable(f Field, N int, root uint64) (table *NTTTable, err error) {

	if N <= 0 || !utils.IsPowerOfTwo(N) {
		return nil, fmt.Errorf("invalid transform size: N=%d is not a power of two", N)
	}

	if err = CheckNthRoot(f, root, uint64(N)); err != nil {
		return nil, fmt.Errorf("CheckNthRoot: %w", err)
	}

	table = &NTTTable{N: N, Root: root}

	var ok bool
	if table.NInv, ok = f.Inverse(uint64(N)); !ok {
		return nil, fmt.Errorf("invalid transform size: N=%d is not invertible modulo %d", N, f.Modulus)
	}

	// root != 0 since root^N = 1
	table.RootInv, _ = f.Inverse(root)

	logN := utils.Log2(uint64(N))

	table.StageRoots = make([]uint64, logN)
	table.StageRootsInv = make([]uint64, logN)

	w, wInv := root, table.RootInv
	for s := 0; s < logN; s++ {
		table.StageRoots[s] = w
		table.StageRootsInv[s] = wInv
		w = f.Mul(w, w)
		wInv = f.Mul(wInv, wInv)
	}

	return
}

// NewNTTTableNegaCyclic generates the NTTTable of the nega-cyclic transform of
// size N with the provided primitive 2N-th root of unity psi.
// The underlying cyclic transform uses the root psi^2.
func NewNTTTableNegaCyclic(f Field, N int, psi uint64) (table *NTTTable, err error) {

	if N <= 0 || !utils.IsPowerOfTwo(N) {
		return nil, fmt.Errorf("invalid transform size: N=%d is not a power of two", N)
	}

	if err = CheckNthRoot(f, psi, uint64(N)<<1); err != nil {
		return nil, fmt.Errorf("CheckNthRoot: %w", err)
	}

	if table, err = NewNTTTable(f, N, f.Mul(psi, psi)); err != nil {
		return nil, err
	}

	psiInv, _ := f.Inverse(psi)

	table.Psi = psi
	table.Twist = make([]uint64, N)
	table.TwistInv = make([]uint64, N)
	table.Twist[0], table.TwistInv[0] = 1, 1

	for i := 1; i < N; i++ {
		table.Twist[i] = f.Mul(table.Twist[i-1], psi)
		table.TwistInv[i] = f.Mul(table.TwistInv[i-1], psiInv)
	}

	return
}

// IsNegaCyclic returns true if the table carries the nega-cyclic twist.
func (t *NTTTable) IsNegaCyclic() bool {
	return t.Twist != nil
}

// NTT evaluates in place the forward transform of values, whose length N must
// be a power of two, using the primitive N-th root of unity root.
//
// The transform is a decimation-in-frequency Gentleman-Sande network: the
// output is the evaluation of values at root^k, stored at the bit-reversed
// index of k.
//
// NTT panics if the length is not a power of two or if root is not a primitive
// N-th root of unity. Values must be in canonical form.
func NTT(f Field, values []uint64, root uint64) {
	table, err := NewNTTTable(f, len(values), root)
	if err != nil {
		panic(fmt.Errorf("NTT: %w", err))
	}
	nttCore(f, values, table.StageRoots)
}

// INTT evaluates in place the inverse of NTT on values, with the same root, such that
// INTT(f, NTT(f, v, root), root) = v.
//
// INTT panics if the length is not a power of two or if root is not a primitive
// N-th root of unity. Values must be in canonical form.
func INTT(f Field, values []uint64, root uint64) {
	table, err := NewNTTTable(f, len(values), root)
	if err != nil {
		panic(fmt.Errorf("INTT: %w", err))
	}
	inttCore(f, values, table.StageRootsInv, table.NInv)
}

// BitReversePermute permutes values in place, exchanging the entries at indexes
// k and bitrev(k). It maps the output of NTT to natural order and back.
func BitReversePermute(values []uint64) {
	utils.BitReverseInPlaceSlice(values, len(values))
}

func nttCore(f Field, values, stageRoots []uint64) {
	half := len(values) >> 1
	for s, stride := 0, half; stride > 0; s, stride = s+1, stride>>1 {
		forwardButterflies(f, values, stride, stageRoots[s], 0, half)
	}
}

func inttCore(f Field, values, stageRootsInv []uint64, nInv uint64) {
	half := len(values) >> 1
	for s, stride := len(stageRootsInv)-1, 1; stride <= half; s, stride = s-1, stride<<1 {
		backwardButterflies(f, values, stride, stageRootsInv[s], 0, half)
	}
	f.MulScalarVec(values, nInv, values)
}

// forwardButterflies applies the butterflies of index [kStart, kEnd) of the
// forward stage of the given stride, where w is the twiddle base of the stage.
//
// Butterfly k acts on the pair (j, j+stride), with j = 2*stride*(k/stride) + k%stride,
// and maps (a, b) to (a + b, w^(k%stride) * (a - b)).
func forwardButterflies(f Field, values []uint64, stride int, w uint64, kStart, kEnd int) {

	i := kStart % stride
	j := (kStart/stride)*(stride<<1) + i
	tw := f.Pow(w, uint64(i))

	for k := kStart; k < kEnd; k++ {

		a, b := values[j], values[j+stride]

		values[j] = f.Add(a, b)
		values[j+stride] = f.Mul(tw, f.Sub(a, b))

		if i++; i == stride {
			i, tw = 0, 1
			j += stride + 1
		} else {
			tw = f.Mul(tw, w)
			j++
		}
	}
}

// backwardButterflies is the inverse of forwardButterflies for the same stride
// when called with w^-1, up to a factor 2. It maps (a, b) to (a + w^i * b, a - w^i * b).
func backwardButterflies(f Field, values []uint64, stride int, w uint64, kStart, kEnd int) {

	i := kStart % stride
	j := (kStart/stride)*(stride<<1) + i
	tw := f.Pow(w, uint64(i))

	for k := kStart; k < kEnd; k++ {

		a := values[j]
		b := f.Mul(tw, values[j+stride])

		values[j] = f.Add(a, b)
		values[j+stride] = f.Sub(a, b)

		if i++; i == stride {
			i, tw = 0, 1
			j += stride + 1
		} else {
			tw = f.Mul(tw, w)
			j++
		}
	}
}
