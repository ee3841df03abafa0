package ring

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tuneinsight/latticore/utils"
)

// NumberTheoreticTransformer is an interface to provide
// flexibility on what type of NTT is used by the struct Ring.
type NumberTheoreticTransformer interface {
	Forward(p1, p2 []uint64)
	Backward(p1, p2 []uint64)
}

// NumberTheoreticTransformerFactory builds a NumberTheoreticTransformer from a Field and a NTTTable.
type NumberTheoreticTransformerFactory func(f Field, table *NTTTable) NumberTheoreticTransformer

type numberTheoreticTransformerBase struct {
	field Field
	table *NTTTable
}

func (rntt numberTheoreticTransformerBase) load(p1, p2 []uint64) {
	if len(p1) != rntt.table.N || len(p2) != rntt.table.N {
		panic(fmt.Errorf("invalid polynomial size: expected %d coefficients but got %d and %d", rntt.table.N, len(p1), len(p2)))
	}
	if &p1[0] != &p2[0] {
		copy(p2, p1)
	}
}

func (rntt numberTheoreticTransformerBase) twist(p []uint64) {
	if rntt.table.IsNegaCyclic() {
		rntt.field.MulVec(p, rntt.table.Twist, p)
	}
}

func (rntt numberTheoreticTransformerBase) untwist(p []uint64) {
	if rntt.table.IsNegaCyclic() {
		rntt.field.MulVec(p, rntt.table.TwistInv, p)
	}
}

// NumberTheoreticTransformerStandard computes the NTT on a single goroutine,
// in the ring Z_q[X]/(X^N-1) or Z_q[X]/(X^N+1) depending on the table.
type NumberTheoreticTransformerStandard struct {
	numberTheoreticTransformerBase
}

// NewNumberTheoreticTransformerStandard creates a new NumberTheoreticTransformerStandard.
func NewNumberTheoreticTransformerStandard(f Field, table *NTTTable) NumberTheoreticTransformer {
	return NumberTheoreticTransformerStandard{
		numberTheoreticTransformerBase: numberTheoreticTransformerBase{field: f, table: table},
	}
}

// Forward writes the forward NTT of p1 on p2.
func (rntt NumberTheoreticTransformerStandard) Forward(p1, p2 []uint64) {
	rntt.load(p1, p2)
	rntt.twist(p2)
	nttCore(rntt.field, p2, rntt.table.StageRoots)
}

// Backward writes the backward NTT of p1 on p2.
func (rntt NumberTheoreticTransformerStandard) Backward(p1, p2 []uint64) {
	rntt.load(p1, p2)
	inttCore(rntt.field, p2, rntt.table.StageRootsInv, rntt.table.NInv)
	rntt.untwist(p2)
}

// NumberTheoreticTransformerParallel computes the NTT with the butterflies of
// each stage split among several goroutines.
//
// The butterflies of a stage act on pairwise disjoint indexes, so each goroutine
// owns a contiguous range of butterflies. All goroutines of a stage are joined
// before the next stage starts. The output is bit-identical to the one of
// NumberTheoreticTransformerStandard.
type NumberTheoreticTransformerParallel struct {
	numberTheoreticTransformerBase
	workers int
}

// NewNumberTheoreticTransformerParallel creates a new NumberTheoreticTransformerParallel
// using up to workers goroutines per stage. A value smaller than 1 is treated as 1.
func NewNumberTheoreticTransformerParallel(f Field, table *NTTTable, workers int) NumberTheoreticTransformer {
	return NumberTheoreticTransformerParallel{
		numberTheoreticTransformerBase: numberTheoreticTransformerBase{field: f, table: table},
		workers:                        utils.Max(workers, 1),
	}
}

// NewNumberTheoreticTransformerParallelFactory returns a NumberTheoreticTransformerFactory
// for NumberTheoreticTransformerParallel with the given number of workers.
func NewNumberTheoreticTransformerParallelFactory(workers int) NumberTheoreticTransformerFactory {
	return func(f Field, table *NTTTable) NumberTheoreticTransformer {
		return NewNumberTheoreticTransformerParallel(f, table, workers)
	}
}

// Workers returns the maximum number of goroutines used per stage.
func (rntt NumberTheoreticTransformerParallel) Workers() int {
	return rntt.workers
}

// Forward writes the forward NTT of p1 on p2.
func (rntt NumberTheoreticTransformerParallel) Forward(p1, p2 []uint64) {
	rntt.load(p1, p2)
	rntt.twist(p2)

	f := rntt.field
	half := rntt.table.N >> 1

	for s, stride := 0, half; stride > 0; s, stride = s+1, stride>>1 {
		w := rntt.table.StageRoots[s]
		rntt.stage(func(kStart, kEnd int) {
			forwardButterflies(f, p2, stride, w, kStart, kEnd)
		})
	}
}

// Backward writes the backward NTT of p1 on p2.
func (rntt NumberTheoreticTransformerParallel) Backward(p1, p2 []uint64) {
	rntt.load(p1, p2)

	f := rntt.field
	half := rntt.table.N >> 1

	for s, stride := len(rntt.table.StageRootsInv)-1, 1; stride <= half; s, stride = s-1, stride<<1 {
		w := rntt.table.StageRootsInv[s]
		rntt.stage(func(kStart, kEnd int) {
			backwardButterflies(f, p2, stride, w, kStart, kEnd)
		})
	}

	f.MulScalarVec(p2, rntt.table.NInv, p2)
	rntt.untwist(p2)
}

// stage runs fn over the N/2 butterflies of a stage and returns once all
// chunks are done.
func (rntt NumberTheoreticTransformerParallel) stage(fn func(kStart, kEnd int)) {

	half := rntt.table.N >> 1

	if rntt.workers == 1 || half < rntt.workers {
		fn(0, half)
		return
	}

	chunk := (half + rntt.workers - 1) / rntt.workers

	var g errgroup.Group
	for kStart := 0; kStart < half; kStart += chunk {
		kStart, kEnd := kStart, utils.Min(kStart+chunk, half)
		g.Go(func() error {
			fn(kStart, kEnd)
			return nil
		})
	}

	// barrier between stages, fn never fails
	_ = g.Wait()
}
