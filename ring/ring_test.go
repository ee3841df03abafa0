package ring

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/latticore/utils"
	"github.com/tuneinsight/latticore/utils/sampling"
	"github.com/tuneinsight/latticore/utils/structs"
)

func testString(opname string, r *Ring) string {
	return fmt.Sprintf("%s/N=%d/q=%d/%s", opname, r.N(), r.Modulus(), r.Type())
}

// genTestParams returns parameters of degree 2^logN modulo q with the
// deterministic root of unity of the required order.
func genTestParams(q uint64, logN int, ringType Type) (params Parameters, err error) {

	f, err := NewField(q)
	if err != nil {
		return
	}

	order := uint64(1) << logN
	if ringType == NegaCyclic {
		order <<= 1
	}

	g, err := NthRoot(f, order)
	if err != nil {
		return
	}

	return NewParametersFromLiteral(ParametersLiteral{
		Modulus:   q,
		Generator: g,
		LogN:      logN,
		Rank:      2,
		Bound:     q,
		Type:      ringType,
	})
}

func genTestRing(t *testing.T, q uint64, logN int, ringType Type) *Ring {
	params, err := genTestParams(q, logN, ringType)
	require.NoError(t, err)
	r, err := NewRing(params)
	require.NoError(t, err)
	return r
}

func genPresetRing(t *testing.T, pl ParametersLiteral) *Ring {
	params, err := NewParametersFromLiteral(pl)
	require.NoError(t, err)
	r, err := NewRing(params)
	require.NoError(t, err)
	return r
}

func newUniformSampler(t *testing.T, r *Ring, seed uint64) *BoundedSampler {
	s, err := NewUniformSampler(sampling.NewSeededPRNG(seed), r)
	require.NoError(t, err)
	return s
}

func TestRing(t *testing.T) {

	testField(t)
	testNthRoot(t)
	testParameters(t)

	for _, ringType := range []Type{Cyclic, NegaCyclic} {
		for logN := 0; logN <= 8; logN++ {
			r := genTestRing(t, 0x10001, logN, ringType)
			testNTTRoundTrip(t, r)
			testNTTLinearity(t, r)
			testNTTNaturalOrder(t, r)
			testNTTParallel(t, r)
		}
	}

	for _, pl := range []ParametersLiteral{ToyParametersLiteral, DefaultParametersLiteral, NegaCyclicParametersLiteral} {
		r := genPresetRing(t, pl)
		testMulPoly(t, r)
		testInnerProduct(t, r)
		testDeterminism(t, r)
		testInPlaceInvalidation(t, r)
		testSerialization(t, r)
	}

	for _, ringType := range []Type{Cyclic, NegaCyclic} {
		testMulPoly(t, genTestRing(t, 0x10001, 3, ringType))
		testMulPoly(t, genTestRing(t, 17, 2, ringType))
	}

	testKnownVector(t)
	testDegreeOne(t)
	testRawNTTPanics(t)
	testCanonicalDecoding(t)
	testOperationSizes(t)
	testBoundedSampler(t)
}

func testField(t *testing.T) {

	t.Run("Field/NewField", func(t *testing.T) {
		_, err := NewField(65536)
		require.Error(t, err)
		_, err = NewField(1)
		require.Error(t, err)
		_, err = NewField(0xffffffff00000001) // prime but too large
		require.Error(t, err)
		f, err := NewField(17)
		require.NoError(t, err)
		require.Equal(t, "Z/17Z", f.String())
	})

	q61, err := NextNTTPrime(1<<60+1, 1<<17)
	require.NoError(t, err)

	for _, q := range []uint64{2, 17, 0x10001, 0x3ee0001, q61} {

		f, err := NewField(q)
		require.NoError(t, err)

		bigQ := new(big.Int).SetUint64(q)
		prng := sampling.NewSeededPRNG(q)

		random := func() uint64 {
			var b [8]byte
			_, _ = prng.Read(b[:])
			return f.FromUint(uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
				uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56)
		}

		t.Run(fmt.Sprintf("Field/Arithmetic/q=%d", q), func(t *testing.T) {

			for i := 0; i < 256; i++ {

				a, b := random(), random()
				require.Less(t, a, q)

				bigA := new(big.Int).SetUint64(a)
				bigB := new(big.Int).SetUint64(b)

				want := new(big.Int)

				require.Equal(t, want.Mod(want.Add(bigA, bigB), bigQ).Uint64(), f.Add(a, b))
				require.Equal(t, want.Mod(want.Sub(bigA, bigB), bigQ).Uint64(), f.Sub(a, b))
				require.Equal(t, want.Mod(want.Neg(bigA), bigQ).Uint64(), f.Neg(a))
				require.Equal(t, want.Mod(want.Mul(bigA, bigB), bigQ).Uint64(), f.Mul(a, b))
				require.Equal(t, want.Exp(bigA, big.NewInt(int64(i)), bigQ).Uint64(), f.Pow(a, uint64(i)))
				require.Equal(t, BRed(a, b, q, f.BRedConstant), f.Mul(a, b))

				if a != 0 {
					aInv, ok := f.Inverse(a)
					require.True(t, ok)
					require.Equal(t, uint64(1), f.Mul(a, aInv))

					c, ok := f.Div(b, a)
					require.True(t, ok)
					require.Equal(t, b, f.Mul(c, a))
				}
			}
		})

		t.Run(fmt.Sprintf("Field/FromInt/q=%d", q), func(t *testing.T) {
			for _, x := range []int64{0, 1, -1, 17, -17, 123456789, -123456789, math.MaxInt64, math.MinInt64} {
				want := new(big.Int).Mod(big.NewInt(x), bigQ).Uint64()
				require.Equal(t, want, f.FromInt(x))
				require.Equal(t, want, f.FromBigInt(big.NewInt(x)))
			}
			require.Equal(t, new(big.Int).Mod(new(big.Int).SetUint64(math.MaxUint64), bigQ).Uint64(), f.FromUint(math.MaxUint64))
		})

		t.Run(fmt.Sprintf("Field/InverseOfZero/q=%d", q), func(t *testing.T) {
			inv, ok := f.Inverse(0)
			require.False(t, ok)
			require.Zero(t, inv)
			_, ok = f.Inverse(q)
			require.False(t, ok)
			_, ok = f.Div(1, 0)
			require.False(t, ok)
		})

		t.Run(fmt.Sprintf("Field/ModExp/q=%d", q), func(t *testing.T) {
			require.Equal(t, f.Pow(3, q-1), ModExp(3, q-1, q))
			require.Equal(t, uint64(1)%q, ModExp(q+1, 12345, q))
		})
	}
}

func testNthRoot(t *testing.T) {

	t.Run("NthRoot", func(t *testing.T) {

		f, err := NewField(0x10001)
		require.NoError(t, err)

		for logN := 0; logN <= 16; logN++ {
			n := uint64(1) << logN
			g, err := NthRoot(f, n)
			require.NoError(t, err)
			require.NoError(t, CheckNthRoot(f, g, n))
		}

		_, err = NthRoot(f, 3)
		require.Error(t, err)
		_, err = NthRoot(f, 1<<17)
		require.Error(t, err)

		f17, err := NewField(17)
		require.NoError(t, err)
		g, err := NthRoot(f17, 4)
		require.NoError(t, err)
		require.Contains(t, []uint64{4, 13}, g)
	})

	t.Run("CheckNthRoot", func(t *testing.T) {

		f, err := NewField(0x10001)
		require.NoError(t, err)

		require.NoError(t, CheckNthRoot(f, 282, 256))
		require.NoError(t, CheckNthRoot(f, 15028, 512))
		require.Equal(t, uint64(282), f.Mul(15028, 15028))

		// 282^2 has order 128
		require.Error(t, CheckNthRoot(f, f.Mul(282, 282), 256))
		// order 256, not 512
		require.Error(t, CheckNthRoot(f, 282, 512))
		require.Error(t, CheckNthRoot(f, 282, 100))
		require.Error(t, CheckNthRoot(f, 0x10001+282, 256))
		require.NoError(t, CheckNthRoot(f, 1, 1))
		require.Error(t, CheckNthRoot(f, 2, 1))
	})
}

func testParameters(t *testing.T) {

	t.Run("Parameters/Presets", func(t *testing.T) {
		for _, pl := range []ParametersLiteral{DefaultParametersLiteral, NegaCyclicParametersLiteral, ToyParametersLiteral} {
			params, err := NewParametersFromLiteral(pl)
			require.NoError(t, err)
			require.Equal(t, pl, params.ParametersLiteral())
			require.Equal(t, 1<<pl.LogN, params.N())
		}
	})

	t.Run("Parameters/Invalid", func(t *testing.T) {

		valid := DefaultParametersLiteral

		for name, mutate := range map[string]func(pl *ParametersLiteral){
			"NonPrimeModulus":   func(pl *ParametersLiteral) { pl.Modulus = 65536 },
			"NegativeLogN":      func(pl *ParametersLiteral) { pl.LogN = -1 },
			"LargeLogN":         func(pl *ParametersLiteral) { pl.LogN = MaxLogN + 1 },
			"LogNOverTwoAdic":   func(pl *ParametersLiteral) { pl.LogN = 17 },
			"WrongOrder":        func(pl *ParametersLiteral) { pl.Generator = 3 },
			"CyclicAsNega":      func(pl *ParametersLiteral) { pl.Type = NegaCyclic },
			"ZeroRank":          func(pl *ParametersLiteral) { pl.Rank = 0 },
			"ZeroBound":         func(pl *ParametersLiteral) { pl.Bound = 0 },
			"UnknownType":       func(pl *ParametersLiteral) { pl.Type = 7 },
			"NonCanonicalRoot":  func(pl *ParametersLiteral) { pl.Generator += pl.Modulus },
			"NonInvertibleSize": func(pl *ParametersLiteral) { pl.Modulus, pl.Generator, pl.LogN = 2, 1, 1 },
		} {
			t.Run(name, func(t *testing.T) {
				pl := valid
				mutate(&pl)
				_, err := NewParametersFromLiteral(pl)
				require.Error(t, err)
			})
		}
	})

	t.Run("Parameters/JSON", func(t *testing.T) {
		params, err := NewParametersFromLiteral(NegaCyclicParametersLiteral)
		require.NoError(t, err)

		data, err := json.Marshal(params)
		require.NoError(t, err)
		require.Contains(t, string(data), `"Type":"NegaCyclic"`)

		var paramsNew Parameters
		require.NoError(t, json.Unmarshal(data, &paramsNew))
		require.True(t, params.Equal(paramsNew))

		require.Error(t, json.Unmarshal([]byte(`{"Modulus":65537,"Generator":282,"LogN":8,"Rank":1,"Bound":1,"Type":"Circular"}`), &paramsNew))
	})

	t.Run("Parameters/NewRingWithCustomNTT/Nil", func(t *testing.T) {
		params, err := NewParametersFromLiteral(ToyParametersLiteral)
		require.NoError(t, err)
		_, err = NewRingWithCustomNTT(params, nil)
		require.Error(t, err)
	})
}

func testNTTRoundTrip(t *testing.T, r *Ring) {
	t.Run(testString("NTT/RoundTrip", r), func(t *testing.T) {

		sampler := newUniformSampler(t, r, uint64(r.N()))

		for i := 0; i < 100; i++ {
			p := sampler.ReadNew()
			pCpy := p.CopyNew()

			pNTT := r.NTT(&p)
			pBack := r.INTT(&pNTT)

			require.True(t, pCpy.Equal(&pBack))
		}
	})
}

func testNTTLinearity(t *testing.T, r *Ring) {
	t.Run(testString("NTT/Linearity", r), func(t *testing.T) {

		sampler := newUniformSampler(t, r, 1)

		for i := 0; i < 16; i++ {

			a, b := sampler.ReadNew(), sampler.ReadNew()
			alpha := r.Field.FromUint(uint64(i)*0x9e3779b9 + 1)

			// NTT(a + alpha*b) == NTT(a) + alpha*NTT(b)
			lhs := r.NewPoly()
			MulScalar(r, b, alpha, lhs)
			Add(r, a, lhs, lhs)
			lhsNTT := r.NTT(&lhs)

			aNTT, bNTT := r.NTTNew(a), r.NTTNew(b)
			rhs := r.NewPolyEvaluations()
			MulScalar(r, bNTT, alpha, rhs)
			Add(r, aNTT, rhs, rhs)

			require.True(t, lhsNTT.Equal(&rhs))
		}
	})
}

func testNTTNaturalOrder(t *testing.T, r *Ring) {
	t.Run(testString("NTT/NaturalOrder", r), func(t *testing.T) {

		p := newUniformSampler(t, r, 2).ReadNew()

		values := r.NaturalOrder(r.NTTNew(p))

		g := r.Parameters().Generator()
		x := uint64(1)
		step := g
		if r.Type() == NegaCyclic {
			x, step = g, r.Field.Mul(g, g)
		}

		for k := range values {
			require.Equal(t, r.Evaluate(p, x), values[k], "k=%d", k)
			x = r.Field.Mul(x, step)
		}
	})
}

func testNTTParallel(t *testing.T, r *Ring) {
	for _, workers := range []int{0, 1, 2, 3, 8} {
		t.Run(testString(fmt.Sprintf("NTT/Parallel/workers=%d", workers), r), func(t *testing.T) {

			rPar, err := NewRingWithCustomNTT(r.Parameters(), NewNumberTheoreticTransformerParallelFactory(workers))
			require.NoError(t, err)

			sampler := newUniformSampler(t, r, 3)

			for i := 0; i < 8; i++ {
				p := sampler.ReadNew()

				want := r.NTTNew(p)
				have := rPar.NTTNew(p)
				require.True(t, cmp.Equal(want.Coeffs, have.Coeffs))

				back := rPar.INTTNew(have)
				require.True(t, p.Equal(&back))
			}
		})
	}
}

func testMulPoly(t *testing.T, r *Ring) {
	t.Run(testString("MulPoly/Naive", r), func(t *testing.T) {

		sampler := newUniformSampler(t, r, 4)

		for i := 0; i < 8; i++ {

			a, b := sampler.ReadNew(), sampler.ReadNew()
			aCpy, bCpy := a.CopyNew(), b.CopyNew()

			want := r.NewPoly()
			have := r.NewPoly()

			r.MulPolyNaive(a, b, want)
			r.MulPoly(a, b, have)

			require.True(t, want.Equal(&have))
			require.True(t, aCpy.Equal(&a))
			require.True(t, bCpy.Equal(&b))

			// in place on the first operand
			r.MulPoly(a, b, a)
			require.True(t, want.Equal(&a))
		}
	})

	t.Run(testString("MulPoly/Monomial", r), func(t *testing.T) {

		// X^(N-1) * X = X^N = +/-1
		a, b := r.NewPoly(), r.NewPoly()
		if r.N() < 2 {
			t.Skip("requires N >= 2")
		}
		a.Coeffs[r.N()-1] = 1
		b.Coeffs[1] = 1

		have := r.NewPoly()
		r.MulPoly(a, b, have)

		want := r.NewPoly()
		want.Coeffs[0] = 1
		if r.Type() == NegaCyclic {
			want.Coeffs[0] = r.Modulus() - 1
		}

		require.Equal(t, want.Coeffs, have.Coeffs)
	})
}

func testInnerProduct(t *testing.T, r *Ring) {
	t.Run(testString("InnerProduct", r), func(t *testing.T) {

		sampler := newUniformSampler(t, r, 5)

		h := sampler.ReadVectorNew()
		s := sampler.ReadVectorNew()

		want := r.NewPoly()
		r.MulVectorNaive(h, s, want)

		hNTT := r.NTTVector(&h)
		sNTT := r.NTTVector(&s)
		require.Nil(t, h)
		require.Nil(t, s)

		tNTT := r.NewPolyEvaluations()
		r.InnerProduct(hNTT, sNTT, tNTT)

		have := r.INTT(&tNTT)
		require.True(t, want.Equal(&have))

		hBack := r.INTTVector(&hNTT)
		require.Len(t, hBack, r.Rank())

		require.Panics(t, func() {
			r.InnerProduct(sNTT, sNTT[:0], r.NewPolyEvaluations())
		})
	})
}

func testDeterminism(t *testing.T, r *Ring) {
	t.Run(testString("NTT/Determinism", r), func(t *testing.T) {

		p := newUniformSampler(t, r, 6).ReadNew()

		first := r.NTTNew(p)
		for i := 0; i < 4; i++ {
			again := r.NTTNew(p)
			require.True(t, first.Equal(&again))
		}

		// same seed, same polynomial
		q := newUniformSampler(t, r, 6).ReadNew()
		require.True(t, p.Equal(&q))
	})
}

func testInPlaceInvalidation(t *testing.T, r *Ring) {
	t.Run(testString("NTT/InPlace", r), func(t *testing.T) {

		p := newUniformSampler(t, r, 7).ReadNew()
		ptr := &p.Coeffs[0]

		pNTT := r.NTT(&p)
		require.Nil(t, p.Coeffs)
		require.Same(t, ptr, &pNTT.Coeffs[0])

		pBack := r.INTT(&pNTT)
		require.Nil(t, pNTT.Coeffs)
		require.Same(t, ptr, &pBack.Coeffs[0])
	})
}

func testSerialization(t *testing.T, r *Ring) {

	t.Run(testString("Serialization/Poly", r), func(t *testing.T) {

		p := newUniformSampler(t, r, 8).ReadNew()

		data, err := p.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, p.BinarySize())

		var pNew Poly[Coefficients]
		require.NoError(t, pNew.UnmarshalBinary(data))
		require.True(t, p.Equal(&pNew))

		var bb bytes.Buffer
		_, err = p.WriteTo(&bb)
		require.NoError(t, err)
		require.Equal(t, data, bb.Bytes())

		var pRead Poly[Coefficients]
		_, err = pRead.ReadFrom(&bb)
		require.NoError(t, err)
		require.True(t, p.Equal(&pRead))
	})

	t.Run(testString("Serialization/BasisMismatch", r), func(t *testing.T) {

		p := newUniformSampler(t, r, 9).ReadNew()
		assert.Equal(t, "Coefficients", p.Basis())

		data, err := p.MarshalBinary()
		require.NoError(t, err)

		var pEval Poly[Evaluations]
		err = pEval.UnmarshalBinary(data)
		require.Error(t, err)
		require.Contains(t, err.Error(), "Evaluations")

		pNTT := r.NTTNew(p)
		assert.Equal(t, "Evaluations", pNTT.Basis())
		data, err = pNTT.MarshalBinary()
		require.NoError(t, err)
		require.NoError(t, pEval.UnmarshalBinary(data))
		require.True(t, pNTT.Equal(&pEval))
	})

	t.Run(testString("Serialization/Vector", r), func(t *testing.T) {

		v := newUniformSampler(t, r, 10).ReadVectorNew()

		data, err := v.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, v.BinarySize())

		vNew := structs.Vector[Poly[Coefficients]]{}
		require.NoError(t, vNew.UnmarshalBinary(data))
		require.True(t, v.Equal(vNew))

		vCpy := v.CopyNew()
		vCpy[0].Coeffs[0] = r.Field.Add(vCpy[0].Coeffs[0], 1)
		require.False(t, v.Equal(vCpy))
	})
}

func testKnownVector(t *testing.T) {
	t.Run("NTT/KnownVector/q=17/N=4", func(t *testing.T) {

		f, err := NewField(17)
		require.NoError(t, err)

		values := []uint64{1, 2, 3, 4}
		NTT(f, values, 4)
		require.Equal(t, []uint64{10, 15, 7, 6}, values)

		// the value at index j is P(4^bitrev(j))
		P := func(x uint64) uint64 {
			return f.Add(f.Add(1, f.Mul(2, x)), f.Add(f.Mul(3, f.Pow(x, 2)), f.Mul(4, f.Pow(x, 3))))
		}
		for j := range values {
			require.Equal(t, P(f.Pow(4, utils.BitReverse64(uint64(j), 2))), values[j])
		}

		INTT(f, values, 4)
		require.Equal(t, []uint64{1, 2, 3, 4}, values)

		r := genPresetRing(t, ToyParametersLiteral)
		p := r.NewPoly()
		r.SetCoefficientsInt64([]int64{1, 2, 3, 4}, p)
		pNTT := r.NTT(&p)
		require.Equal(t, []uint64{10, 15, 7, 6}, pNTT.Coeffs)
		require.Equal(t, []uint64{10, 7, 15, 6}, r.NaturalOrder(pNTT))
	})
}

func testDegreeOne(t *testing.T) {
	t.Run("NTT/N=1", func(t *testing.T) {

		f, err := NewField(0x10001)
		require.NoError(t, err)

		values := []uint64{12345}
		NTT(f, values, 1)
		require.Equal(t, []uint64{12345}, values)
		INTT(f, values, 1)
		require.Equal(t, []uint64{12345}, values)

		table, err := NewNTTTable(f, 1, 1)
		require.NoError(t, err)
		require.Empty(t, table.StageRoots)
		require.Equal(t, uint64(1), table.NInv)
	})
}

func testRawNTTPanics(t *testing.T) {
	t.Run("NTT/Panics", func(t *testing.T) {

		f, err := NewField(17)
		require.NoError(t, err)

		require.Panics(t, func() { NTT(f, []uint64{1, 2, 3}, 4) })
		require.Panics(t, func() { NTT(f, []uint64{}, 4) })
		// 16 has order 2
		require.Panics(t, func() { NTT(f, []uint64{1, 2, 3, 4}, 16) })
		require.Panics(t, func() { INTT(f, []uint64{1, 2, 3, 4}, 2) })

		r := genPresetRing(t, ToyParametersLiteral)
		require.Panics(t, func() {
			p := NewPoly[Coefficients](8)
			r.NTT(&p)
		})
		require.Panics(t, func() {
			r.MulCoeffs(NewPoly[Evaluations](4), NewPoly[Evaluations](2), NewPoly[Evaluations](4))
		})
	})
}

func testCanonicalDecoding(t *testing.T) {

	r := genPresetRing(t, ToyParametersLiteral)

	t.Run(testString("Decoding/Canonical", r), func(t *testing.T) {

		p := r.NewPoly()
		r.SetCoefficientsInt64([]int64{-1, 2, 3, 16}, p)
		data, err := p.MarshalBinary()
		require.NoError(t, err)

		pNew, err := UnmarshalPoly[Coefficients](r, data)
		require.NoError(t, err)
		require.True(t, p.Equal(&pNew))

		// the wrong basis is still rejected
		_, err = UnmarshalPoly[Evaluations](r, data)
		require.Error(t, err)
	})

	t.Run(testString("Decoding/OutOfField", r), func(t *testing.T) {

		p := Poly[Coefficients]{Coeffs: []uint64{100, 0, 0, 0}}
		data, err := p.MarshalBinary()
		require.NoError(t, err)

		// the ring-agnostic decoder accepts any uint64
		var pRaw Poly[Coefficients]
		require.NoError(t, pRaw.UnmarshalBinary(data))
		require.Error(t, CheckCanonical(r, pRaw))

		_, err = UnmarshalPoly[Coefficients](r, data)
		require.Error(t, err)
		require.Contains(t, err.Error(), "[0, 17)")

		p.Coeffs[0] = 17
		data, err = p.MarshalBinary()
		require.NoError(t, err)
		_, err = UnmarshalPoly[Coefficients](r, data)
		require.Error(t, err)
	})

	t.Run(testString("Decoding/WrongDegree", r), func(t *testing.T) {
		p := NewPoly[Coefficients](8)
		data, err := p.MarshalBinary()
		require.NoError(t, err)
		_, err = UnmarshalPoly[Coefficients](r, data)
		require.Error(t, err)
	})

	t.Run(testString("Decoding/Vector", r), func(t *testing.T) {

		v := structs.Vector[Poly[Evaluations]]{
			{Coeffs: []uint64{1, 2, 3, 4}},
			{Coeffs: []uint64{5, 6, 7, 8}},
		}

		data, err := v.MarshalBinary()
		require.NoError(t, err)
		vNew, err := UnmarshalVector[Evaluations](r, data)
		require.NoError(t, err)
		require.True(t, v.Equal(vNew))

		v[1].Coeffs[3] = 1 << 40
		data, err = v.MarshalBinary()
		require.NoError(t, err)
		_, err = UnmarshalVector[Evaluations](r, data)
		require.Error(t, err)
		require.Contains(t, err.Error(), "polynomial 1")
	})

	t.Run(testString("Decoding/TruncatedHeader", r), func(t *testing.T) {
		p := Poly[Coefficients]{Coeffs: []uint64{1, 2, 3, 4}}
		data, err := p.MarshalBinary()
		require.NoError(t, err)

		// declares 2^20 coefficients but carries only 4
		binary.LittleEndian.PutUint64(data[1:], 1<<MaxLogN)
		var pNew Poly[Coefficients]
		require.Error(t, pNew.UnmarshalBinary(data))
	})
}

func testOperationSizes(t *testing.T) {

	r := genPresetRing(t, ToyParametersLiteral)

	t.Run(testString("Operations/SizeMismatch", r), func(t *testing.T) {

		p4, p2 := r.NewPoly(), NewPoly[Coefficients](2)

		require.Panics(t, func() { Add(r, p4, p4, p2) })
		require.Panics(t, func() { Add(r, p2, p4, p4) })
		require.Panics(t, func() { Sub(r, p4, p2, p4) })
		require.Panics(t, func() { Neg(r, p4, p2) })
		require.Panics(t, func() { MulScalar(r, p2, 3, p4) })

		require.NotPanics(t, func() { Add(r, p4, p4, p4) })
	})
}

func testBoundedSampler(t *testing.T) {

	r := genPresetRing(t, DefaultParametersLiteral)

	t.Run(testString("BoundedSampler/Invalid", r), func(t *testing.T) {
		_, err := NewBoundedSampler(nil, r, 10)
		require.Error(t, err)
		_, err = NewBoundedSampler(sampling.NewSeededPRNG(0), nil, 10)
		require.Error(t, err)
		_, err = NewBoundedSampler(sampling.NewSeededPRNG(0), r, 0)
		require.Error(t, err)
	})

	t.Run(testString("BoundedSampler/Bound=10/ChiSquare", r), func(t *testing.T) {

		const bound = 10
		const rounds = 40 // 40 * 256 >= 10,000 draws

		s, err := NewBoundedSampler(sampling.NewSeededPRNG(0x5eed), r, bound)
		require.NoError(t, err)
		require.Equal(t, uint64(bound), s.Bound())

		var counts [bound]int
		draws := make([]float64, 0, rounds*r.N())

		for i := 0; i < rounds; i++ {
			for _, c := range s.ReadNew().Coeffs {
				require.Less(t, c, uint64(bound))
				counts[c]++
				draws = append(draws, float64(c))
			}
		}

		expected := float64(len(draws)) / bound
		var chi2 float64
		for _, c := range counts {
			d := float64(c) - expected
			chi2 += d * d / expected
		}

		// 99.9% quantile of the chi-square distribution with 9 degrees of freedom
		require.Less(t, chi2, 27.88)

		mean, err := stats.Mean(draws)
		require.NoError(t, err)
		variance, err := stats.PopulationVariance(draws)
		require.NoError(t, err)

		// uniform over [0, 9]: mean 4.5, variance 8.25
		require.InDelta(t, 4.5, mean, 0.15)
		require.InDelta(t, 8.25, variance, 0.5)
	})

	t.Run(testString("BoundedSampler/Bound=1", r), func(t *testing.T) {
		s, err := NewBoundedSampler(sampling.NewSeededPRNG(1), r, 1)
		require.NoError(t, err)
		for _, c := range s.ReadNew().Coeffs {
			require.Zero(t, c)
		}
	})

	t.Run(testString("BoundedSampler/BoundLargerThanModulus", r), func(t *testing.T) {
		s, err := NewBoundedSampler(sampling.NewSeededPRNG(2), r, 1<<40)
		require.NoError(t, err)
		for _, c := range s.ReadNew().Coeffs {
			require.Less(t, c, r.Modulus())
		}
	})

	t.Run(testString("BoundedSampler/Vector", r), func(t *testing.T) {
		s, err := NewBoundedSampler(sampling.NewSeededPRNG(3), r, r.Parameters().Bound())
		require.NoError(t, err)

		v := s.ReadVectorNew()
		require.Len(t, v, r.Rank())

		vAgain := s.WithPRNG(sampling.NewSeededPRNG(3)).ReadVectorNew()
		require.True(t, v.Equal(vAgain))

		for i := range v {
			for _, c := range v[i].Coeffs {
				require.Less(t, c, r.Parameters().Bound())
			}
		}
	})

	t.Run(testString("BoundedSampler/KeyedPRNG", r), func(t *testing.T) {

		key := make([]byte, 32)
		prngA, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)
		prngB, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)

		sA, err := NewUniformSampler(prngA, r)
		require.NoError(t, err)
		sB, err := NewUniformSampler(prngB, r)
		require.NoError(t, err)

		a, b := sA.ReadNew(), sB.ReadNew()
		require.True(t, a.Equal(&b))
	})
}
