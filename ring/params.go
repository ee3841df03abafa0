package ring

import (
	"encoding/json"
	"fmt"
)

// Type is the type of ring used by the transform.
type Type uint8

const (
	// Cyclic is the ring Z_q[X]/(X^N - 1), transformed with a primitive N-th root of unity.
	Cyclic Type = iota
	// NegaCyclic is the ring Z_q[X]/(X^N + 1), transformed with a primitive 2N-th root of unity.
	NegaCyclic
)

var typeToString = [2]string{"Cyclic", "NegaCyclic"}

var typeFromString = map[string]Type{
	"Cyclic":     Cyclic,
	"NegaCyclic": NegaCyclic,
}

func (t Type) String() string {
	if int(t) >= len(typeToString) {
		return "Unknown"
	}
	return typeToString[int(t)]
}

// MarshalJSON encodes the Type as its name.
func (t Type) MarshalJSON() ([]byte, error) {
	if int(t) >= len(typeToString) {
		return nil, fmt.Errorf("invalid ring type: %d", t)
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a Type from its name.
func (t *Type) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return err
	}
	var ok bool
	if *t, ok = typeFromString[s]; !ok {
		return fmt.Errorf("invalid ring type: %s", s)
	}
	return nil
}

// ParametersLiteral is a literal representation of the parameters of a Ring.
// It has public fields and is used to express unchecked user-defined parameters
// literally into Go programs. The NewParametersFromLiteral function is used to
// generate the actual checked parameters from the literal representation.
//
// Generator is a primitive N-th root of unity for Cyclic rings, and a primitive
// 2N-th root of unity for NegaCyclic rings. Rank is the length of module vectors
// and Bound is the exclusive upper bound of the BoundedSampler.
type ParametersLiteral struct {
	Modulus   uint64
	Generator uint64
	LogN      int
	Rank      int
	Bound     uint64
	Type      Type
}

var (
	// DefaultParametersLiteral is the cyclic ring Z_65537[X]/(X^256 - 1) with
	// secret vectors of 4 polynomials bounded by 127.
	DefaultParametersLiteral = ParametersLiteral{
		Modulus:   0x10001,
		Generator: 282,
		LogN:      8,
		Rank:      4,
		Bound:     127,
		Type:      Cyclic,
	}

	// NegaCyclicParametersLiteral is the nega-cyclic ring Z_65537[X]/(X^256 + 1).
	// Its generator 15028 is a square root of 282.
	NegaCyclicParametersLiteral = ParametersLiteral{
		Modulus:   0x10001,
		Generator: 15028,
		LogN:      8,
		Rank:      4,
		Bound:     127,
		Type:      NegaCyclic,
	}

	// ToyParametersLiteral is the cyclic ring Z_17[X]/(X^4 - 1), small enough
	// to be checked by hand.
	ToyParametersLiteral = ParametersLiteral{
		Modulus:   17,
		Generator: 4,
		LogN:      2,
		Rank:      1,
		Bound:     17,
		Type:      Cyclic,
	}
)

// MaxLogN is the largest supported log2 of the ring degree.
const MaxLogN = 20

// Parameters represents a set of checked parameters of a Ring.
// It is immutable and can be safely shared.
type Parameters struct {
	field     Field
	generator uint64
	logN      int
	rank      int
	bound     uint64
	ringType  Type
}

// NewParametersFromLiteral instantiates a set of Parameters from a ParametersLiteral.
// It returns an error if the modulus is not a prime of at most MaxModulusBits bits, if LogN is
// not in [0, MaxLogN], if N is not invertible, if the generator does not have the order required
// by the ring type, or if Rank or Bound is zero.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if params.field, err = NewField(pl.Modulus); err != nil {
		return Parameters{}, fmt.Errorf("NewField: %w", err)
	}

	if pl.LogN < 0 || pl.LogN > MaxLogN {
		return Parameters{}, fmt.Errorf("invalid LogN: %d not in [0, %d]", pl.LogN, MaxLogN)
	}

	N := uint64(1) << pl.LogN

	if N%pl.Modulus == 0 {
		return Parameters{}, fmt.Errorf("invalid LogN: N=%d is not invertible modulo %d", N, pl.Modulus)
	}

	var order uint64
	switch pl.Type {
	case Cyclic:
		order = N
	case NegaCyclic:
		order = N << 1
	default:
		return Parameters{}, fmt.Errorf("invalid ring type: %d", pl.Type)
	}

	if err = CheckNthRoot(params.field, pl.Generator, order); err != nil {
		return Parameters{}, fmt.Errorf("invalid Generator for a %s ring of degree %d: %w", pl.Type, N, err)
	}

	if pl.Rank < 1 {
		return Parameters{}, fmt.Errorf("invalid Rank: %d < 1", pl.Rank)
	}

	if pl.Bound < 1 {
		return Parameters{}, fmt.Errorf("invalid Bound: %d < 1", pl.Bound)
	}

	params.generator = pl.Generator
	params.logN = pl.LogN
	params.rank = pl.Rank
	params.bound = pl.Bound
	params.ringType = pl.Type

	return
}

// ParametersLiteral returns the ParametersLiteral of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		Modulus:   p.field.Modulus,
		Generator: p.generator,
		LogN:      p.logN,
		Rank:      p.rank,
		Bound:     p.bound,
		Type:      p.ringType,
	}
}

// Field returns the prime field of the coefficients.
func (p Parameters) Field() Field {
	return p.field
}

// Modulus returns the modulus q.
func (p Parameters) Modulus() uint64 {
	return p.field.Modulus
}

// Generator returns the root of unity of the transform.
func (p Parameters) Generator() uint64 {
	return p.generator
}

// N returns the ring degree.
func (p Parameters) N() int {
	return 1 << p.logN
}

// LogN returns the log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.logN
}

// Rank returns the length of module vectors.
func (p Parameters) Rank() int {
	return p.rank
}

// Bound returns the exclusive bound of sampled coefficients.
func (p Parameters) Bound() uint64 {
	return p.bound
}

// Type returns the type of the ring.
func (p Parameters) Type() Type {
	return p.ringType
}

// Equal returns true if both parameters are identical.
func (p Parameters) Equal(other Parameters) bool {
	return p.ParametersLiteral() == other.ParametersLiteral()
}

// MarshalJSON returns a JSON representation of the Parameters.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of Parameters into the receiver.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var pl ParametersLiteral
	if err = json.Unmarshal(data, &pl); err != nil {
		return err
	}
	*p, err = NewParametersFromLiteral(pl)
	return
}
