package ring

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tuneinsight/latticore/utils"
	"github.com/tuneinsight/latticore/utils/buffer"
)

// Coefficients is the Basis of polynomials given by their coefficients
// c_0, ..., c_{N-1} in natural order.
type Coefficients struct{}

// Evaluations is the Basis of polynomials given by their values at the N
// roots of unity of the transform, in bit-reversed order.
type Evaluations struct{}

// Basis is the set of representations a Poly can be in.
// The basis is part of the type, so that operations that are only
// meaningful in one basis cannot be applied to the other.
type Basis interface {
	Coefficients | Evaluations
}

const (
	basisCoefficients = uint8(0)
	basisEvaluations  = uint8(1)
)

func basisTag[B Basis]() uint8 {
	var b B
	if _, ok := any(b).(Evaluations); ok {
		return basisEvaluations
	}
	return basisCoefficients
}

func basisName(tag uint8) string {
	switch tag {
	case basisCoefficients:
		return "Coefficients"
	case basisEvaluations:
		return "Evaluations"
	default:
		return fmt.Sprintf("Basis(%d)", tag)
	}
}

// Poly is the structure that contains the coefficients of a polynomial
// of the ring Z_q[X]/(X^N -/+ 1). Coeffs are expected to be in [0, q).
type Poly[B Basis] struct {
	Coeffs []uint64
}

// NewPoly creates a new polynomial with N coefficients set to zero.
func NewPoly[B Basis](N int) Poly[B] {
	return Poly[B]{Coeffs: make([]uint64, N)}
}

// N returns the number of coefficients of the polynomial.
func (pol Poly[B]) N() int {
	return len(pol.Coeffs)
}

// Basis returns the name of the basis of the polynomial.
func (pol Poly[B]) Basis() string {
	return basisName(basisTag[B]())
}

// Zero sets all coefficients of the target polynomial to 0.
func (pol Poly[B]) Zero() {
	clear(pol.Coeffs)
}

// CopyNew creates an exact copy of the target polynomial.
func (pol *Poly[B]) CopyNew() *Poly[B] {
	p1 := NewPoly[B](pol.N())
	copy(p1.Coeffs, pol.Coeffs)
	return &p1
}

// Copy copies the coefficients of p1 on the target polynomial.
// Only min(pol.N(), p1.N()) coefficients are copied.
func (pol Poly[B]) Copy(p1 Poly[B]) {
	copy(pol.Coeffs, p1.Coeffs)
}

// Equal returns true if the receiver Poly is equal to the provided other Poly.
// This function checks for strict equality between the polynomial coefficients.
func (pol *Poly[B]) Equal(other *Poly[B]) bool {
	if pol == other {
		return true
	}

	if pol != nil && other != nil {
		return utils.EqualSlice(pol.Coeffs, other.Coeffs)
	}

	return false
}

// BinarySize returns the serialized size of the object in bytes.
func (pol *Poly[B]) BinarySize() int {
	return 1 + 8 + pol.N()<<3
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// The encoding is a basis tag byte, the number of coefficients as a uint64,
// then each coefficient on 8 bytes, little endian.
//
// Unless w implements the buffer.Writer interface (see latticore/utils/buffer/buffer.go),
// it will be wrapped into a bufio.Writer.
func (pol *Poly[B]) WriteTo(w io.Writer) (n int64, err error) {

	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteUint8(w, basisTag[B]()); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = buffer.WriteUint64(w, uint64(pol.N())); err != nil {
			return n + inc, err
		}

		n += inc

		if inc, err = buffer.WriteUint64Slice(w, pol.Coeffs); err != nil {
			return n + inc, err
		}

		n += inc

		return n, w.Flush()

	default:
		return pol.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
//
// An error is returned if the encoded basis does not match the basis
// of the receiver. The coefficients are not checked against any modulus:
// use UnmarshalPoly or CheckCanonical to decode a polynomial of a Ring.
//
// Unless r implements the buffer.Reader interface (see latticore/utils/buffer/buffer.go),
// it will be wrapped into a bufio.Reader.
func (pol *Poly[B]) ReadFrom(r io.Reader) (n int64, err error) {

	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		var tag uint8
		if inc, err = buffer.ReadUint8(r, &tag); err != nil {
			return n + inc, err
		}

		n += inc

		if want := basisTag[B](); tag != want {
			return n, fmt.Errorf("cannot ReadFrom: encoded basis is %s but receiver basis is %s", basisName(tag), basisName(want))
		}

		var N uint64
		if inc, err = buffer.ReadUint64(r, &N); err != nil {
			return n + inc, err
		}

		n += inc

		if N > 1<<MaxLogN {
			return n, fmt.Errorf("cannot ReadFrom: invalid number of coefficients %d", N)
		}

		if b, ok := r.(*buffer.Buffer); ok && N<<3 > uint64(b.Size()) {
			return n, fmt.Errorf("cannot ReadFrom: %d coefficients exceed the %d remaining bytes", N, b.Size())
		}

		if cap(pol.Coeffs) < int(N) {
			pol.Coeffs = make([]uint64, N)
		}

		pol.Coeffs = pol.Coeffs[:N]

		if inc, err = buffer.ReadUint64Slice(r, pol.Coeffs); err != nil {
			return n + inc, err
		}

		return n + inc, nil

	default:
		return pol.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pol *Poly[B]) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(pol.BinarySize())
	_, err = pol.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (pol *Poly[B]) UnmarshalBinary(p []byte) (err error) {
	_, err = pol.ReadFrom(buffer.NewBuffer(p))
	return
}
