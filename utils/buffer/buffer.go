// Package buffer implements the fixed-width little-endian codec used by the
// binary encodings of polynomials and vectors.
//
// The codec writes into and reads from the internal buffer of its target
// instead of going through intermediate slices. The targets are bufio.Writer
// and bufio.Reader, or a Buffer over an existing []byte.
package buffer

import (
	"fmt"
	"io"
)

// Writer is implemented by bufio.Writer and Buffer.
type Writer interface {
	io.Writer
	Flush() (err error)
	AvailableBuffer() []byte
	Available() int
}

// Reader is implemented by bufio.Reader and Buffer.
type Reader interface {
	io.Reader
	Size() int
	Peek(n int) ([]byte, error)
	Discard(n int) (discarded int, err error)
}

// Buffer is a Writer and Reader over a []byte of fixed length. Writes and
// reads share the same backing slice with independent offsets.
type Buffer struct {
	buf []byte
	w   int
	r   int
}

// NewBuffer returns a Buffer reading from buff. Writes overwrite buff from its start.
func NewBuffer(buff []byte) *Buffer {
	return &Buffer{buf: buff}
}

// NewBufferSize returns an empty Buffer able to hold size bytes.
func NewBufferSize(size int) *Buffer {
	return &Buffer{buf: make([]byte, size)}
}

// Bytes returns the written part of the backing slice.
func (b *Buffer) Bytes() []byte {
	return b.buf[:b.w]
}

// Write appends p to the written part. It fails without writing anything
// if p does not fit.
func (b *Buffer) Write(p []byte) (n int, err error) {
	if len(p) > b.Available() {
		return 0, fmt.Errorf("buffer too small: %d bytes available, %d required", b.Available(), len(p))
	}
	n = copy(b.buf[b.w:], p)
	b.w += n
	return n, nil
}

// Flush is a no-op.
func (b *Buffer) Flush() (err error) {
	return nil
}

// AvailableBuffer returns an empty slice with Available() capacity, valid
// until the next write.
func (b *Buffer) AvailableBuffer() []byte {
	return b.buf[b.w:b.w]
}

// Available returns the number of bytes that can still be written.
func (b *Buffer) Available() int {
	return len(b.buf) - b.w
}

// Read reads len(p) bytes into p. It returns io.EOF if fewer bytes remain.
func (b *Buffer) Read(p []byte) (n int, err error) {
	n = copy(p, b.buf[b.r:])
	b.r += n
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the number of bytes that remain to be read.
func (b *Buffer) Size() int {
	return len(b.buf) - b.r
}

// Peek returns the next n bytes without consuming them, or what remains
// along with io.EOF if fewer than n bytes are left.
func (b *Buffer) Peek(n int) ([]byte, error) {
	if n > b.Size() {
		return b.buf[b.r:], io.EOF
	}
	return b.buf[b.r : b.r+n], nil
}

// Discard consumes the next n bytes.
func (b *Buffer) Discard(n int) (discarded int, err error) {
	if n > b.Size() {
		discarded = b.Size()
		b.r = len(b.buf)
		return discarded, io.EOF
	}
	b.r += n
	return n, nil
}
