// Package pool provides the growable byte buffer owned by block decoders.
package pool

// BlockBufferDefaultSize is the initial capacity of a decoder's block
// buffer. Uncompressed OSM data blocks are usually several hundred KiB, so
// one block decode typically settles the capacity after the first grow.
const BlockBufferDefaultSize = 1024 * 64 // 64KiB

// ByteBuffer is a growable byte slice with explicit length control.
//
// A ByteBuffer is exclusively owned by a single decoder instance and is
// fully overwritten on every decode; it is never shared between goroutines
// and carries no synchronization.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Reset resets the buffer to be empty, but retains the allocated memory for
// reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Resize sets the buffer length to exactly n bytes, reallocating when the
// capacity is insufficient. Existing contents are not preserved; the buffer
// is meant to be completely overwritten by the caller.
//
// Panics if n is negative.
func (bb *ByteBuffer) Resize(n int) {
	if n < 0 {
		panic("Resize: negative length")
	}

	if n <= cap(bb.B) {
		bb.B = bb.B[:n]
		return
	}

	bb.B = make([]byte, n)
}

// Set replaces the buffer contents with a copy of data.
func (bb *ByteBuffer) Set(data []byte) {
	bb.Resize(len(data))
	copy(bb.B, data)
}
