// Package fast provides minimal byte buffer readers and writers for the
// canonical serializer. The Reader performs no bounds checking and panics on
// over-read; callers recover at the serialization boundary.
package fast

// Reader consumes a byte slice linearly.
type Reader struct {
	buf    []byte
	offset int
}

// Writer appends to a byte slice.
type Writer struct {
	buf []byte
}

// NewReader wraps bb for linear consumption.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter wraps bb, which is usually `make([]byte, 0, capacity)`.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends one byte.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a slice of bytes.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// Read consumes the next n bytes. The returned slice aliases the underlying
// buffer. Panics if fewer than n bytes remain.
func (b *Reader) Read(n int) []byte {
	res := b.buf[b.offset : b.offset+n]
	b.offset += n
	return res
}

// ReadByte consumes one byte. Panics if the buffer is exhausted.
func (b *Reader) ReadByte() byte {
	res := b.buf[b.offset]
	b.offset++
	return res
}

// Position returns the number of consumed bytes.
func (b *Reader) Position() int {
	return b.offset
}

// Bytes returns the whole underlying buffer.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Bytes returns the accumulated content.
func (b *Writer) Bytes() []byte {
	return b.buf
}

// Empty reports whether the Reader has consumed every byte.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}
