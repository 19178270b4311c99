// Package wire encodes and decodes the fixed-width little-endian fields
// ZNP SREQ/SRSP payload bodies are built from. Typed payload encoding is
// out of scope for the core mediator; this package is the leaf
// dependency the per-command façades (commands/) sit on, below the raw
// framing interface and the frame dispatcher.
package wire

import "encoding/binary"

// Builder appends fields to a payload buffer in wire order.
type Builder struct {
	buf []byte
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) U8(v byte) *Builder {
	b.buf = append(b.buf, v)
	return b
}

func (b *Builder) U16(v uint16) *Builder {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *Builder) U32(v uint32) *Builder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *Builder) U64(v uint64) *Builder {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// LenPrefixedBytes appends a 1-byte length followed by data, the
// convention ZNP uses for variable-length fields like AF DATA_REQUEST's
// Data.
func (b *Builder) LenPrefixedBytes(data []byte) *Builder {
	b.buf = append(b.buf, byte(len(data)))
	b.buf = append(b.buf, data...)
	return b
}

func (b *Builder) Bytes() []byte { return b.buf }

// Reader consumes fixed-width little-endian fields from a payload in
// order, tracking an offset and the first error encountered so callers
// can chain reads and check Err once at the end.
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

func (r *Reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.off+n > len(r.buf) {
		r.err = errShortRead
		return false
	}
	return true
}

func (r *Reader) U8() byte {
	if !r.need(1) {
		return 0
	}
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *Reader) U16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *Reader) U32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *Reader) U64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *Reader) Rest() []byte {
	if r.err != nil || r.off > len(r.buf) {
		return nil
	}
	return r.buf[r.off:]
}

func (r *Reader) Err() error { return r.err }

var errShortRead = shortReadError{}

type shortReadError struct{}

func (shortReadError) Error() string { return "wire: short read" }
