package bpg

import "encoding/binary"

// Writer is an append-only cursor over a borrowed byte region. Every
// write is bounds-checked; the offset advances only on success. Writer
// never reallocates — the underlying bytes belong to the caller.
type Writer struct {
	base   []byte
	offset int
}

// NewWriter wraps buf for writing from offset zero.
func NewWriter(buf []byte) *Writer {
	return &Writer{base: buf}
}

// Remaining returns the number of bytes left before the writer overflows.
func (w *Writer) Remaining() int {
	return len(w.base) - w.offset
}

// Size returns the current write offset.
func (w *Writer) Size() int {
	return w.offset
}

// Bytes returns the portion of the underlying buffer written so far.
func (w *Writer) Bytes() []byte {
	return w.base[:w.offset]
}

// AppendBytes copies src into the writer, advancing the offset. It
// reports BufferTooSmall and leaves the offset unchanged on overflow.
func (w *Writer) AppendBytes(src []byte) error {
	if len(src) > w.Remaining() {
		return BufferTooSmall
	}
	copy(w.base[w.offset:], src)
	w.offset += len(src)
	return nil
}

// AppendU32BE appends v as four big-endian bytes.
func (w *Writer) AppendU32BE(v uint32) error {
	if w.Remaining() < 4 {
		return BufferTooSmall
	}
	binary.BigEndian.PutUint32(w.base[w.offset:w.offset+4], v)
	w.offset += 4
	return nil
}

// AppendTag appends a raw two-byte type code verbatim (no endian
// conversion — tl is opaque per spec).
func (w *Writer) AppendTag(tag [2]byte) error {
	if w.Remaining() < 2 {
		return BufferTooSmall
	}
	w.base[w.offset] = tag[0]
	w.base[w.offset+1] = tag[1]
	w.offset += 2
	return nil
}

// Claim reserves n bytes, advances the offset, and returns a slice over
// that region for direct fill-in by the caller. If n exceeds Remaining,
// Claim returns nil and leaves the offset unchanged.
func (w *Writer) Claim(n int) []byte {
	if n > w.Remaining() {
		return nil
	}
	s := w.base[w.offset : w.offset+n : w.offset+n]
	w.offset += n
	return s
}
