package bpg

// Payload is the binary body of an AppPacket. It is produced one of
// three ways: an owned copy, a caller-retained slice the encoder only
// borrows for the duration of the encode, or a zero-copy producer that
// fills a claimed sub-slice of the writer directly (for large payloads
// such as framebuffers, to avoid a second copy).
type Payload struct {
	size    int
	owned   []byte
	fill    func(dst []byte) error
}

// OwnedPayload wraps a byte slice the Payload takes ownership of.
func OwnedPayload(b []byte) Payload {
	return Payload{size: len(b), owned: b}
}

// BorrowedPayload wraps a byte slice the caller retains ownership of.
// The encoder only reads from it during the encode call.
func BorrowedPayload(b []byte) Payload {
	return Payload{size: len(b), owned: b}
}

// ProducerPayload describes a payload of known size whose bytes are
// produced by fill directly into a claimed writer slice. fill must
// write exactly size bytes into dst.
func ProducerPayload(size int, fill func(dst []byte) error) Payload {
	return Payload{size: size, fill: fill}
}

// Len returns the payload's encoded length in bytes.
func (p Payload) Len() int {
	return p.size
}

// isProducer reports whether this payload must be filled via claim.
func (p Payload) isProducer() bool {
	return p.fill != nil
}
