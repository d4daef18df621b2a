package bpg

// EncodePacket writes one BPG packet (header + body) into w:
//
//	data_length = 4 + len(meta) + payload.Len()
//	tl(2) prop(4) target_id(4) group_id(4) data_length(4) meta_len(4) meta binary
//
// If w does not have 18+data_length bytes remaining, EncodePacket
// returns BufferTooSmall and leaves w's size unchanged save for any
// bytes written to a partial header (callers must discard the writer
// on error, per spec).
func EncodePacket(w *Writer, groupID, targetID uint32, tag [2]byte, endOfGroup bool, meta string, payload Payload) error {
	metaBytes := []byte(meta)
	dataLength := 4 + len(metaBytes) + payload.Len()
	if w.Remaining() < HeaderSize+dataLength {
		return BufferTooSmall
	}

	prop := uint32(0)
	if endOfGroup {
		prop = propEndOfGroup
	}

	if err := w.AppendTag(tag); err != nil {
		return BufferTooSmall
	}
	if err := w.AppendU32BE(prop); err != nil {
		return BufferTooSmall
	}
	if err := w.AppendU32BE(targetID); err != nil {
		return BufferTooSmall
	}
	if err := w.AppendU32BE(groupID); err != nil {
		return BufferTooSmall
	}
	if err := w.AppendU32BE(uint32(dataLength)); err != nil {
		return BufferTooSmall
	}
	if err := w.AppendU32BE(uint32(len(metaBytes))); err != nil {
		return BufferTooSmall
	}
	if len(metaBytes) > 0 {
		if err := w.AppendBytes(metaBytes); err != nil {
			return BufferTooSmall
		}
	}
	if payload.Len() > 0 {
		if payload.isProducer() {
			dst := w.Claim(payload.Len())
			if dst == nil {
				return BufferTooSmall
			}
			if err := payload.fill(dst); err != nil {
				return EncodingError
			}
		} else {
			if err := w.AppendBytes(payload.owned); err != nil {
				return BufferTooSmall
			}
		}
	}
	return nil
}

// Encode writes pkt into w using its Binary field as a borrowed payload.
func Encode(w *Writer, pkt AppPacket) error {
	return EncodePacket(w, pkt.GroupID, pkt.TargetID, pkt.Tag, pkt.EndOfGroup, pkt.Meta, BorrowedPayload(pkt.Binary))
}

// EncodeGroup encodes each packet in order into the same writer. On the
// first failure it stops and returns that error; the writer is left
// with whatever partial prefix was already committed — the caller must
// discard it rather than transmit a partial group.
func EncodeGroup(w *Writer, packets []AppPacket) error {
	for _, pkt := range packets {
		if err := Encode(w, pkt); err != nil {
			return err
		}
	}
	return nil
}
