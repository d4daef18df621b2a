package bpg

import (
	"bytes"
	"encoding/binary"
)

// DefaultMaxPacketBody bounds a single packet's data_length to guard
// against a corrupt or hostile header causing unbounded buffering.
const DefaultMaxPacketBody = 64 << 20 // 64 MiB

// Decoder reassembles AppPackets from an arbitrarily chunked byte
// stream and groups them by group_id, firing callbacks in the exact
// order packets complete. It holds no transport knowledge — callers
// feed it bytes from whatever link they have.
type Decoder struct {
	buf         bytes.Buffer
	groups      map[uint32][]AppPacket
	MaxBodySize int
}

// NewDecoder returns a Decoder with the default body size ceiling.
func NewDecoder() *Decoder {
	return &Decoder{
		groups:      make(map[uint32][]AppPacket),
		MaxBodySize: DefaultMaxPacketBody,
	}
}

// Reset discards any buffered partial packet and in-progress groups.
func (d *Decoder) Reset() {
	d.buf.Reset()
	d.groups = make(map[uint32][]AppPacket)
}

// Process appends chunk to the decoder's rolling buffer and parses as
// many complete packets as are available. onPacket fires for every
// packet in strict arrival order; onGroup fires once a packet with
// EndOfGroup set completes that group's sequence, in the same order.
// Either callback may be nil.
func (d *Decoder) Process(chunk []byte, onPacket func(AppPacket), onGroup func(groupID uint32, packets []AppPacket)) error {
	if len(chunk) > 0 {
		d.buf.Write(chunk)
	}

	for {
		pkt, consumed, err := d.tryParseOne(d.buf.Bytes())
		if err == errIncompletePacket {
			break
		}
		if err != nil {
			return err
		}

		d.buf.Next(consumed)

		if onPacket != nil {
			onPacket(pkt)
		}

		gid := pkt.GroupID
		d.groups[gid] = append(d.groups[gid], pkt)

		if pkt.EndOfGroup {
			complete := d.groups[gid]
			delete(d.groups, gid)
			if onGroup != nil {
				onGroup(gid, complete)
			}
		}
	}
	return nil
}

// tryParseOne attempts to parse a single packet from the front of b.
// It returns errIncompletePacket if b does not yet hold a full packet.
func (d *Decoder) tryParseOne(b []byte) (AppPacket, int, error) {
	h, err := decodeHeader(b)
	if err != nil {
		return AppPacket{}, 0, err
	}

	maxBody := d.MaxBodySize
	if maxBody <= 0 {
		maxBody = DefaultMaxPacketBody
	}
	if h.DataLength < 4 || int(h.DataLength) > maxBody {
		return AppPacket{}, 0, InvalidPacketHeader
	}

	total := HeaderSize + int(h.DataLength)
	if len(b) < total {
		return AppPacket{}, 0, errIncompletePacket
	}

	body := b[HeaderSize:total]
	metaLen := binary.BigEndian.Uint32(body[0:4])
	if int(metaLen) > len(body)-4 {
		return AppPacket{}, 0, InvalidPacketHeader
	}

	meta := string(body[4 : 4+metaLen])
	binaryBytes := make([]byte, len(body)-4-int(metaLen))
	copy(binaryBytes, body[4+int(metaLen):])

	pkt := AppPacket{
		GroupID:    h.GroupID,
		TargetID:   h.TargetID,
		Tag:        h.Tag,
		EndOfGroup: h.EndOfGroup,
		Meta:       meta,
		Binary:     binaryBytes,
	}
	return pkt, total, nil
}
