package bpg

import "encoding/binary"

// HeaderSize is the fixed 18-byte BPG packet header size:
// tl(2) + prop(4) + target_id(4) + group_id(4) + data_length(4).
const HeaderSize = 18

// propEndOfGroup is the sole defined bit of the prop bitfield.
const propEndOfGroup = uint32(1)

// AppPacket is the logical, decoded view of one BPG packet.
type AppPacket struct {
	GroupID    uint32
	TargetID   uint32
	Tag        [2]byte
	EndOfGroup bool
	Meta       string
	Binary     []byte
}

// Header mirrors the 18-byte wire header fields for callers that want
// to inspect or build one without a full AppPacket.
type Header struct {
	Tag        [2]byte
	TargetID   uint32
	GroupID    uint32
	EndOfGroup bool
	DataLength uint32
}

func decodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, errIncompletePacket
	}
	var h Header
	h.Tag[0], h.Tag[1] = b[0], b[1]
	prop := binary.BigEndian.Uint32(b[2:6])
	h.EndOfGroup = prop&propEndOfGroup != 0
	h.TargetID = binary.BigEndian.Uint32(b[6:10])
	h.GroupID = binary.BigEndian.Uint32(b[10:14])
	h.DataLength = binary.BigEndian.Uint32(b[14:18])
	return h, nil
}
