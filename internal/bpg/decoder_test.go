package bpg

import (
	"bytes"
	"testing"
)

func encodeS1(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, 64)
	w := NewWriter(buf)
	pkt := AppPacket{
		GroupID:    7,
		TargetID:   3,
		Tag:        [2]byte{'T', 'X'},
		EndOfGroup: true,
		Meta:       `{"k":1}`,
		Binary:     []byte{0x01, 0x02, 0x03},
	}
	if err := Encode(w, pkt); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return w.Bytes()
}

// TestDecoder_S2 feeds S1's bytes one at a time and expects exactly
// one on_packet and one on_group after the final byte.
func TestDecoder_S2(t *testing.T) {
	data := encodeS1(t)
	dec := NewDecoder()

	var packetCount, groupCount int
	var lastGroup uint32
	var lastPackets []AppPacket

	for i, b := range data {
		err := dec.Process([]byte{b}, func(p AppPacket) { packetCount++ }, func(gid uint32, pkts []AppPacket) {
			groupCount++
			lastGroup = gid
			lastPackets = pkts
		})
		if err != nil {
			t.Fatalf("Process byte %d: %v", i, err)
		}
		if i < len(data)-1 {
			if packetCount != 0 || groupCount != 0 {
				t.Fatalf("callback fired early at byte %d: packets=%d groups=%d", i, packetCount, groupCount)
			}
		}
	}

	if packetCount != 1 {
		t.Fatalf("on_packet fired %d times, want 1", packetCount)
	}
	if groupCount != 1 {
		t.Fatalf("on_group fired %d times, want 1", groupCount)
	}
	if lastGroup != 7 {
		t.Fatalf("on_group id = %d, want 7", lastGroup)
	}
	if len(lastPackets) != 1 {
		t.Fatalf("on_group packets = %d, want 1", len(lastPackets))
	}
}

// TestDecoder_S3 encodes three packets across two groups and checks
// ordering: on_packet x3 in order, then on_group(1, ...) right after
// the third on_packet, and on_group(2, ...) never fires.
func TestDecoder_S3(t *testing.T) {
	buf := make([]byte, 256)
	w := NewWriter(buf)

	packets := []AppPacket{
		{GroupID: 1, TargetID: 1, Tag: [2]byte{'A', 'A'}, EndOfGroup: false},
		{GroupID: 2, TargetID: 1, Tag: [2]byte{'B', 'B'}, EndOfGroup: false},
		{GroupID: 1, TargetID: 1, Tag: [2]byte{'C', 'C'}, EndOfGroup: true},
	}
	if err := EncodeGroup(w, packets); err != nil {
		t.Fatalf("EncodeGroup: %v", err)
	}

	dec := NewDecoder()
	var order []string
	var group1 []AppPacket
	group2Fired := false

	err := dec.Process(w.Bytes(), func(p AppPacket) {
		order = append(order, string(p.Tag[:]))
	}, func(gid uint32, pkts []AppPacket) {
		if gid == 1 {
			group1 = pkts
		}
		if gid == 2 {
			group2Fired = true
		}
		if len(order) != 3 {
			t.Fatalf("on_group fired after %d on_packet calls, want 3", len(order))
		}
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	wantOrder := []string{"AA", "BB", "CC"}
	if len(order) != len(wantOrder) {
		t.Fatalf("on_packet order = %v, want %v", order, wantOrder)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Fatalf("on_packet order = %v, want %v", order, wantOrder)
		}
	}
	if len(group1) != 2 {
		t.Fatalf("group 1 packets = %d, want 2", len(group1))
	}
	if group2Fired {
		t.Fatal("on_group(2, ...) fired, want it to never fire")
	}
}

// TestDecoder_ChunkingInvariance checks that splitting the same byte
// stream at arbitrary boundaries yields the same decoded packets.
func TestDecoder_ChunkingInvariance(t *testing.T) {
	data := encodeS1(t)

	splits := [][]int{
		{len(data)},
		{1, len(data) - 1},
		{5, 10, len(data) - 15},
		{len(data) - 1, 1},
	}

	for _, split := range splits {
		dec := NewDecoder()
		var got []AppPacket
		offset := 0
		for _, n := range split {
			chunk := data[offset : offset+n]
			offset += n
			if err := dec.Process(chunk, func(p AppPacket) { got = append(got, p) }, nil); err != nil {
				t.Fatalf("Process chunk: %v", err)
			}
		}
		if len(got) != 1 {
			t.Fatalf("split %v: got %d packets, want 1", split, len(got))
		}
		if got[0].GroupID != 7 || !bytes.Equal(got[0].Binary, []byte{1, 2, 3}) {
			t.Fatalf("split %v: packet mismatch: %+v", split, got[0])
		}
	}
}

func TestDecoder_InvalidHeaderOversizeBody(t *testing.T) {
	dec := NewDecoder()
	dec.MaxBodySize = 8

	buf := make([]byte, 64)
	w := NewWriter(buf)
	pkt := AppPacket{GroupID: 1, TargetID: 1, Tag: [2]byte{'A', 'A'}, Binary: make([]byte, 20)}
	if err := Encode(w, pkt); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	err := dec.Process(w.Bytes(), nil, nil)
	if err != InvalidPacketHeader {
		t.Fatalf("Process = %v, want InvalidPacketHeader", err)
	}
}

func TestDecoder_Reset(t *testing.T) {
	data := encodeS1(t)
	dec := NewDecoder()

	if err := dec.Process(data[:10], nil, nil); err != nil {
		t.Fatalf("Process partial: %v", err)
	}
	dec.Reset()
	if dec.buf.Len() != 0 {
		t.Fatalf("buffer not cleared after Reset: %d bytes", dec.buf.Len())
	}

	var count int
	if err := dec.Process(data, func(p AppPacket) { count++ }, nil); err != nil {
		t.Fatalf("Process after reset: %v", err)
	}
	if count != 1 {
		t.Fatalf("on_packet fired %d times after reset+full feed, want 1", count)
	}
}
