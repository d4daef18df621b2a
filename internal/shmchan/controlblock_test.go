package shmchan

import "testing"

func TestNewSharedRegion_Layout(t *testing.T) {
	r, n := 10, 20
	buf := make([]byte, ControlHeaderSize+r+n)
	region, err := NewSharedRegion(buf, r, n)
	if err != nil {
		t.Fatalf("NewSharedRegion: %v", err)
	}
	if len(region.DataR2H()) != r {
		t.Fatalf("DataR2H len = %d, want %d", len(region.DataR2H()), r)
	}
	if len(region.DataH2R()) != n {
		t.Fatalf("DataH2R len = %d, want %d", len(region.DataH2R()), n)
	}

	region.Control.SetSigR2H(1)
	region.Control.SetLenR2H(4)
	if region.Control.SigR2H() != 1 || region.Control.LenR2H() != 4 {
		t.Fatal("control word round-trip failed")
	}

	region.DataR2H()[0] = 0xAB
	if buf[ControlHeaderSize] != 0xAB {
		t.Fatal("DataR2H does not alias the underlying buffer")
	}
}

func TestNewSharedRegion_TooSmall(t *testing.T) {
	buf := make([]byte, 10)
	if _, err := NewSharedRegion(buf, 100, 100); err == nil {
		t.Fatal("expected error for undersized region")
	}
}

func TestControlBlockZero(t *testing.T) {
	buf := make([]byte, ControlHeaderSize+4+4)
	region, err := NewSharedRegion(buf, 4, 4)
	if err != nil {
		t.Fatalf("NewSharedRegion: %v", err)
	}
	region.Control.SetSigR2H(1)
	region.Control.SetLenR2H(4)
	region.Control.SetSigH2R(1)
	region.Control.SetLenH2R(4)

	region.Control.Zero()
	if region.Control.SigR2H() != 0 || region.Control.LenR2H() != 0 ||
		region.Control.SigH2R() != 0 || region.Control.LenH2R() != 0 {
		t.Fatal("Zero did not clear all four control words")
	}
}
