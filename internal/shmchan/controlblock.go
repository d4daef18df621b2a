/*
 *
 * Copyright 2025 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package shmchan

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// ControlHeaderSize is the fixed 16-byte control block: four atomic
// 32-bit words, two per direction (signal, length).
const ControlHeaderSize = 16

// ControlBlock is a typed, atomic-accessor view over the first 16
// bytes of a SharedRegion. It never owns the bytes; it is a borrowed
// view, valid only as long as the backing region is.
type ControlBlock struct {
	sigR2H uint32 // 0x00: outer->host signal
	lenR2H uint32 // 0x04: outer->host length
	sigH2R uint32 // 0x08: host->outer signal
	lenH2R uint32 // 0x0C: host->outer length
}

// SigR2H returns the outer->host signal word.
func (c *ControlBlock) SigR2H() uint32 { return atomic.LoadUint32(&c.sigR2H) }

// SetSigR2H stores the outer->host signal word.
func (c *ControlBlock) SetSigR2H(v uint32) { atomic.StoreUint32(&c.sigR2H, v) }

// LenR2H returns the outer->host length word.
func (c *ControlBlock) LenR2H() uint32 { return atomic.LoadUint32(&c.lenR2H) }

// SetLenR2H stores the outer->host length word.
func (c *ControlBlock) SetLenR2H(v uint32) { atomic.StoreUint32(&c.lenR2H, v) }

// SigH2R returns the host->outer signal word.
func (c *ControlBlock) SigH2R() uint32 { return atomic.LoadUint32(&c.sigH2R) }

// SetSigH2R stores the host->outer signal word.
func (c *ControlBlock) SetSigH2R(v uint32) { atomic.StoreUint32(&c.sigH2R, v) }

// LenH2R returns the host->outer length word.
func (c *ControlBlock) LenH2R() uint32 { return atomic.LoadUint32(&c.lenH2R) }

// SetLenH2R stores the host->outer length word.
func (c *ControlBlock) SetLenH2R(v uint32) { atomic.StoreUint32(&c.lenH2R, v) }

// Zero clears all four control words. Called once at configure time.
func (c *ControlBlock) Zero() {
	c.SetSigR2H(0)
	c.SetLenR2H(0)
	c.SetSigH2R(0)
	c.SetLenH2R(0)
}

// SharedRegion is the untyped byte region of size 16 + R + N split
// into the control block, the outer->host data slot (capacity R), and
// the host->outer data slot (capacity N). Its bytes never move for
// the lifetime of a configured Channel.
type SharedRegion struct {
	Mem      []byte
	Control  *ControlBlock
	R        int // outer->host data slot capacity
	N        int // host->outer data slot capacity
	dataR2H  []byte
	dataH2R  []byte
}

// NewSharedRegion wraps buf as a SharedRegion with the given per-
// direction capacities. It fails if buf is too small to hold the
// control block plus both data slots.
func NewSharedRegion(buf []byte, r, n int) (*SharedRegion, error) {
	if r < 0 || n < 0 {
		return nil, fmt.Errorf("shmchan: negative capacity r=%d n=%d", r, n)
	}
	need := ControlHeaderSize + r + n
	if len(buf) < need {
		return nil, fmt.Errorf("shmchan: region too small: have %d bytes, need %d (16 + R=%d + N=%d)", len(buf), need, r, n)
	}
	sr := &SharedRegion{
		Mem:     buf,
		Control: (*ControlBlock)(unsafe.Pointer(&buf[0])),
		R:       r,
		N:       n,
	}
	sr.dataR2H = buf[ControlHeaderSize : ControlHeaderSize+r]
	sr.dataH2R = buf[ControlHeaderSize+r : ControlHeaderSize+r+n]
	return sr, nil
}

// DataR2H returns the outer->host data slot.
func (s *SharedRegion) DataR2H() []byte { return s.dataR2H }

// DataH2R returns the host->outer data slot.
func (s *SharedRegion) DataH2R() []byte { return s.dataH2R }