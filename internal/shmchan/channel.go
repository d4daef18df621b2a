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
	"sync"
	"sync/atomic"
	"time"
)

// defaultSendQueueDepth bounds the asynchronous Trigger variant's
// handoff queue.
const defaultSendQueueDepth = 256

// ChannelStats mirrors the throughput counters the original N-API
// addon tracked (totalBytesProcessed, totalMessagesProcessed), kept
// here as plain atomics rather than a start/stop timer pair.
type ChannelStats struct {
	MessagesReceived uint64
	BytesReceived    uint64
	MessagesSent     uint64
	BytesSent        uint64
	DroppedMalformed uint64
	DroppedBusy      uint64
}

// Channel owns a SharedRegion and the receive loop, and enforces the
// single-in-flight rendezvous invariant on the host->outer direction.
// It is a value owned by its caller (the HostAPI façade); there is no
// process-wide singleton.
type Channel struct {
	region *SharedRegion
	plugin *pluginSlot

	operating atomic.Bool

	claimMu     sync.Mutex
	claimActive bool

	sendQueue  *sendQueue
	recvDone   chan struct{}
	sendDone   chan struct{}
	async      bool

	stats struct {
		messagesReceived atomic.Uint64
		bytesReceived    atomic.Uint64
		messagesSent     atomic.Uint64
		bytesSent        atomic.Uint64
		droppedMalformed atomic.Uint64
		droppedBusy      atomic.Uint64
	}

	// DiagnoseProtocolError, if set, is called from the receive worker
	// when an inbound length exceeds R. It never blocks reception.
	DiagnoseProtocolError func(gotLen, capacity int)
}

// NewChannel constructs an unconfigured Channel. Call Configure before
// sending or receiving.
func NewChannel() *Channel {
	return &Channel{plugin: newPluginSlot()}
}

// Configure validates regionBytes, zeroes the control words, and
// launches the receive worker. If a channel is already configured, the
// prior channel is torn down first. async selects whether Trigger's
// send queue and send worker are started.
func (c *Channel) Configure(regionBytes []byte, r, n int, async bool) error {
	if c.operating.Load() {
		c.Teardown()
	}

	region, err := NewSharedRegion(regionBytes, r, n)
	if err != nil {
		return err
	}
	region.Control.Zero()

	c.region = region
	c.async = async
	c.claimActive = false
	c.recvDone = make(chan struct{})
	c.operating.Store(true)

	go c.receiveLoop()

	if async {
		c.sendQueue = newSendQueue(defaultSendQueueDepth)
		c.sendDone = make(chan struct{})
		go c.sendLoop()
	}

	return nil
}

// InstallPlugin atomically replaces the plugin vector. Pending receive
// dispatch continues on the previous vector until it completes.
func (c *Channel) InstallPlugin(v PluginVector) {
	c.plugin.install(v)
}

// DispatchTestMessage invokes the currently installed plugin's
// OnMessage with b directly, on the caller's goroutine, as if it had
// arrived over the outer->host data slot. It exists so a caller (the
// HostAPI façade's TriggerTestCallback) can exercise the dispatch path
// through the configured plugin vector without a real outer side
// attached.
func (c *Channel) DispatchTestMessage(b []byte) {
	c.plugin.load().OnMessage(b)
}

// ClaimSendBuffer returns a writable slice of the host->outer data
// region. At most one claim may be outstanding at a time, enforced by
// claimMu: concurrent callers take turns rather than failing fast. If
// sig_h2r is still 1 once a caller's turn comes, it waits up to waitMS
// for it to drop to 0; ErrBusy is reserved for that case, not for
// losing the race to another claimer.
func (c *Channel) ClaimSendBuffer(waitMS int) ([]byte, error) {
	if !c.operating.Load() {
		return nil, ErrClosed
	}

	bo := newBackoff()

	for {
		c.claimMu.Lock()
		if !c.claimActive {
			c.claimActive = true
			c.claimMu.Unlock()
			break
		}
		c.claimMu.Unlock()

		if !c.operating.Load() {
			return nil, ErrClosed
		}
		time.Sleep(bo.Next())
	}

	deadline := time.Now().Add(time.Duration(waitMS) * time.Millisecond)
	bo.Reset()
	for c.region.Control.SigH2R() != 0 {
		if !c.operating.Load() {
			c.releaseClaim()
			return nil, ErrClosed
		}
		if time.Now().After(deadline) {
			c.releaseClaim()
			return nil, ErrBusy
		}
		time.Sleep(bo.Next())
	}

	return c.region.DataH2R(), nil
}

// releaseClaim drops the claim exclusion without publishing anything.
func (c *Channel) releaseClaim() {
	c.claimMu.Lock()
	c.claimActive = false
	c.claimMu.Unlock()
}

// CommitSend finalizes the most recent claim. A claim must be
// outstanding and length must not exceed N. length == 0 releases the
// claim without signaling.
func (c *Channel) CommitSend(length int) error {
	c.claimMu.Lock()
	if !c.claimActive {
		c.claimMu.Unlock()
		return ErrInvalidCommit
	}
	if length < 0 || length > c.region.N {
		c.claimMu.Unlock()
		return ErrInvalidCommit
	}
	if length == 0 {
		c.claimActive = false
		c.claimMu.Unlock()
		return nil
	}

	c.region.Control.SetLenH2R(uint32(length))
	c.region.Control.SetSigH2R(1)
	c.claimActive = false
	c.claimMu.Unlock()

	c.stats.messagesSent.Add(1)
	c.stats.bytesSent.Add(uint64(length))
	return nil
}

// Send is a convenience wrapping claim, copy, commit.
func (c *Channel) Send(b []byte, waitMS int) error {
	if !c.operating.Load() {
		return ErrClosed
	}
	if len(b) > c.region.N {
		return ErrOversizeMessage
	}
	dst, err := c.ClaimSendBuffer(waitMS)
	if err != nil {
		return err
	}
	copy(dst, b)
	return c.CommitSend(len(b))
}

// Trigger enqueues bytes for asynchronous send. Only valid on channels
// configured with async=true.
func (c *Channel) Trigger(b []byte) error {
	if !c.async || !c.operating.Load() {
		return ErrClosed
	}
	if len(b) > c.region.N {
		return ErrOversizeMessage
	}
	if !c.sendQueue.Push(b) {
		c.stats.droppedBusy.Add(1)
		return ErrBusy
	}
	return nil
}

// Teardown sets operating false, wakes any waiters and queue
// consumers, joins the workers, and releases the shared region.
// Teardown always unblocks, even if the outer side never responds.
func (c *Channel) Teardown() {
	if !c.operating.CompareAndSwap(true, false) {
		return
	}
	if c.async {
		c.sendQueue.Interrupt()
		<-c.sendDone
	}
	<-c.recvDone
	c.region = nil
}

// Stats returns a point-in-time snapshot of the channel's counters.
func (c *Channel) Stats() ChannelStats {
	return ChannelStats{
		MessagesReceived: c.stats.messagesReceived.Load(),
		BytesReceived:    c.stats.bytesReceived.Load(),
		MessagesSent:     c.stats.messagesSent.Load(),
		BytesSent:        c.stats.bytesSent.Load(),
		DroppedMalformed: c.stats.droppedMalformed.Load(),
		DroppedBusy:      c.stats.droppedBusy.Load(),
	}
}

// ResetStats zeroes every counter.
func (c *Channel) ResetStats() {
	c.stats.messagesReceived.Store(0)
	c.stats.bytesReceived.Store(0)
	c.stats.messagesSent.Store(0)
	c.stats.bytesSent.Store(0)
	c.stats.droppedMalformed.Store(0)
	c.stats.droppedBusy.Store(0)
}

// receiveLoop polls sig_r2h with exponential back-off until operating
// goes false. Observed messages are dispatched to plugin.OnMessage in
// the receive worker's own goroutine; tick fires at most once per
// iteration.
func (c *Channel) receiveLoop() {
	defer close(c.recvDone)

	bo := newBackoff()
	for c.operating.Load() {
		control := c.region.Control
		if control.SigR2H() == 0 {
			time.Sleep(bo.Next())
			continue
		}
		bo.Reset()

		length := int(control.LenR2H())
		if length < 0 || length > c.region.R {
			c.stats.droppedMalformed.Add(1)
			if c.DiagnoseProtocolError != nil {
				c.DiagnoseProtocolError(length, c.region.R)
			}
		} else {
			msg := c.region.DataR2H()[:length]
			c.stats.messagesReceived.Add(1)
			c.stats.bytesReceived.Add(uint64(length))
			c.plugin.load().OnMessage(msg)
		}

		control.SetSigR2H(0)
		c.plugin.load().Tick()
	}
}

// sendLoop drains the send queue, claiming, copying, and committing
// each item. On Busy it re-queues with back-off up to a small number
// of attempts, then drops with a diagnostic counter bump.
func (c *Channel) sendLoop() {
	defer close(c.sendDone)

	const maxRequeueAttempts = 5
	const defaultWaitMS = 5

	for {
		item, ok := c.sendQueue.WaitPop(c.operating.Load)
		if !ok {
			return
		}
		if err := c.Send(item.bytes, defaultWaitMS); err != nil {
			if err == ErrBusy {
				item.attempts++
				if item.attempts <= maxRequeueAttempts && c.sendQueue.pushRetry(item) {
					continue
				}
				c.stats.droppedBusy.Add(1)
			}
		}
	}
}
