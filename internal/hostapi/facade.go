// Package hostapi is the boundary exposed to external collaborators:
// configure the channel, install a plugin vector, trigger test
// traffic, and tear down. It owns one shmchan.Channel value — there
// is no process-wide singleton — and re-dispatches inbound bytes
// observed on the receive worker to the foreign runtime's own thread
// via a work-queue, since that runtime's state must only ever be
// touched from its own thread.
package hostapi

import (
	"github.com/mdmtseng/bpgshm/internal/bpg"
	"github.com/mdmtseng/bpgshm/internal/hostlog"
	"github.com/mdmtseng/bpgshm/internal/shmchan"
)

// testCallbackTag and testCallbackBinary make up the canned BPG
// packet TriggerTestCallback synthesizes through the configured
// plugin, mirroring the original addon's Hello/test-callback smoke
// check.
var (
	testCallbackTag    = [2]byte{'T', 'C'}
	testCallbackBinary = []byte("hostapi: test callback")
)

// HostAPI is the façade a foreign-runtime adapter drives. Zero value
// is not ready for use; construct with New.
type HostAPI struct {
	channel *shmchan.Channel
	queue   *workQueue
	log     *hostlog.Logger

	onMessage func(b []byte)
}

// New returns an unconfigured HostAPI.
func New(log *hostlog.Logger) *HostAPI {
	if log == nil {
		log = hostlog.New()
	}
	return &HostAPI{
		channel: shmchan.NewChannel(),
		queue:   newWorkQueue(),
		log:     log,
	}
}

// Hello is a health check.
func (h *HostAPI) Hello() string {
	return "bpgshm hostapi ready"
}

// SetSharedBuffer wraps Channel.Configure. async selects whether the
// asynchronous Trigger send path is enabled.
func (h *HostAPI) SetSharedBuffer(region []byte, r, n int, async bool) error {
	h.channel.InstallPlugin(shmchan.PluginVector{
		OnMessage: func(b []byte) {
			h.queue.post(b)
		},
		OnRequestBuffer: h.channel.ClaimSendBuffer,
		OnCommitBuffer:  h.channel.CommitSend,
	})
	if err := h.channel.Configure(region, r, n, async); err != nil {
		h.log.Error("configure failed: %v", err)
		return err
	}
	h.log.Info("channel configured: R=%d N=%d async=%v", r, n, async)
	return nil
}

// Cleanup wraps Channel.Teardown.
func (h *HostAPI) Cleanup() {
	h.channel.Teardown()
	h.queue.drain()
	h.log.Info("channel torn down")
}

// InstallPlugin replaces the channel's plugin vector. The core only
// sees the installed vector; loading a plugin from a path is an
// external collaborator's concern.
func (h *HostAPI) InstallPlugin(v shmchan.PluginVector) {
	h.channel.InstallPlugin(v)
}

// SetMessageCallback registers an inbound-bytes observer. It is
// invoked on the caller's own thread inside Pump, never directly from
// the receive worker.
func (h *HostAPI) SetMessageCallback(fn func(b []byte)) {
	h.onMessage = fn
}

// Pump drains every record posted since the last call and invokes the
// registered message callback for each, in order, on the calling
// goroutine. The foreign-runtime adapter calls this from its own
// thread; the core never touches foreign-runtime state directly.
func (h *HostAPI) Pump() {
	if h.onMessage == nil {
		return
	}
	for _, rec := range h.queue.drain() {
		h.onMessage(rec.bytes)
	}
}

// TriggerTestCallback synthesizes a canned BPG-framed message and
// dispatches it through the configured plugin vector, as a smoke
// check that the dispatch path works end to end without an outer side
// attached.
func (h *HostAPI) TriggerTestCallback() {
	buf := make([]byte, bpg.HeaderSize+4+len(testCallbackBinary))
	w := bpg.NewWriter(buf)
	pkt := bpg.AppPacket{
		Tag:        testCallbackTag,
		EndOfGroup: true,
		Binary:     testCallbackBinary,
	}
	if err := bpg.Encode(w, pkt); err != nil {
		h.log.Error("trigger test callback: encode failed: %v", err)
		return
	}
	h.channel.DispatchTestMessage(w.Bytes())
}

// Stats returns the channel's throughput counters.
func (h *HostAPI) Stats() shmchan.ChannelStats {
	return h.channel.Stats()
}

// ResetStats zeroes the channel's throughput counters.
func (h *HostAPI) ResetStats() {
	h.channel.ResetStats()
}

// Send is a convenience forwarding to Channel.Send.
func (h *HostAPI) Send(b []byte, waitMS int) error {
	return h.channel.Send(b, waitMS)
}

// Trigger is a convenience forwarding to Channel.Trigger (requires
// the channel to have been configured with async=true).
func (h *HostAPI) Trigger(b []byte) error {
	return h.channel.Trigger(b)
}
