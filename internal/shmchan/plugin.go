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

import "sync/atomic"

// PluginVector is the set of callbacks a Channel dispatches into.
// Every field of an installed vector is non-nil: Channel fills unset
// fields with no-ops, so callers only need to supply the ones they
// care about.
type PluginVector struct {
	// OnMessage is called with one inbound message per receive-worker
	// iteration, in the receive worker's own goroutine. It must not
	// call ClaimSendBuffer with a wait longer than its tolerance —
	// blocking here blocks reception.
	OnMessage func(b []byte)

	// OnRequestBuffer forwards to Channel.ClaimSendBuffer.
	OnRequestBuffer func(waitMS int) ([]byte, error)

	// OnCommitBuffer forwards to Channel.CommitSend.
	OnCommitBuffer func(n int) error

	// Tick is called at most once per receive worker loop iteration.
	// It has no timing guarantee and may be a no-op.
	Tick func()
}

func noopOnMessage([]byte)                    {}
func noopOnRequestBuffer(int) ([]byte, error) { return nil, ErrClosed }
func noopOnCommitBuffer(int) error            { return ErrInvalidCommit }
func noopTick()                               {}

// normalizePluginVector fills any nil field with a safe no-op so the
// receive worker never has to nil-check the installed vector.
func normalizePluginVector(v PluginVector) *PluginVector {
	if v.OnMessage == nil {
		v.OnMessage = noopOnMessage
	}
	if v.OnRequestBuffer == nil {
		v.OnRequestBuffer = noopOnRequestBuffer
	}
	if v.OnCommitBuffer == nil {
		v.OnCommitBuffer = noopOnCommitBuffer
	}
	if v.Tick == nil {
		v.Tick = noopTick
	}
	return &v
}

// pluginSlot holds the atomically-installed current vector. on_message
// invocations always see a coherent snapshot: InstallPlugin replaces
// the whole pointer, never mutates fields of a live vector.
type pluginSlot struct {
	p atomic.Pointer[PluginVector]
}

func newPluginSlot() *pluginSlot {
	s := &pluginSlot{}
	s.p.Store(normalizePluginVector(PluginVector{}))
	return s
}

func (s *pluginSlot) install(v PluginVector) {
	s.p.Store(normalizePluginVector(v))
}

func (s *pluginSlot) load() *PluginVector {
	return s.p.Load()
}