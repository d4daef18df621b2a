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

import "errors"

// Link-layer errors, returned by Channel operations. These are
// recovered locally: the receive worker never dies on a bad inbound
// message, and a Busy/Invalid result from a send never corrupts
// channel state.
var (
	// ErrBusy is returned by ClaimSendBuffer when the host->outer
	// direction is still pending after wait_ms elapses.
	ErrBusy = errors.New("shmchan: busy")

	// ErrClosed is returned by operations attempted after Teardown.
	ErrClosed = errors.New("shmchan: closed")

	// ErrOversizeMessage is returned by Send when the payload exceeds
	// the host->outer data slot capacity N.
	ErrOversizeMessage = errors.New("shmchan: oversize message")

	// ErrInvalidCommit is returned by CommitSend when there is no
	// outstanding claim, or len exceeds N.
	ErrInvalidCommit = errors.New("shmchan: invalid commit")
)