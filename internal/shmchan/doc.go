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

// Package shmchan implements a rendezvous shared-memory channel: a
// fixed control block of four atomic 32-bit words and two one-way
// data regions, one per direction. At most one unconsumed message per
// direction exists at any moment; there is no ring or wraparound
// arithmetic, only a signal flip and a length.
//
// A Channel owns its SharedRegion and a receive worker goroutine that
// busy-polls the inbound signal word with exponential back-off,
// dispatching inbound bytes to an installed PluginVector.
package shmchan
