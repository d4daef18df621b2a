//go:build !unix

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

package shmregion

import "errors"

// ErrUnsupported is returned by every operation on platforms without
// a POSIX mmap (e.g. plain Windows without a unix build tag).
var ErrUnsupported = errors.New("shmregion: file-backed regions not supported on this platform")

// Region is a stub on non-unix platforms; use an in-process []byte
// with shmchan.NewSharedRegion instead.
type Region struct{}

func Create(name string, totalSize int) (*Region, error) { return nil, ErrUnsupported }
func Open(name string) (*Region, error)                  { return nil, ErrUnsupported }
func Remove(name string) error                           { return ErrUnsupported }

func (r *Region) Bytes() []byte { return nil }
func (r *Region) Close() error  { return ErrUnsupported }
