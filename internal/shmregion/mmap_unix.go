//go:build unix

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

// Package shmregion provides file-backed shared memory regions for
// processes that need the channel's SharedRegion to live outside this
// process's heap (e.g. a host process and a separate outer process
// mapping the same /dev/shm file). It is optional: a Channel can be
// configured directly over any in-process []byte.
package shmregion

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Region is a named, file-backed mapping suitable for passing to
// shmchan.NewSharedRegion.
type Region struct {
	file *os.File
	mem  []byte
	path string
}

// Create makes a new named region of totalSize bytes (16 + R + N,
// per shmchan's SharedRegion layout) at /dev/shm/bpgshm_<name>,
// falling back to os.TempDir if /dev/shm is unavailable.
func Create(name string, totalSize int) (*Region, error) {
	path := regionPath(name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("shmregion: create %s: %w", path, err)
	}
	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	if err := file.Truncate(int64(totalSize)); err != nil {
		cleanup()
		return nil, fmt.Errorf("shmregion: truncate: %w", err)
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, totalSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("shmregion: mmap: %w", err)
	}

	return &Region{file: file, mem: mem, path: path}, nil
}

// Open maps an existing named region created by another process.
func Open(name string) (*Region, error) {
	path := regionPath(name)

	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("shmregion: open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("shmregion: stat: %w", err)
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, int(info.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("shmregion: mmap: %w", err)
	}

	return &Region{file: file, mem: mem, path: path}, nil
}

// Bytes returns the mapped region for use with shmchan.NewSharedRegion.
func (r *Region) Bytes() []byte { return r.mem }

// Close unmaps the region and closes the backing file.
func (r *Region) Close() error {
	var firstErr error
	if r.mem != nil {
		if err := unix.Munmap(r.mem); err != nil && firstErr == nil {
			firstErr = err
		}
		r.mem = nil
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.file = nil
	}
	return firstErr
}

// Remove deletes a named region's backing file.
func Remove(name string) error {
	return os.Remove(regionPath(name))
}

func regionPath(name string) string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return filepath.Join("/dev/shm", "bpgshm_"+name)
	}
	return filepath.Join(os.TempDir(), "bpgshm_"+name)
}
