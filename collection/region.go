// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package collection

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/grailbio/base/errors"
)

// A Region is a growable, addressable byte region. Buffers returned by
// Ensure and Bytes are invalidated by the next call to Ensure or
// Release.
type Region interface {
	// Ensure makes at least n bytes addressable and returns the
	// region's buffer. Existing contents are preserved.
	Ensure(n int64) ([]byte, error)
	// Bytes returns the region's current buffer.
	Bytes() []byte
	// Release discards the region's contents and frees its storage.
	// The region may be reused afterwards.
	Release() error
}

const (
	minHeapRegion   = 4 << 10
	minMappedRegion = 1 << 20
)

// grow returns the new capacity for a region of size cur that must hold
// n bytes.
func grow(cur, n, floor int64) int64 {
	size := 2 * cur
	if size < floor {
		size = floor
	}
	if size < n {
		size = n
	}
	return size
}

type heapRegion struct {
	buf []byte
}

// NewHeap returns a Region backed by a Go byte slice.
func NewHeap() Region {
	return new(heapRegion)
}

func (h *heapRegion) Ensure(n int64) ([]byte, error) {
	if n <= int64(len(h.buf)) {
		return h.buf, nil
	}
	buf := make([]byte, grow(int64(len(h.buf)), n, minHeapRegion))
	copy(buf, h.buf)
	h.buf = buf
	return h.buf, nil
}

func (h *heapRegion) Bytes() []byte { return h.buf }

func (h *heapRegion) Release() error {
	h.buf = nil
	return nil
}

// mappedRegion is a region backed by a memory-mapped temporary file.
// The file is created on first use and removed on release, so that
// the region's contents live in the page cache rather than the Go
// heap.
type mappedRegion struct {
	dir string
	f   *os.File
	m   mmap.MMap
}

// NewMapped returns a Region backed by a memory-mapped temporary file
// in directory dir (or the default temporary directory if dir is
// empty).
func NewMapped(dir string) Region {
	return &mappedRegion{dir: dir}
}

func (r *mappedRegion) Ensure(n int64) ([]byte, error) {
	if n <= int64(len(r.m)) {
		return r.m, nil
	}
	if r.f == nil {
		f, err := os.CreateTemp(r.dir, "region-")
		if err != nil {
			return nil, errors.E(err, "collection: create mapped region")
		}
		r.f = f
	}
	size := grow(int64(len(r.m)), n, minMappedRegion)
	if r.m != nil {
		if err := r.m.Unmap(); err != nil {
			return nil, errors.E(err, "collection: unmap region")
		}
		r.m = nil
	}
	if err := r.f.Truncate(size); err != nil {
		return nil, errors.E(err, fmt.Sprintf("collection: grow mapped region to %d bytes", size))
	}
	m, err := mmap.MapRegion(r.f, int(size), mmap.RDWR, 0, 0)
	if err != nil {
		return nil, errors.E(err, "collection: map region")
	}
	r.m = m
	return r.m, nil
}

func (r *mappedRegion) Bytes() []byte { return r.m }

func (r *mappedRegion) Release() error {
	var first error
	if r.m != nil {
		if err := r.m.Unmap(); err != nil {
			first = errors.E(err, "collection: unmap region")
		}
		r.m = nil
	}
	if r.f != nil {
		name := r.f.Name()
		if err := r.f.Close(); err != nil && first == nil {
			first = errors.E(err, "collection: close region file")
		}
		if err := os.Remove(name); err != nil && first == nil {
			first = errors.E(err, "collection: remove region file")
		}
		r.f = nil
	}
	return first
}
