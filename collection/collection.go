// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package collection provides addressable collections: ordered,
// append-only sequences of values stored through a codec in a byte
// region. Collections are the storage used for sort inputs, outputs
// and the temporary runs of the external sorter.
package collection

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/geosort/codec"
)

// A Collection is an ordered, 0-indexed sequence of values that grows
// only by appending. Collections are not safe for concurrent use.
type Collection[T any] interface {
	// Append stores v after the last element.
	Append(v T) error
	// Get returns the element at index i.
	Get(i int64) (T, error)
	// Len returns the number of elements.
	Len() int64
	// Clear discards every element and releases backing storage.
	Clear() error
}

// A Factory returns a fresh, empty collection.
type Factory[T any] func() Collection[T]

// Array is a Collection that stores values back to back in a Region.
// Elements of fixed-size codecs are addressed arithmetically; elements
// of variable-size codecs are addressed through an offset index built
// as they are appended.
type Array[T any] struct {
	codec  codec.Codec[T]
	region Region
	// size is the codec's fixed size, or 0 for variable-size codecs.
	size    int64
	n, end  int64
	offsets []int64
}

// New returns an empty Array that encodes values with c into region r.
func New[T any](c codec.Codec[T], r Region) *Array[T] {
	a := &Array[T]{codec: c, region: r}
	if size, ok := codec.SizeOf(c); ok {
		a.size = int64(size)
	}
	return a
}

// NewMemory returns an empty Array stored on the Go heap.
func NewMemory[T any](c codec.Codec[T]) *Array[T] {
	return New(c, NewHeap())
}

// NewMappedArray returns an empty Array stored in a memory-mapped
// temporary file in dir.
func NewMappedArray[T any](c codec.Codec[T], dir string) *Array[T] {
	return New(c, NewMapped(dir))
}

// MemoryFactory returns a Factory of heap-backed arrays.
func MemoryFactory[T any](c codec.Codec[T]) Factory[T] {
	return func() Collection[T] { return NewMemory(c) }
}

// MappedFactory returns a Factory of arrays backed by memory-mapped
// temporary files in dir.
func MappedFactory[T any](c codec.Codec[T], dir string) Factory[T] {
	return func() Collection[T] { return NewMappedArray(c, dir) }
}

// Codec returns the array's codec.
func (a *Array[T]) Codec() codec.Codec[T] { return a.codec }

// Append implements Collection.
func (a *Array[T]) Append(v T) error {
	n := int64(a.codec.Size(v))
	buf, err := a.region.Ensure(a.end + n)
	if err != nil {
		return err
	}
	a.codec.Write(buf, int(a.end), v)
	if a.size == 0 {
		a.offsets = append(a.offsets, a.end)
	}
	a.end += n
	a.n++
	return nil
}

// Get implements Collection.
func (a *Array[T]) Get(i int64) (T, error) {
	if i < 0 || i >= a.n {
		var zero T
		return zero, errors.E(errors.Invalid, fmt.Sprintf("collection: index %d out of range [0,%d)", i, a.n))
	}
	pos := i * a.size
	if a.size == 0 {
		pos = a.offsets[i]
	}
	return a.codec.Read(a.region.Bytes(), int(pos)), nil
}

// Len implements Collection.
func (a *Array[T]) Len() int64 { return a.n }

// Bytes returns the number of encoded bytes stored in the array.
func (a *Array[T]) Bytes() int64 { return a.end }

// Clear implements Collection.
func (a *Array[T]) Clear() error {
	a.n, a.end, a.offsets = 0, 0, nil
	return a.region.Release()
}

// FromSlice appends every value in vs to c.
func FromSlice[T any](c Collection[T], vs []T) error {
	for _, v := range vs {
		if err := c.Append(v); err != nil {
			return err
		}
	}
	return nil
}

// ToSlice returns the elements of c in order. ToSlice is intended for
// tests and small collections.
func ToSlice[T any](c Collection[T]) ([]T, error) {
	vs := make([]T, 0, c.Len())
	for i := int64(0); i < c.Len(); i++ {
		v, err := c.Get(i)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}
