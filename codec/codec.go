// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package codec provides value codecs: typed encoders and decoders that
// map values to and from absolute offsets in a byte buffer. Codecs are
// the storage layer underneath collections, spill runs and the
// container formats built on top of them.
//
// Codecs perform no bounds checking. Callers must guarantee that a
// buffer passed to Write has at least pos+Size(v) bytes, and that a
// buffer passed to Read holds a value previously written at pos.
// Violating this panics with an index error.
package codec

import "github.com/spaolacci/murmur3"

// A Codec encodes and decodes values of type T at absolute buffer
// offsets. For every value v, Read(buf, pos) immediately after
// Write(buf, pos, v) returns a value equal to v, and Write touches
// exactly Size(v) bytes starting at pos.
type Codec[T any] interface {
	// Size returns the number of bytes v occupies when encoded.
	Size(v T) int
	// Write encodes v into buf starting at offset pos.
	Write(buf []byte, pos int, v T)
	// Read decodes the value stored in buf at offset pos.
	Read(buf []byte, pos int) T
}

// Fixed is implemented by codecs whose encoded size does not depend
// on the value. Fixed codecs permit O(1) random access into packed
// arrays.
type Fixed[T any] interface {
	Codec[T]
	// FixedSize returns the encoded size of every value.
	FixedSize() int
}

// SizeOf returns the fixed size of codec c and true, or 0 and false if
// c is a variable-size codec.
func SizeOf[T any](c Codec[T]) (int, bool) {
	if f, ok := c.(Fixed[T]); ok {
		return f.FixedSize(), true
	}
	return 0, false
}

// Encode returns a freshly allocated encoding of v.
func Encode[T any](c Codec[T], v T) []byte {
	buf := make([]byte, c.Size(v))
	c.Write(buf, 0, v)
	return buf
}

// Hash returns the 64-bit murmur3 hash of v's encoding under codec c.
// The scratch buffer is reused across calls when it is large enough.
func Hash[T any](c Codec[T], v T, scratch *[]byte) uint64 {
	n := c.Size(v)
	if cap(*scratch) < n {
		*scratch = make([]byte, n)
	}
	buf := (*scratch)[:n]
	c.Write(buf, 0, v)
	return murmur3.Sum64(buf)
}
