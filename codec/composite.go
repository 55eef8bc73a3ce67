// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package codec

import "encoding/binary"

var (
	_ Codec[string]             = String{}
	_ Codec[int64]              = Varint{}
	_ Codec[[]int64]            = ListCodec[int64]{}
	_ Fixed[Pair[int32, int64]] = PairCodec[int32, int64]{}
)

// lenSize is the size of the length prefix used by String and
// ListCodec.
const lenSize = 4

// String encodes a string as a 4-byte little-endian byte length
// followed by its UTF-8 bytes. Its size is 4+len(s).
type String struct{}

func (String) Size(s string) int { return lenSize + len(s) }

func (String) Write(buf []byte, pos int, s string) {
	binary.LittleEndian.PutUint32(buf[pos:], uint32(len(s)))
	copy(buf[pos+lenSize:], s)
}

func (String) Read(buf []byte, pos int) string {
	n := int(binary.LittleEndian.Uint32(buf[pos:]))
	return string(buf[pos+lenSize : pos+lenSize+n])
}

// Varint encodes an int64 as a zig-zag varint of 1 to 10 bytes.
type Varint struct{}

func (Varint) Size(v int64) int {
	u := uint64(v<<1) ^ uint64(v>>63)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}

func (Varint) Write(buf []byte, pos int, v int64) {
	binary.PutVarint(buf[pos:], v)
}

func (Varint) Read(buf []byte, pos int) int64 {
	v, _ := binary.Varint(buf[pos:])
	return v
}

// ListCodec encodes a slice of fixed-size elements as a 4-byte element
// count followed by the packed elements.
type ListCodec[T any] struct {
	Elem Fixed[T]
}

func (l ListCodec[T]) Size(vs []T) int {
	return lenSize + len(vs)*l.Elem.FixedSize()
}

func (l ListCodec[T]) Write(buf []byte, pos int, vs []T) {
	binary.LittleEndian.PutUint32(buf[pos:], uint32(len(vs)))
	pos += lenSize
	size := l.Elem.FixedSize()
	for _, v := range vs {
		l.Elem.Write(buf, pos, v)
		pos += size
	}
}

func (l ListCodec[T]) Read(buf []byte, pos int) []T {
	n := int(binary.LittleEndian.Uint32(buf[pos:]))
	pos += lenSize
	size := l.Elem.FixedSize()
	vs := make([]T, n)
	for i := range vs {
		vs[i] = l.Elem.Read(buf, pos)
		pos += size
	}
	return vs
}

// Pair holds two values.
type Pair[L, R any] struct {
	Left  L
	Right R
}

// PairCodec encodes a Pair as the concatenation of its two fixed-size
// halves.
type PairCodec[L, R any] struct {
	Left  Fixed[L]
	Right Fixed[R]
}

func (p PairCodec[L, R]) FixedSize() int {
	return p.Left.FixedSize() + p.Right.FixedSize()
}

func (p PairCodec[L, R]) Size(Pair[L, R]) int { return p.FixedSize() }

func (p PairCodec[L, R]) Write(buf []byte, pos int, v Pair[L, R]) {
	p.Left.Write(buf, pos, v.Left)
	p.Right.Write(buf, pos+p.Left.FixedSize(), v.Right)
}

func (p PairCodec[L, R]) Read(buf []byte, pos int) Pair[L, R] {
	return Pair[L, R]{
		Left:  p.Left.Read(buf, pos),
		Right: p.Right.Read(buf, pos+p.Left.FixedSize()),
	}
}
