// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"math"

	"github.com/grailbio/base/must"
)

var (
	_ Fixed[byte]    = Byte{}
	_ Fixed[int32]   = Int32{}
	_ Fixed[int64]   = Int64{}
	_ Fixed[uint32]  = Uint32{}
	_ Fixed[uint64]  = Uint64{}
	_ Fixed[float32] = Float32{}
	_ Fixed[float64] = Float64{}
	_ Fixed[int32]   = Truncated32{}
	_ Fixed[int64]   = Truncated64{}
)

// Byte encodes a single byte.
type Byte struct{}

func (Byte) FixedSize() int                    { return 1 }
func (Byte) Size(byte) int                     { return 1 }
func (Byte) Write(buf []byte, pos int, v byte) { buf[pos] = v }
func (Byte) Read(buf []byte, pos int) byte     { return buf[pos] }

// Int32 encodes an int32 in 4 little-endian bytes.
type Int32 struct{}

func (Int32) FixedSize() int { return 4 }
func (Int32) Size(int32) int { return 4 }
func (Int32) Write(buf []byte, pos int, v int32) {
	binary.LittleEndian.PutUint32(buf[pos:], uint32(v))
}
func (Int32) Read(buf []byte, pos int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[pos:]))
}

// Int64 encodes an int64 in 8 little-endian bytes.
type Int64 struct{}

func (Int64) FixedSize() int { return 8 }
func (Int64) Size(int64) int { return 8 }
func (Int64) Write(buf []byte, pos int, v int64) {
	binary.LittleEndian.PutUint64(buf[pos:], uint64(v))
}
func (Int64) Read(buf []byte, pos int) int64 {
	return int64(binary.LittleEndian.Uint64(buf[pos:]))
}

// Uint32 encodes a uint32 in 4 little-endian bytes.
type Uint32 struct{}

func (Uint32) FixedSize() int  { return 4 }
func (Uint32) Size(uint32) int { return 4 }
func (Uint32) Write(buf []byte, pos int, v uint32) {
	binary.LittleEndian.PutUint32(buf[pos:], v)
}
func (Uint32) Read(buf []byte, pos int) uint32 {
	return binary.LittleEndian.Uint32(buf[pos:])
}

// Uint64 encodes a uint64 in 8 little-endian bytes.
type Uint64 struct{}

func (Uint64) FixedSize() int  { return 8 }
func (Uint64) Size(uint64) int { return 8 }
func (Uint64) Write(buf []byte, pos int, v uint64) {
	binary.LittleEndian.PutUint64(buf[pos:], v)
}
func (Uint64) Read(buf []byte, pos int) uint64 {
	return binary.LittleEndian.Uint64(buf[pos:])
}

// Float32 encodes a float32 as its IEEE-754 bits, little-endian.
type Float32 struct{}

func (Float32) FixedSize() int   { return 4 }
func (Float32) Size(float32) int { return 4 }
func (Float32) Write(buf []byte, pos int, v float32) {
	binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(v))
}
func (Float32) Read(buf []byte, pos int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[pos:]))
}

// Float64 encodes a float64 as its IEEE-754 bits, little-endian.
type Float64 struct{}

func (Float64) FixedSize() int   { return 8 }
func (Float64) Size(float64) int { return 8 }
func (Float64) Write(buf []byte, pos int, v float64) {
	binary.LittleEndian.PutUint64(buf[pos:], math.Float64bits(v))
}
func (Float64) Read(buf []byte, pos int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[pos:]))
}

// Truncated32 stores the low Width bytes of an int32, little-endian,
// and sign-extends from the most significant stored byte on read.
//
// Values that do not fit in Width bytes are silently truncated: the
// decoded value is v mod 2^(8*Width), interpreted as signed. This keeps
// existing binary layouts readable; callers that need a range check
// should consult FitsTruncated before writing.
type Truncated32 struct {
	Width int
}

// NewTruncated32 returns a Truncated32 codec of the given width, which
// must be between 1 and 4.
func NewTruncated32(width int) Truncated32 {
	must.Truef(width >= 1 && width <= 4, "codec: invalid int32 truncation width %d", width)
	return Truncated32{Width: width}
}

func (t Truncated32) FixedSize() int { return t.Width }
func (t Truncated32) Size(int32) int { return t.Width }

func (t Truncated32) Write(buf []byte, pos int, v int32) {
	putTruncated(buf[pos:pos+t.Width], uint64(uint32(v)))
}

func (t Truncated32) Read(buf []byte, pos int) int32 {
	return int32(getTruncated(buf[pos : pos+t.Width]))
}

// Truncated64 is the int64 counterpart of Truncated32; Width must be
// between 1 and 8.
type Truncated64 struct {
	Width int
}

// NewTruncated64 returns a Truncated64 codec of the given width, which
// must be between 1 and 8.
func NewTruncated64(width int) Truncated64 {
	must.Truef(width >= 1 && width <= 8, "codec: invalid int64 truncation width %d", width)
	return Truncated64{Width: width}
}

func (t Truncated64) FixedSize() int { return t.Width }
func (t Truncated64) Size(int64) int { return t.Width }

func (t Truncated64) Write(buf []byte, pos int, v int64) {
	putTruncated(buf[pos:pos+t.Width], uint64(v))
}

func (t Truncated64) Read(buf []byte, pos int) int64 {
	return getTruncated(buf[pos : pos+t.Width])
}

// FitsTruncated tells whether v survives a round trip through a
// truncated codec of the given width.
func FitsTruncated(v int64, width int) bool {
	if width >= 8 {
		return true
	}
	lo := -int64(1) << (8*uint(width) - 1)
	return v >= lo && v <= -lo-1
}

func putTruncated(b []byte, v uint64) {
	for i := range b {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

func getTruncated(b []byte) int64 {
	var v uint64
	for i := range b {
		v |= uint64(b[i]) << (8 * uint(i))
	}
	if n := len(b); n < 8 && b[n-1]&0x80 != 0 {
		v |= ^uint64(0) << (8 * uint(n))
	}
	return int64(v)
}
