// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"math"
)

var (
	_ Fixed[Point] = Coord{}
	_ Fixed[Point] = LonLat{}
)

// Point is a planar coordinate. For geographic coordinates X is the
// longitude and Y the latitude, in degrees.
type Point struct {
	X, Y float64
}

// Coord encodes a Point as two float64s (x then y), 16 bytes.
type Coord struct{}

func (Coord) FixedSize() int { return 16 }
func (Coord) Size(Point) int { return 16 }

func (Coord) Write(buf []byte, pos int, p Point) {
	binary.LittleEndian.PutUint64(buf[pos:], math.Float64bits(p.X))
	binary.LittleEndian.PutUint64(buf[pos+8:], math.Float64bits(p.Y))
}

func (Coord) Read(buf []byte, pos int) Point {
	return Point{
		X: math.Float64frombits(binary.LittleEndian.Uint64(buf[pos:])),
		Y: math.Float64frombits(binary.LittleEndian.Uint64(buf[pos+8:])),
	}
}

const lonLatScale = 1 << 31

// Quantization bounds of the LonLat codec, in degrees. A decoded
// coordinate is within LonPrecision of the encoded longitude and
// within LatPrecision of the encoded latitude.
const (
	LonPrecision = 360.0 / lonLatScale
	LatPrecision = 180.0 / lonLatScale
)

// LonLat is a lossy 8-byte codec for geographic points in
// [-180,180]x[-90,90]. Longitude and latitude are each quantized to
// 31-bit fixed point and packed into one 64-bit word, longitude in the
// high half. Decoded values are within LonPrecision and LatPrecision of
// the originals, which is below a centimeter at the equator.
type LonLat struct{}

func (LonLat) FixedSize() int { return 8 }
func (LonLat) Size(Point) int { return 8 }

func (LonLat) Write(buf []byte, pos int, p Point) {
	binary.LittleEndian.PutUint64(buf[pos:], PackLonLat(p))
}

func (LonLat) Read(buf []byte, pos int) Point {
	return UnpackLonLat(binary.LittleEndian.Uint64(buf[pos:]))
}

// PackLonLat returns the packed 64-bit representation of p used by the
// LonLat codec. Packed values order first by longitude, then by
// latitude.
func PackLonLat(p Point) uint64 {
	x := uint64(math.Round((p.X + 180) / 360 * lonLatScale))
	y := uint64(math.Round((p.Y + 90) / 180 * lonLatScale))
	return x<<32 | y&0xffffffff
}

// UnpackLonLat inverts PackLonLat, up to quantization.
func UnpackLonLat(w uint64) Point {
	x, y := float64(uint32(w>>32)), float64(uint32(w))
	return Point{
		X: x/lonLatScale*360 - 180,
		Y: y/lonLatScale*180 - 90,
	}
}
