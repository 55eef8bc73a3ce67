// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/geosort/codec"
	"github.com/grailbio/geosort/collection"
	"github.com/grailbio/geosort/cursor"
	"github.com/grailbio/geosort/lineio"
	"github.com/grailbio/geosort/sortio"
)

// parsePoint parses a "lon,lat" record.
func parsePoint(line string) (codec.Point, error) {
	lon, lat, ok := strings.Cut(line, ",")
	if !ok {
		return codec.Point{}, errors.E(errors.Invalid, fmt.Sprintf("malformed record %q", line))
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return codec.Point{}, errors.E(errors.Invalid, err, fmt.Sprintf("longitude of %q", line))
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return codec.Point{}, errors.E(errors.Invalid, err, fmt.Sprintf("latitude of %q", line))
	}
	if x < -180 || x > 180 || y < -90 || y > 90 {
		return codec.Point{}, errors.E(errors.Invalid, fmt.Sprintf("record %q out of range", line))
	}
	return codec.Point{X: x, Y: y}, nil
}

func formatPoint(p codec.Point) string {
	return strconv.FormatFloat(p.X, 'f', 7, 64) + "," + strconv.FormatFloat(p.Y, 'f', 7, 64)
}

func comparePoints(a, b codec.Point) int {
	ka, kb := codec.PackLonLat(a), codec.PackLonLat(b)
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	}
	return 0
}

// sortPoints loads the records of src into a memory-mapped collection of
// quantized coordinates, sorts them, and writes the result to dst.
func sortPoints(ctx context.Context, src, dst string, opts sortio.Options) (err error) {
	var (
		in  = collection.NewMappedArray[codec.Point](codec.LonLat{}, opts.TempDir)
		out = collection.NewMappedArray[codec.Point](codec.LonLat{}, opts.TempDir)
	)
	defer func() {
		for _, c := range []*collection.Array[codec.Point]{in, out} {
			if cerr := c.Clear(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()
	lines, _, err := lineio.Open(ctx, src)
	if err != nil {
		return err
	}
	var n int
	err = cursor.Drain(lines, func(line string) error {
		n++
		if line == "" {
			return nil
		}
		p, err := parsePoint(line)
		if err != nil {
			return errors.E(err, fmt.Sprintf("%s:%d", src, n))
		}
		return in.Append(p)
	})
	if err != nil {
		return err
	}
	log.Printf("read %d points from %s", in.Len(), src)
	if err := sortio.SortCollection[codec.Point](ctx, in, out, comparePoints,
		collection.MappedFactory[codec.Point](codec.LonLat{}, opts.TempDir), opts); err != nil {
		return err
	}
	w, err := lineio.Create(ctx, dst)
	if err != nil {
		return err
	}
	points, err := cursor.OverCollection[codec.Point](out, nil)
	if err != nil {
		w.Close()
		return err
	}
	if err := cursor.Drain(points, func(p codec.Point) error { return w.WriteLine(formatPoint(p)) }); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func coordsCmd(ctx context.Context, opts sortio.Options, args []string) error {
	src, dst := sortFlags("coords", &opts, args)
	log.Printf("sorting coordinates of %s into %s", src, dst)
	return sortPoints(ctx, src, dst, opts)
}
