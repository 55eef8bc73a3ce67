// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package sortio

import (
	"context"
	"unsafe"

	"github.com/grailbio/base/log"
	"github.com/grailbio/geosort/codec"
	"github.com/grailbio/geosort/collection"
	"github.com/grailbio/geosort/cursor"
)

// SortCollection appends the elements of src to dst in the order
// defined by cmp. Runs are collections minted by newRun; they are
// cleared once the sort completes or fails. Src is not modified. The
// contents of dst are unspecified if SortCollection fails.
//
// Batches hold a fixed number of elements, derived from the memory
// budget and the in-memory size of T. Verification is available when
// src implements Codec() codec.Codec[T], as collection.Array does.
func SortCollection[T any](ctx context.Context, src, dst collection.Collection[T], cmp func(a, b T) int, newRun collection.Factory[T], opts Options) error {
	opts = opts.withDefaults()
	in, err := cursor.OverCollection(src, nil)
	if err != nil {
		return err
	}
	var zero T
	elemSize := int64(unsafe.Sizeof(zero))
	if elemSize < 1 {
		elemSize = 1
	}
	s := &sorter[T]{
		opts:  opts,
		cmp:   cmp,
		weigh: func(T) int64 { return elemSize },
	}
	if c, ok := src.(interface{ Codec() codec.Codec[T] }); ok {
		var scratch []byte
		s.hash = func(v T) uint64 { return codec.Hash(c.Codec(), v, &scratch) }
	}
	return s.Sort(ctx, in, src.Len()*elemSize, &collectionRuns[T]{newRun: newRun}, dst.Append)
}

// collectionRuns stores runs in collections.
type collectionRuns[T any] struct {
	newRun collection.Factory[T]
	runs   []collection.Collection[T]
}

func (c *collectionRuns[T]) Spill(ctx context.Context, batch []T) error {
	run := c.newRun()
	c.runs = append(c.runs, run)
	return collection.FromSlice(run, batch)
}

func (c *collectionRuns[T]) Cursors(ctx context.Context) ([]cursor.Cursor[T], error) {
	cursors := make([]cursor.Cursor[T], 0, len(c.runs))
	for _, run := range c.runs {
		cur, err := cursor.OverCollection(run, run.Clear)
		if err != nil {
			for _, cur := range cursors {
				cur.Close()
			}
			return nil, err
		}
		cursors = append(cursors, cur)
	}
	return cursors, nil
}

func (c *collectionRuns[T]) Cleanup(ctx context.Context) error {
	var first error
	for _, run := range c.runs {
		if err := run.Clear(); err != nil {
			if first == nil {
				first = err
			} else {
				log.Error.Printf("sortio: clear run: %v", err)
			}
		}
	}
	c.runs = nil
	return first
}

func (c *collectionRuns[T]) Len() int { return len(c.runs) }
