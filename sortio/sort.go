// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package sortio implements an external merge sort for datasets larger
// than memory. A sort scans its source into in-memory batches sized by
// a memory budget, sorts each batch and spills it to a temporary run,
// then merges the runs with a heap of cursors.
//
// The same algorithm serves two storage modes: SortCollection sorts
// typed collections and stores runs in collections minted by a
// factory; SortLines and SortLineStream sort newline-delimited text
// and store runs in spill files.
package sortio

import (
	"context"
	"fmt"

	"github.com/grailbio/base/data"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/geosort/cursor"
	"github.com/grailbio/geosort/metrics"
)

// A runStore materializes the runs of one sort.
type runStore[T any] interface {
	// Spill stores a sorted batch in a new run. The batch is not
	// retained.
	Spill(ctx context.Context, batch []T) error
	// Cursors returns a cursor for every run, in spill order.
	Cursors(ctx context.Context) ([]cursor.Cursor[T], error)
	// Cleanup destroys every run. It is called once per sort,
	// including after failures.
	Cleanup(ctx context.Context) error
	// Len returns the number of runs spilled.
	Len() int
}

// sorter holds the mode-specific parameters of a sort.
type sorter[T any] struct {
	opts Options
	cmp  func(a, b T) int
	// weigh estimates the in-memory size of an element.
	weigh func(T) int64
	// hash hashes an element for verification; it is nil if the mode
	// cannot verify.
	hash func(T) uint64
}

// fingerprint is an order-independent digest of a multiset.
type fingerprint struct {
	n   int64
	sum uint64
}

func (f *fingerprint) add(h uint64) {
	f.n++
	f.sum += h
}

// Sort reads src to completion and emits its elements in sorted order.
// Src is closed and every run is destroyed before Sort returns.
func (s *sorter[T]) Sort(ctx context.Context, src cursor.Cursor[T], total int64, runs runStore[T], emit func(T) error) (err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				log.Error.Printf("sortio: close source: %v", cerr)
			}
		}
		if cerr := runs.Cleanup(ctx); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				log.Error.Printf("sortio: cleanup runs: %v", cerr)
			}
		}
	}()
	var (
		scope     = metrics.ContextScope(ctx)
		available = s.opts.Budget()
		block     = BlockSize(total, s.opts.MaxRuns, available)
		verify    = s.opts.Verify && !s.opts.Distinct && s.hash != nil
		in, out   fingerprint
		batch     []T
		size      int64
		read      int
	)
	log.Debug.Printf("sortio: sorting %s with budget %s: block size %s, max runs %d",
		data.Size(total), data.Size(available), data.Size(block), s.opts.MaxRuns)
	for !src.Empty() {
		v, err := src.Pop()
		if err != nil {
			return err
		}
		read++
		if verify {
			in.add(s.hash(v))
		}
		batch = append(batch, v)
		size += s.weigh(v)
		if size < block {
			continue
		}
		if err := s.spill(ctx, runs, batch); err != nil {
			return err
		}
		RecordsRead.Incr(scope, read)
		read = 0
		// The backing array is reused by the next batch; it must not pin
		// spilled elements.
		clear(batch)
		batch, size = batch[:0], 0
	}
	RecordsRead.Incr(scope, read)
	if len(batch) > 0 {
		if err := s.spill(ctx, runs, batch); err != nil {
			return err
		}
	}
	batch = nil
	log.Debug.Printf("sortio: merging %d runs", runs.Len())
	cursors, err := runs.Cursors(ctx)
	if err != nil {
		return err
	}
	err = Merge(ctx, cursors, s.cmp, s.opts.Distinct, func(v T) error {
		if verify {
			out.add(s.hash(v))
		}
		return emit(v)
	})
	if err != nil {
		return err
	}
	if verify && in != out {
		return errors.E(errors.Integrity,
			fmt.Sprintf("sortio: output (%d records, fingerprint %x) is not a permutation of input (%d records, fingerprint %x)",
				out.n, out.sum, in.n, in.sum))
	}
	return nil
}

// spill sorts batch, removes adjacent duplicates if the sort is
// distinct, and stores the result in a new run.
func (s *sorter[T]) spill(ctx context.Context, runs runStore[T], batch []T) error {
	if err := sortStable(batch, s.cmp, s.opts.Parallelism); err != nil {
		return err
	}
	if s.opts.Distinct {
		n := len(batch)
		batch = dedup(batch, s.cmp)
		DuplicatesDropped.Incr(metrics.ContextScope(ctx), n-len(batch))
	}
	if err := runs.Spill(ctx, batch); err != nil {
		return err
	}
	RunsSpilled.Incr(metrics.ContextScope(ctx), 1)
	return nil
}

// dedup removes, in place, every element of the sorted slice vs that
// compares equal to its predecessor. The first of each group of equal
// elements is kept.
func dedup[T any](vs []T, cmp func(a, b T) int) []T {
	if len(vs) < 2 {
		return vs
	}
	n := 1
	for i := 1; i < len(vs); i++ {
		if cmp(vs[n-1], vs[i]) != 0 {
			vs[n] = vs[i]
			n++
		}
	}
	return vs[:n]
}
