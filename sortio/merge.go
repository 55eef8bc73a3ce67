// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package sortio

import (
	"container/heap"
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/geosort/cursor"
	"github.com/grailbio/geosort/metrics"
)

// Merge merges sorted cursors into a single sorted stream of elements
// passed to emit. Elements that compare equal are emitted in cursor
// order. If distinct is true, an element equal to the last emitted
// element is dropped; since the merged stream is sorted, this removes
// duplicates across cursors as well as within them.
//
// Merge closes every cursor, whether or not it succeeds. Merging no
// cursors emits nothing.
func Merge[T any](ctx context.Context, cursors []cursor.Cursor[T], cmp func(a, b T) int, distinct bool, emit func(T) error) (err error) {
	defer func() {
		for _, c := range cursors {
			if cerr := c.Close(); cerr != nil {
				if err == nil {
					err = cerr
				} else {
					log.Error.Printf("sortio: merge: close cursor: %v", cerr)
				}
			}
		}
	}()
	var (
		scope = metrics.ContextScope(ctx)
		h     = &cursorHeap[T]{cmp: cmp}
	)
	h.cursors = make([]*runCursor[T], 0, len(cursors))
	for i, c := range cursors {
		if c.Empty() {
			if err := c.Close(); err != nil {
				return err
			}
			continue
		}
		h.cursors = append(h.cursors, &runCursor[T]{Cursor: c, run: i})
	}
	heap.Init(h)
	var (
		last             T
		haveLast         bool
		emitted, dropped int
	)
	defer func() {
		RecordsEmitted.Incr(scope, emitted)
		DuplicatesDropped.Incr(scope, dropped)
	}()
	for h.Len() > 0 {
		c := heap.Pop(h).(*runCursor[T])
		v, err := c.Pop()
		if err != nil {
			return err
		}
		if distinct && haveLast && cmp(last, v) == 0 {
			dropped++
		} else {
			if err := emit(v); err != nil {
				return err
			}
			last, haveLast = v, true
			emitted++
		}
		if c.Empty() {
			if err := c.Close(); err != nil {
				return err
			}
		} else {
			heap.Push(h, c)
		}
	}
	return nil
}
