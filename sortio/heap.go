// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package sortio

import (
	"container/heap"

	"github.com/grailbio/geosort/cursor"
)

// A runCursor is a cursor participating in a merge, together with the
// index of the run it reads.
type runCursor[T any] struct {
	cursor.Cursor[T]
	run int
}

// cursorHeap implements a heap of nonempty cursors ordered by their
// current heads. Ties are broken by run index so that merging runs
// produced from consecutive batches is stable. A cursor's head is its
// ordering key: cursors must be popped before they are advanced, and
// pushed back afterwards.
type cursorHeap[T any] struct {
	cursors []*runCursor[T]
	cmp     func(a, b T) int
}

var _ heap.Interface = (*cursorHeap[int])(nil)

func (h *cursorHeap[T]) Len() int { return len(h.cursors) }

func (h *cursorHeap[T]) Less(i, j int) bool {
	a, b := h.cursors[i], h.cursors[j]
	if c := h.cmp(a.Peek(), b.Peek()); c != 0 {
		return c < 0
	}
	return a.run < b.run
}

func (h *cursorHeap[T]) Swap(i, j int) {
	h.cursors[i], h.cursors[j] = h.cursors[j], h.cursors[i]
}

// Push pushes a cursor onto the heap.
func (h *cursorHeap[T]) Push(x interface{}) {
	h.cursors = append(h.cursors, x.(*runCursor[T]))
}

// Pop removes the cursor with the smallest head from the heap.
func (h *cursorHeap[T]) Pop() interface{} {
	n := len(h.cursors)
	c := h.cursors[n-1]
	h.cursors[n-1] = nil
	h.cursors = h.cursors[:n-1]
	return c
}
