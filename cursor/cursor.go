// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package cursor provides peekable cursors: iterators with a single
// element of lookahead over collections, line streams and slices.
// Cursors are the participants of a k-way merge.
package cursor

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/must"
	"github.com/grailbio/geosort/collection"
)

// A Cursor is a peekable iterator. A cursor is either empty or holds
// the next unread element in its lookahead slot. A cursor owns the
// resource it reads from and releases it on Close.
type Cursor[T any] interface {
	// Empty tells whether no unread elements remain.
	Empty() bool
	// Peek returns the next element without consuming it. Peek
	// panics if the cursor is empty.
	Peek() T
	// Pop consumes and returns the next element, and reads the
	// following one into the lookahead slot. Pop panics if the cursor
	// is empty. An error reading the following element is returned
	// together with the popped element; the cursor is then empty.
	Pop() (T, error)
	// Close releases the cursor's resource. Close is idempotent.
	Close() error
}

// lookahead implements the Empty/Peek/Pop protocol on top of a next
// function that reads one element.
type lookahead[T any] struct {
	next    func() (T, bool, error)
	head    T
	empty   bool
	closed  bool
	release func() error
}

func (l *lookahead[T]) fill() error {
	var (
		ok  bool
		err error
	)
	l.head, ok, err = l.next()
	l.empty = !ok || err != nil
	return err
}

func (l *lookahead[T]) Empty() bool { return l.empty }

func (l *lookahead[T]) Peek() T {
	must.True(!l.empty, "cursor: peek on empty cursor")
	return l.head
}

func (l *lookahead[T]) Pop() (T, error) {
	must.True(!l.empty, "cursor: pop on empty cursor")
	v := l.head
	return v, l.fill()
}

func (l *lookahead[T]) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	l.empty = true
	var zero T
	l.head = zero
	if l.release == nil {
		return nil
	}
	return l.release()
}

func newLookahead[T any](next func() (T, bool, error), release func() error) (Cursor[T], error) {
	l := &lookahead[T]{next: next, release: release}
	if err := l.fill(); err != nil {
		if release != nil {
			release()
		}
		return nil, err
	}
	return l, nil
}

// OverCollection returns a cursor that reads c in index order. The
// release function, if not nil, is called once when the cursor is
// closed; the external sorter uses it to destroy runs.
func OverCollection[T any](c collection.Collection[T], release func() error) (Cursor[T], error) {
	var (
		i int64
		n = c.Len()
	)
	next := func() (T, bool, error) {
		if i >= n {
			var zero T
			return zero, false, nil
		}
		v, err := c.Get(i)
		i++
		return v, err == nil, err
	}
	return newLookahead(next, release)
}

// OverLines returns a cursor over the newline-delimited records read
// from r. Newlines and a preceding carriage return are stripped; a
// final record without a newline is returned as is. The closer, if not
// nil, is closed with the cursor.
func OverLines(r io.Reader, closer io.Closer) (Cursor[string], error) {
	b, ok := r.(*bufio.Reader)
	if !ok {
		b = bufio.NewReader(r)
	}
	var done bool
	next := func() (string, bool, error) {
		if done {
			return "", false, nil
		}
		line, err := b.ReadString('\n')
		if err == io.EOF {
			done = true
			if line == "" {
				return "", false, nil
			}
		} else if err != nil {
			return "", false, errors.E(err, "cursor: read line")
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		return line, true, nil
	}
	var release func() error
	if closer != nil {
		release = closer.Close
	}
	return newLookahead(next, release)
}

// OverSlice returns a cursor over the values in vs.
func OverSlice[T any](vs []T) Cursor[T] {
	next := func() (T, bool, error) {
		if len(vs) == 0 {
			var zero T
			return zero, false, nil
		}
		v := vs[0]
		vs = vs[1:]
		return v, true, nil
	}
	l, _ := newLookahead(next, nil)
	return l
}

// Drain pops every remaining element of c into emit and closes c.
func Drain[T any](c Cursor[T], emit func(T) error) (err error) {
	defer func() {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}()
	for !c.Empty() {
		v, err := c.Pop()
		if err != nil {
			return err
		}
		if err := emit(v); err != nil {
			return err
		}
	}
	return nil
}
