// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package sortio

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/geosort/cursor"
	"github.com/grailbio/geosort/lineio"
	"github.com/spaolacci/murmur3"
)

// stringOverhead is the in-memory size of a string header.
const stringOverhead = 16

// SortLines sorts the newline-delimited records of the file at src
// into a new file at dst. Records are compared with cmp, or
// lexicographically if cmp is nil. Paths are resolved by
// github.com/grailbio/base/file.
func SortLines(ctx context.Context, src, dst string, cmp func(a, b string) int, opts Options) (err error) {
	in, size, err := lineio.Open(ctx, src)
	if err != nil {
		return err
	}
	w, err := lineio.Create(ctx, dst)
	if err != nil {
		in.Close()
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				log.Error.Printf("sortio: close %s: %v", dst, cerr)
			}
		}
	}()
	return sortLines(ctx, in, size, w, cmp, opts)
}

// SortLineStream sorts the newline-delimited records read from r and
// writes them to w. The size of the input, in bytes, is used to size
// batches; it need not be exact.
func SortLineStream(ctx context.Context, r io.Reader, size int64, w io.Writer, cmp func(a, b string) int, opts Options) error {
	in, err := cursor.OverLines(r, nil)
	if err != nil {
		return err
	}
	out := lineio.NewWriter(w)
	if err := sortLines(ctx, in, size, out, cmp, opts); err != nil {
		return err
	}
	return out.Close()
}

func sortLines(ctx context.Context, in cursor.Cursor[string], size int64, w *lineio.Writer, cmp func(a, b string) int, opts Options) error {
	opts = opts.withDefaults()
	if cmp == nil {
		cmp = strings.Compare
	}
	spiller, err := lineio.NewSpiller(opts.TempDir, "sort")
	if err != nil {
		in.Close()
		return err
	}
	s := &sorter[string]{
		opts:  opts,
		cmp:   cmp,
		weigh: func(line string) int64 { return stringOverhead + int64(len(line)) },
		hash:  func(line string) uint64 { return murmur3.Sum64([]byte(line)) },
	}
	return s.Sort(ctx, in, size, lineRuns{spiller}, w.WriteLine)
}

// lineRuns stores runs in spill files.
type lineRuns struct {
	*lineio.Spiller
}

func (l lineRuns) Spill(ctx context.Context, batch []string) error {
	_, err := l.Spiller.Spill(batch)
	return err
}

func (l lineRuns) Cursors(ctx context.Context) ([]cursor.Cursor[string], error) {
	return l.Spiller.Cursors()
}

func (l lineRuns) Cleanup(ctx context.Context) error {
	return l.Spiller.Cleanup()
}
