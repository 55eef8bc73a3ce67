// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package lineio provides I/O for newline-delimited UTF-8 records:
// cursors over files, buffered record writers, and the spiller used
// by the text mode of the external sorter. Paths are resolved through
// github.com/grailbio/base/file, so any registered file implementation
// (e.g., S3) may be used.
package lineio

import (
	"bufio"
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/geosort/cursor"
)

type fileCloser struct {
	ctx context.Context
	f   file.File
}

func (c fileCloser) Close() error { return c.f.Close(c.ctx) }

// Open opens the file at path and returns a cursor over its records
// together with the file's size in bytes.
func Open(ctx context.Context, path string) (cursor.Cursor[string], int64, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat(ctx)
	if err != nil {
		f.Close(ctx)
		return nil, 0, err
	}
	c, err := cursor.OverLines(f.Reader(ctx), fileCloser{ctx, f})
	if err != nil {
		return nil, 0, err
	}
	return c, info.Size(), nil
}

// A Writer writes newline-terminated records to an underlying
// io.Writer.
type Writer struct {
	w     *bufio.Writer
	close func() error
}

// NewWriter returns a Writer that writes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Create creates the file at path and returns a Writer of records to
// it. The file is committed by Close.
func Create(ctx context.Context, path string) (*Writer, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Writer{
		w:     bufio.NewWriter(f.Writer(ctx)),
		close: func() error { return f.Close(ctx) },
	}, nil
}

// WriteLine writes line followed by a newline.
func (w *Writer) WriteLine(line string) error {
	if _, err := w.w.WriteString(line); err != nil {
		return errors.E(err, "lineio: write record")
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return errors.E(err, "lineio: write record")
	}
	return nil
}

// Flush writes any buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer and, for writers returned by Create, closes
// the file.
func (w *Writer) Close() error {
	err := w.w.Flush()
	if w.close != nil {
		if cerr := w.close(); err == nil {
			err = cerr
		}
		w.close = nil
	}
	return err
}
