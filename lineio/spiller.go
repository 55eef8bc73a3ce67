// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lineio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/geosort/cursor"
)

// A Spiller manages a set of spill files of newline-delimited records
// in a temporary directory. Spill files are numbered in the order in
// which they are spilled, and are read back in that order.
type Spiller struct {
	dir string
	n   int
}

// NewSpiller creates and returns a new spiller backed by a temporary
// directory created in dir (or the default temporary directory if dir
// is empty).
func NewSpiller(dir, name string) (*Spiller, error) {
	tmp, err := os.MkdirTemp(dir, fmt.Sprintf("spiller-%s-", name))
	if err != nil {
		return nil, errors.E(err, "lineio: create spill directory")
	}
	return &Spiller{dir: tmp}, nil
}

// Dir returns the spiller's directory.
func (s *Spiller) Dir() string { return s.dir }

// Len returns the number of files spilled so far.
func (s *Spiller) Len() int { return s.n }

func (s *Spiller) path(i int) string {
	return filepath.Join(s.dir, fmt.Sprintf("run-%06d", i))
}

// Spill writes the provided records to a new spill file and returns
// the file's size in bytes.
func (s *Spiller) Spill(lines []string) (int, error) {
	path := s.path(s.n)
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.E(err, "lineio: create spill file")
	}
	s.n++
	w := bufio.NewWriter(f)
	var size int
	for _, line := range lines {
		n, err := io.WriteString(w, line)
		if err == nil {
			err = w.WriteByte('\n')
		}
		if err != nil {
			f.Close()
			return 0, errors.E(err, fmt.Sprintf("lineio: write spill file %s", path))
		}
		size += n + 1
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return 0, errors.E(err, fmt.Sprintf("lineio: flush spill file %s", path))
	}
	if err := f.Close(); err != nil {
		return 0, errors.E(err, fmt.Sprintf("lineio: close spill file %s", path))
	}
	return size, nil
}

// Cursors returns a cursor for each spill file, in spill order. The
// cursors own their files. If any file fails to open, the cursors
// opened so far are closed.
func (s *Spiller) Cursors() ([]cursor.Cursor[string], error) {
	cursors := make([]cursor.Cursor[string], 0, s.n)
	for i := 0; i < s.n; i++ {
		f, err := os.Open(s.path(i))
		if err == nil {
			var c cursor.Cursor[string]
			if c, err = cursor.OverLines(f, f); err == nil {
				cursors = append(cursors, c)
				continue
			}
		}
		for _, c := range cursors {
			c.Close()
		}
		return nil, errors.E(err, "lineio: open spill file")
	}
	return cursors, nil
}

// Cleanup removes the spiller's temporary files. It is safe to call
// Cleanup after Cursors, but before reading is done.
func (s *Spiller) Cleanup() error {
	return os.RemoveAll(s.dir)
}
