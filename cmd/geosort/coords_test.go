// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/geosort/sortio"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
)

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" 7.4269, 43.7384")
	assert.NoError(t, err)
	if p.X != 7.4269 || p.Y != 43.7384 {
		t.Errorf("got %v", p)
	}
	for _, line := range []string{"7.4269", "x,1", "1,y", "181,0", "0,-91"} {
		if _, err := parsePoint(line); !errors.Is(errors.Invalid, err) {
			t.Errorf("%q: expected invalid error, got %v", line, err)
		}
	}
}

func TestSortPoints(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "geosort")
	defer cleanup()
	var (
		src  = filepath.Join(dir, "in.csv")
		dst  = filepath.Join(dir, "out.csv")
		tmp  = filepath.Join(dir, "tmp")
		opts = sortio.Options{MaxRuns: 2, Budget: sortio.FixedBudget(0), Distinct: true, Verify: true, TempDir: tmp}
	)
	assert.NoError(t, os.Mkdir(tmp, 0755))
	assert.NoError(t, os.WriteFile(src, []byte("90,45\n-90,-45\n\n90,-45\n-90,-45\n0,0\n"), 0644))
	assert.NoError(t, sortPoints(context.Background(), src, dst, opts))
	got, err := os.ReadFile(dst)
	assert.NoError(t, err)
	want := []string{
		"-90.0000000,-45.0000000",
		"0.0000000,0.0000000",
		"90.0000000,-45.0000000",
		"90.0000000,45.0000000",
	}
	if got, want := string(got), strings.Join(want, "\n")+"\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	entries, err := os.ReadDir(tmp)
	assert.NoError(t, err)
	if got, want := len(entries), 0; got != want {
		t.Errorf("got %v temporary files left behind, want %v", got, want)
	}
}

func TestSortPointsMalformed(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "geosort")
	defer cleanup()
	src := filepath.Join(dir, "in.csv")
	assert.NoError(t, os.WriteFile(src, []byte("1,2\nbogus\n"), 0644))
	err := sortPoints(context.Background(), src, filepath.Join(dir, "out.csv"), sortio.Options{TempDir: dir})
	if !errors.Is(errors.Invalid, err) {
		t.Errorf("expected invalid error, got %v", err)
	}
}
