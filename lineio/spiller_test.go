// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package lineio

import (
	"os"
	"reflect"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/grailbio/geosort/cursor"
)

func fuzzLines(fz *fuzz.Fuzzer, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		var b []byte
		fz.Fuzz(&b)
		for j := range b {
			// Keep records on one line and valid ASCII.
			b[j] = 'a' + b[j]%26
		}
		lines[i] = string(b)
	}
	return lines
}

func TestSpiller(t *testing.T) {
	const n = 100
	fz := fuzz.NewWithSeed(123)
	spill, err := NewSpiller("", "test")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err = spill.Cleanup(); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(spill.Dir()); !os.IsNotExist(err) {
			t.Errorf("spill directory not removed: %v", err)
		}
	}()
	l1, l2 := fuzzLines(fz, n/2), fuzzLines(fz, n/2)
	if _, err = spill.Spill(l1); err != nil {
		t.Fatal(err)
	}
	size, err := spill.Spill(l2)
	if err != nil {
		t.Fatal(err)
	}
	want := 0
	for _, line := range l2 {
		want += len(line) + 1
	}
	if got := size; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err = spill.Spill(nil); err != nil {
		t.Fatal(err)
	}
	if got, want := spill.Len(), 3; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}

	cursors, err := spill.Cursors()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(cursors), 3; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, want := range [][]string{l1, l2, nil} {
		var got []string
		if err := cursor.Drain(cursors[i], func(line string) error {
			got = append(got, line)
			return nil
		}); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("run %d: got %v, want %v", i, got, want)
		}
	}
}
