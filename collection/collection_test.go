// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package collection

import (
	"os"
	"reflect"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/geosort/codec"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
)

func testCollection[T any](t *testing.T, c Collection[T], seed int64, n int) {
	t.Helper()
	fz := fuzz.NewWithSeed(seed)
	fz.NilChance(0)
	want := make([]T, n)
	for i := range want {
		fz.Fuzz(&want[i])
		assert.NoError(t, c.Append(want[i]))
	}
	if got, want := c.Len(), int64(n); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	// Random access, back to front.
	for i := n - 1; i >= 0; i-- {
		v, err := c.Get(int64(i))
		assert.NoError(t, err)
		if !reflect.DeepEqual(v, want[i]) {
			t.Fatalf("index %d: got %v, want %v", i, v, want[i])
		}
	}
	if _, err := c.Get(int64(n)); !errors.Is(errors.Invalid, err) {
		t.Errorf("expected invalid error, got %v", err)
	}
	if _, err := c.Get(-1); !errors.Is(errors.Invalid, err) {
		t.Errorf("expected invalid error, got %v", err)
	}
	assert.NoError(t, c.Clear())
	if got, want := c.Len(), int64(0); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	// The collection is reusable after Clear.
	assert.NoError(t, c.Append(want[0]))
	got, err := ToSlice(c)
	assert.NoError(t, err)
	if !reflect.DeepEqual(got, want[:1]) {
		t.Errorf("got %v, want %v", got, want[:1])
	}
	assert.NoError(t, c.Clear())
}

func TestMemory(t *testing.T) {
	testCollection[int64](t, NewMemory[int64](codec.Int64{}), 1, 10000)
	testCollection[codec.Point](t, NewMemory[codec.Point](codec.Coord{}), 2, 5000)
	testCollection[string](t, NewMemory[string](codec.String{}), 3, 5000)
	testCollection[int64](t, NewMemory[int64](codec.Varint{}), 4, 5000)
	testCollection[[]int32](t, NewMemory[[]int32](codec.ListCodec[int32]{Elem: codec.Int32{}}), 5, 1000)
}

func TestMapped(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "collection")
	defer cleanup()
	testCollection[int64](t, NewMappedArray[int64](codec.Int64{}, dir), 1, 300000)
	testCollection[string](t, NewMappedArray[string](codec.String{}, dir), 2, 20000)
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	if got, want := len(entries), 0; got != want {
		t.Errorf("got %v region files left behind, want %v", got, want)
	}
}

func TestFactory(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "collection")
	defer cleanup()
	for _, factory := range []Factory[codec.Point]{
		MemoryFactory[codec.Point](codec.LonLat{}),
		MappedFactory[codec.Point](codec.LonLat{}, dir),
	} {
		a, b := factory(), factory()
		assert.NoError(t, a.Append(codec.Point{X: 7.4269, Y: 43.7384}))
		if got, want := b.Len(), int64(0); got != want {
			t.Errorf("factory collections share storage: got %v, want %v", got, want)
		}
		assert.NoError(t, a.Clear())
		assert.NoError(t, b.Clear())
	}
}

func TestArrayBytes(t *testing.T) {
	a := NewMemory[string](codec.String{})
	assert.NoError(t, FromSlice[string](a, []string{"a", "bc", ""}))
	if got, want := a.Bytes(), int64(4*3+3); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
